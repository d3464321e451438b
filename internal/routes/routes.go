package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/authz"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Report    *handlers.ReportHandler
	Chat      *handlers.ChatHandler
	Assistant *handlers.AssistantHandler
	Upload    *handlers.UploadHandler
	Admin     *handlers.AdminHandler
}

// Setup registers every route. limiterStorage may be nil, in which case
// rate-limit counters are kept in process memory.
func Setup(app *fiber.App, cfg *config.Config, policy authz.Policy, limiterStorage fiber.Storage, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(newLimiter("api", 60, limiterStorage))

	api.Get("/health", h.Health.Check)

	// Stricter limit on credential endpoints: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(newLimiter("auth", 10, limiterStorage))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	jwt := middleware.JWTProtected(cfg)

	api.Post("/auth/logout", jwt, h.Auth.Logout)
	api.Delete("/auth/account", jwt, h.Auth.DeleteAccount)

	chats := api.Group("/chats", jwt)
	chats.Get("/", h.Chat.List)
	chats.Post("/", h.Chat.Create)
	chats.Get("/:id", h.Chat.Get)
	chats.Patch("/:id", h.Chat.ReplaceMessages)
	chats.Delete("/:id", h.Chat.Delete)

	api.Post("/assistant/stream", jwt, h.Assistant.Stream)
	api.Post("/uploads", jwt, h.Upload.Upload)

	reports := api.Group("/reports", jwt)
	reports.Post("/", h.Report.Create)
	reports.Get("/mine", h.Report.ListMine)
	reports.Get("/:id", h.Report.Get)

	admin := api.Group("/admin", jwt, middleware.AdminRequired(policy))
	admin.Get("/reports", h.Report.ListAll)
	admin.Patch("/reports/:id", h.Report.UpdateStatus)
	admin.Delete("/reports/:id", h.Report.Delete)
	admin.Get("/users/count", h.Admin.UsersCount)
}

// Keys are prefixed with name so limiters sharing a storage keep separate
// counters.
func newLimiter(name string, max int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return name + ":" + c.IP() },
		Storage:           storage,
	})
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/authz"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/cache"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/database"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/httpx"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/jobs"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/logging"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/notify"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/repository"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/routes"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.Env)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.AdminEmail == "" {
		slog.Warn("ADMIN_EMAIL not set, report notifications have no recipient")
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	sqlDB, err := database.DB.DB()
	if err != nil {
		slog.Error("database handle unavailable", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.NewDBHandler(database.DB, 5*time.Second)
	logging.Setup(cfg.Env, dbLogHandler)

	// Optional Redis for shared limiter counters and the sweep lock
	var redisStore *cache.Storage
	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		redisStore, err = cache.New(cfg.RedisURL, "support-desk:")
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisStore.Ping(pingCtx); err != nil {
			slog.Warn("redis unreachable, falling back to in-memory limiter", "error", err.Error())
			_ = redisStore.Close()
			redisStore = nil
		} else {
			limiterStorage = redisStore
		}
		cancel()
	}

	// Repositories and policy
	reportRepo := repository.NewReportRepository(database.DB)
	chatRepo := repository.NewChatRepository(database.DB)
	policy := authz.AnyOf{
		authz.NewAllowList(cfg.AdminUserIDs),
		authz.NewRolePolicy(database.DB),
	}

	// Notifications
	dispatcher := notify.NewDispatcher(notify.NewSender(cfg), cfg.AdminEmail)

	// Services
	outbound := httpx.NewClient(cfg.AITimeout)
	authService := services.NewAuthService(database.DB, cfg)
	reportService := services.NewReportService(reportRepo, chatRepo, policy, dispatcher)
	chatService := services.NewChatService(chatRepo)
	assistantService := services.NewAssistantService(outbound, cfg)
	uploadService := services.NewUploadService(outbound, cfg)
	userService := services.NewUserService(database.DB)

	// Background jobs
	jobsCtx, stopJobs := context.WithCancel(context.Background())
	scheduler := jobs.NewScheduler()
	if cfg.ReminderEnabled {
		sweep := jobs.NewReminderSweep(reportRepo, dispatcher, cfg.ReminderThreshold, cfg.MailRate)
		if redisStore != nil {
			sweep.WithLock(redisStore, cfg.ReminderInterval/2)
		}
		scheduler.Every(jobsCtx, "reminder_sweep", cfg.ReminderInterval, func(ctx context.Context) error {
			_, err := sweep.Run(ctx, time.Now())
			return err
		})
	}
	scheduler.Every(jobsCtx, "log_cleanup", 24*time.Hour, jobs.PruneSystemLogs(database.DB, cfg.LogRetention))

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, policy, limiterStorage, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Health:    handlers.NewHealthHandler(sqlDB),
		Report:    handlers.NewReportHandler(reportService),
		Chat:      handlers.NewChatHandler(chatService),
		Assistant: handlers.NewAssistantHandler(assistantService, cfg.AITimeout),
		Upload:    handlers.NewUploadHandler(uploadService),
		Admin:     handlers.NewAdminHandler(userService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stopJobs()
	scheduler.Wait()
	dispatcher.Wait()
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if redisStore != nil {
		_ = redisStore.Close()
	}
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

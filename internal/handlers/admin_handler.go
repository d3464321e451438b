package handlers

import (
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	userService *services.UserService
}

func NewAdminHandler(userService *services.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

func (h *AdminHandler) UsersCount(c *fiber.Ctx) error {
	n, err := h.userService.Count(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserCountResponse{Count: n})
}

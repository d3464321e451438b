package handlers

import (
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/identity"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) List(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	chats, err := h.chatService.List(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"chats": chats})
}

func (h *ChatHandler) Create(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	chat, err := h.chatService.Create(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(chat)
}

func (h *ChatHandler) Get(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	chatID, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid chat ID")
	}

	chat, err := h.chatService.Get(c.UserContext(), id, chatID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(chat)
}

func (h *ChatHandler) ReplaceMessages(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	chatID, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid chat ID")
	}

	var req dto.ReplaceMessagesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	chat, err := h.chatService.ReplaceMessages(c.UserContext(), id, chatID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(chat)
}

func (h *ChatHandler) Delete(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	chatID, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid chat ID")
	}

	if err := h.chatService.Delete(c.UserContext(), id, chatID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Chat deleted successfully"})
}

package handlers

import (
	"bufio"
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/services"
	"github.com/gofiber/fiber/v2"
)

const streamErrorText = "Error generating content.\n"

type AssistantHandler struct {
	assistantService *services.AssistantService
	timeout          time.Duration
}

func NewAssistantHandler(assistantService *services.AssistantService, timeout time.Duration) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService, timeout: timeout}
}

// Stream relays the answer as chunked plain text. Once the first byte is
// written the status is fixed, so later failures are reported in-band.
func (h *AssistantHandler) Stream(c *fiber.Ctx) error {
	var req dto.AssistantRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.assistantService.Validate(&req); err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	reqID := requestID(c)
	timeout := h.timeout

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := h.assistantService.Stream(ctx, &req, func(chunk string) error {
			if _, err := w.WriteString(chunk); err != nil {
				return err
			}
			return w.Flush()
		})
		if err != nil {
			slog.Error("assistant stream failed", "request_id", reqID, "action", "assistant_stream", "error", err)
			_, _ = w.WriteString(streamErrorText)
			_ = w.Flush()
		}
	})
	return nil
}

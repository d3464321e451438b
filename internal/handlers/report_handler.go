package handlers

import (
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/identity"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.Create(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// ListMine ignores any reporter passed in the query or body.
func (h *ReportHandler) ListMine(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	reports, err := h.reportService.ListMine(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports, "total": len(reports)})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	reportID, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.reportService.Get(c.UserContext(), id, reportID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) ListAll(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	reports, err := h.reportService.ListAll(c.UserContext(), id, c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports, "total": len(reports)})
}

func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	reportID, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.UpdateReportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.SetStatus(c.UserContext(), id, reportID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	reportID, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid report ID")
	}

	if err := h.reportService.Delete(c.UserContext(), id, reportID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Report deleted successfully"})
}

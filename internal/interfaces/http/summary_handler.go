package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
)

// SummaryHandler lista el snapshot de totales de cada proyecto.
type SummaryHandler struct {
	repo repository.SummaryRepository
}

// NewSummaryHandler construye el handler.
func NewSummaryHandler(repo repository.SummaryRepository) *SummaryHandler {
	return &SummaryHandler{repo: repo}
}

// List godoc
// @Summary      Totales de todos los proyectos, el actualizado más recientemente primero
// @Tags         summaries
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página (máx. 100)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.ProjectSummaryListResponse
// @Router       /api/summaries [get]
func (h *SummaryHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit and offset must be integers"})
	}
	page.DefaultPage()

	rows, err := h.repo.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ProjectSummaryListResponse{
		Items: make([]dto.ProjectSummaryResponse, 0, len(rows)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, r := range rows {
		out.Items = append(out.Items, dto.ProjectSummaryResponse{
			ProjectID:    r.ProjectID,
			InvoiceCount: r.InvoiceCount,
			Collected:    r.Collected,
			Outstanding:  r.Outstanding,
			Sent:         r.Sent,
			VendorPaid:   r.VendorPaid,
			VendorUnpaid: r.VendorUnpaid,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return c.JSON(out)
}

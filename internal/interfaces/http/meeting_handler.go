package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/application/usecase"
)

// MeetingHandler atiende los resúmenes de reuniones con IA.
type MeetingHandler struct {
	uc *usecase.MeetingUseCase
}

// NewMeetingHandler construye el handler.
func NewMeetingHandler(uc *usecase.MeetingUseCase) *MeetingHandler {
	return &MeetingHandler{uc: uc}
}

// Summarize godoc
// @Summary      Resumir la transcripción de una reunión con el LLM configurado
// @Description  El resumen (síntesis, decisiones, tareas, riesgos) se guarda
// @Description  en el proyecto y se devuelve. Las claves del proveedor no salen del servidor.
// @Tags         meetings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        projectID  path  string                       true  "proyecto"
// @Param        body       body  dto.SummarizeMeetingRequest  true  "title, heldAt, transcript"
// @Success      201  {object}  dto.MeetingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectID}/meetings/summarize [post]
func (h *MeetingHandler) Summarize(c *fiber.Ctx) error {
	var req dto.SummarizeMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Summarize(c.UserContext(), c.Params("projectID"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List devuelve los resúmenes guardados, el más nuevo primero.
// GET /api/projects/:projectID/meetings
func (h *MeetingHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("projectID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

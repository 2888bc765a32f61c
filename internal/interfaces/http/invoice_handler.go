package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/projectdesk-api/internal/application/billing"
	"github.com/jhoicas/projectdesk-api/internal/application/dto"
)

// InvoiceHeaderHash lleva el SHA-256 canónico de una factura XML exportada.
const InvoiceHeaderHash = "X-Invoice-Hash"

// InvoiceHandler atiende las facturas de un proyecto.
type InvoiceHandler struct {
	uc   *billing.InvoiceUseCase
	docs *billing.DocumentUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, docs *billing.DocumentUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, docs: docs}
}

// List godoc
// @Summary      Listar facturas en el orden guardado
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        projectID  path  string  true  "proyecto"
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/projects/{projectID}/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("projectID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear factura
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        projectID  path  string              true  "proyecto"
// @Param        body       body  dto.InvoiceRequest  true  "formulario de factura"
// @Success      201  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectID}/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), c.Params("projectID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get devuelve una factura con la etiqueta de su siguiente acción.
// GET /api/projects/:projectID/invoices/:id
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("projectID"), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update aplica el formulario a una factura existente.
// PUT /api/projects/:projectID/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("projectID"), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina una factura.
// DELETE /api/projects/:projectID/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("projectID"), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Advance godoc
// @Summary      Avanzar una factura por email a su siguiente estado
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        projectID  path  string  true  "proyecto"
// @Param        id         path  string  true  "factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectID}/invoices/{id}/advance [post]
func (h *InvoiceHandler) Advance(c *fiber.Ctx) error {
	out, err := h.uc.AdvanceStatus(c.UserContext(), c.Params("projectID"), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EtimadStage mueve una factura Etimad a la etapa pedida, o a la siguiente
// si el body viene vacío.
// POST /api/projects/:projectID/invoices/:id/etimad-stage
func (h *InvoiceHandler) EtimadStage(c *fiber.Ctx) error {
	stage, err := stageFromBody(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetEtimadStage(c.UserContext(), c.Params("projectID"), c.Params("id"), stage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CustomStage es EtimadStage para la entrega personalizada.
// POST /api/projects/:projectID/invoices/:id/custom-stage
func (h *InvoiceHandler) CustomStage(c *fiber.Ctx) error {
	stage, err := stageFromBody(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetCustomStage(c.UserContext(), c.Params("projectID"), c.Params("id"), stage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Totales del tablero de un proyecto
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        projectID  path  string  true  "proyecto"
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/projects/{projectID}/invoices/summary [get]
func (h *InvoiceHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), c.Params("projectID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF envía la factura como descarga PDF.
// GET /api/projects/:projectID/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	body, name, err := h.docs.DownloadInvoicePDF(c.UserContext(), c.Params("projectID"), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(body)
}

// EtimadXML envía la exportación UBL de una factura Etimad. El hash canónico
// viaja en el header X-Invoice-Hash.
// GET /api/projects/:projectID/invoices/:id/etimad-xml
func (h *InvoiceHandler) EtimadXML(c *fiber.Ctx) error {
	body, hash, name, err := h.docs.ExportEtimadXML(c.UserContext(), c.Params("projectID"), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Set(InvoiceHeaderHash, hash)
	return c.Send(body)
}

// stageFromBody lee {"stage": "..."}; un body vacío significa "siguiente etapa".
func stageFromBody(c *fiber.Ctx) (string, error) {
	if len(c.Body()) == 0 {
		return "", nil
	}
	var in dto.StageRequest
	if err := c.BodyParser(&in); err != nil {
		return "", err
	}
	return in.Stage, nil
}

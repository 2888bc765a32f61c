package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/projectdesk-api/internal/application/auth"
	"github.com/jhoicas/projectdesk-api/internal/application/billing"
	"github.com/jhoicas/projectdesk-api/internal/application/usecase"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
)

// RouterDeps dependencias del router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	InvoiceUC   *billing.InvoiceUseCase
	DocumentUC  *billing.DocumentUseCase
	MeetingUC   *usecase.MeetingUseCase
	SummaryRepo repository.SummaryRepository
	JWTSecret   string
}

// Router registra las rutas del API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (pública)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Todo lo de abajo exige token Bearer; las escrituras piden admin o manager.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	write := RequireRole(entity.RoleAdmin, entity.RoleManager)

	summaryHandler := NewSummaryHandler(deps.SummaryRepo)
	protected.Get("/summaries", summaryHandler.List)

	projects := protected.Group("/projects/:projectID")

	invoices := projects.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DocumentUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", write, invoiceHandler.Create)
	invoices.Get("/summary", invoiceHandler.Summary)
	invoices.Get("/:id", invoiceHandler.Get)
	invoices.Put("/:id", write, invoiceHandler.Update)
	invoices.Delete("/:id", write, invoiceHandler.Delete)
	invoices.Post("/:id/advance", write, invoiceHandler.Advance)
	invoices.Post("/:id/etimad-stage", write, invoiceHandler.EtimadStage)
	invoices.Post("/:id/custom-stage", write, invoiceHandler.CustomStage)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/etimad-xml", invoiceHandler.EtimadXML)

	meetings := projects.Group("/meetings")
	meetingHandler := NewMeetingHandler(deps.MeetingUC)
	meetings.Get("/", meetingHandler.List)
	meetings.Post("/summarize", write, meetingHandler.Summarize)
}

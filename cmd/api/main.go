package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/projectdesk-api/internal/application/auth"
	"github.com/jhoicas/projectdesk-api/internal/application/billing"
	"github.com/jhoicas/projectdesk-api/internal/application/ports"
	"github.com/jhoicas/projectdesk-api/internal/application/project"
	"github.com/jhoicas/projectdesk-api/internal/application/usecase"
	infraai "github.com/jhoicas/projectdesk-api/internal/infrastructure/ai"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/etimad"
	infrapdf "github.com/jhoicas/projectdesk-api/internal/infrastructure/pdf"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/projectdesk-api/internal/interfaces/http"
	"github.com/jhoicas/projectdesk-api/pkg/config"
	"github.com/jhoicas/projectdesk-api/pkg/logger"
	"github.com/jhoicas/projectdesk-api/pkg/money"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("starting")

	ctx := context.Background()
	backend, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("open store")
	}
	defer backend.Close()

	formatter, err := money.New(cfg.Billing.Currency, cfg.Billing.Locale)
	if err != nil {
		log.Fatal().Err(err).Msg("currency formatter")
	}

	projects := project.NewStore(backend.Blobs)
	invoiceUC := billing.NewInvoiceUseCase(projects, formatter, log.Component("billing"), nil)
	documentUC := billing.NewDocumentUseCase(
		invoiceUC,
		infrapdf.NewMarotoPDFGenerator(),
		etimad.NewUBLBuilder(),
		billing.Seller{Name: cfg.Billing.SellerName, VATNumber: cfg.Billing.SellerVAT},
		formatter.Currency(),
	)

	llm := newLLM(cfg.AI)
	if llm == nil {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("AI provider not configured; meeting summaries disabled")
	}
	meetingUC := usecase.NewMeetingUseCase(llm, projects,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second, log.Component("meetings"))

	authUC := auth.NewAuthUseCase(backend.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin")
	}
	if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("admin account created")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ProjectDesk API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": backend.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		InvoiceUC:   invoiceUC,
		DocumentUC:  documentUC,
		MeetingUC:   meetingUC,
		SummaryRepo: backend.Summaries,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("stopped")
}

// newLLM construye el adaptador indicado por AI_PROVIDER, o nil si falta su clave.
func newLLM(cfg config.AIConfig) ports.LLMService {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey != "" {
			return infraai.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		}
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			return infraai.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
		}
	case "openai":
		if cfg.OpenAIAPIKey != "" {
			return infraai.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, "")
		}
	}
	return nil
}

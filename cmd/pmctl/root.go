package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/projectdesk-api/internal/application/billing"
	"github.com/jhoicas/projectdesk-api/internal/application/project"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/etimad"
	infrapdf "github.com/jhoicas/projectdesk-api/internal/infrastructure/pdf"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/store"
	"github.com/jhoicas/projectdesk-api/pkg/config"
	"github.com/jhoicas/projectdesk-api/pkg/logger"
	"github.com/jhoicas/projectdesk-api/pkg/money"
)

var version = "1.0.0"

// rootOptions son los flags persistentes que comparten todos los comandos.
type rootOptions struct {
	verbose bool
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "pmctl",
		Short: "Operator CLI for project invoices",
		Long: `pmctl works directly on the project store selected by STORE_DRIVER
(postgres, redis, file or memory) with the same configuration as the API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level to stderr")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "load environment variables from this file first")

	root.AddCommand(
		newSeedCmd(opts),
		newSummaryCmd(opts),
		newAdvanceCmd(opts),
		newExportXMLCmd(opts),
	)
	return root
}

// app es la parte del cableado del API que necesitan los comandos.
type app struct {
	invoices *billing.InvoiceUseCase
	docs     *billing.DocumentUseCase
	log      zerolog.Logger
	close    func()
}

func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return nil, fmt.Errorf("env file: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Output: os.Stderr})

	backend, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	formatter, err := money.New(cfg.Billing.Currency, cfg.Billing.Locale)
	if err != nil {
		backend.Close()
		return nil, err
	}
	invoices := billing.NewInvoiceUseCase(project.NewStore(backend.Blobs), formatter, log.Component("pmctl"), nil)
	docs := billing.NewDocumentUseCase(
		invoices,
		infrapdf.NewMarotoPDFGenerator(),
		etimad.NewUBLBuilder(),
		billing.Seller{Name: cfg.Billing.SellerName, VATNumber: cfg.Billing.SellerVAT},
		formatter.Currency(),
	)
	log.Debug().Str("store", backend.Driver).Msg("store opened")
	return &app{invoices: invoices, docs: docs, log: log.Component("pmctl"), close: backend.Close}, nil
}

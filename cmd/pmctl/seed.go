package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
)

// demoInvoices cubre una vez cada tipo y cada vía de entrega.
var demoInvoices = []dto.InvoiceRequest{
	{InvoiceNumber: "INV-1001", Party: "Ministry of Culture", Description: "Discovery phase", Amount: dto.NewNumber(decimal.RequireFromString("12500.00")), IssueDate: "2026-01-15", DueDate: "2026-02-14"},
	{InvoiceNumber: "INV-1002", DeliveryMethod: "etimad", Party: "Ministry of Health", EtimadNotes: "PO 4471", Items: []dto.InvoiceItemRequest{
		{Description: "Design sprint", Quantity: dto.NewNumber(decimal.NewFromInt(2)), UnitPrice: dto.NewNumber(decimal.RequireFromString("8000"))},
		{Description: "Workshop", Quantity: dto.NewNumber(decimal.NewFromInt(1)), UnitPrice: dto.NewNumber(decimal.RequireFromString("3500"))},
	}},
	{InvoiceNumber: "INV-1003", DeliveryMethod: "custom", CustomDeliveryMethod: "Courier", Party: "Riyadh Expo", Amount: dto.NewNumber(decimal.RequireFromString("4200"))},
	{InvoiceNumber: "V-2001", InvoiceType: "vendor", Party: "Studio Nine", Description: "Illustrations", Amount: dto.NewNumber(decimal.RequireFromString("2750"))},
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed <project>",
		Short: "Add demo invoices to a project",
		Example: `  pmctl seed demo
  pmctl seed demo --reset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()

			projectID := args[0]
			if reset {
				if err := a.invoices.SaveInvoices(ctx, projectID, nil); err != nil {
					return err
				}
			}
			for _, req := range demoInvoices {
				inv, err := a.invoices.Create(ctx, projectID, req)
				if err != nil {
					return fmt.Errorf("seed %s: %w", req.InvoiceNumber, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", inv.ID, inv.InvoiceNumber, inv.Status, inv.AmountDisplay)
			}
			a.log.Info().Str("project_id", projectID).Int("count", len(demoInvoices)).Msg("seeded")
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop existing invoices first")
	return cmd
}

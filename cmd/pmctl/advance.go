package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

func newAdvanceCmd(opts *rootOptions) *cobra.Command {
	var stage string
	cmd := &cobra.Command{
		Use:   "advance <project> <invoice>",
		Short: "Move an invoice one step forward",
		Long: `Email invoices advance their status. Etimad and custom invoices move to
the next stage, or to --stage when given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()

			projectID, invoiceID := args[0], args[1]
			inv, err := a.invoices.Find(ctx, projectID, invoiceID)
			if err != nil {
				return err
			}
			var out *dto.InvoiceResponse
			switch inv.DeliveryMethod {
			case entity.DeliveryEtimad:
				out, err = a.invoices.SetEtimadStage(ctx, projectID, invoiceID, stage)
			case entity.DeliveryCustom:
				out, err = a.invoices.SetCustomStage(ctx, projectID, invoiceID, stage)
			default:
				out, err = a.invoices.AdvanceStatus(ctx, projectID, invoiceID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tstatus=%s", out.InvoiceNumber, out.Status)
			switch {
			case out.EtimadStage != "":
				fmt.Fprintf(cmd.OutOrStdout(), "\tstage=%s", out.EtimadStage)
			case out.CustomStage != "":
				fmt.Fprintf(cmd.OutOrStdout(), "\tstage=%s", out.CustomStage)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&stage, "stage", "", "target stage for Etimad or custom invoices")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summary <project>",
		Short: "Print the invoice totals of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()

			s, err := a.invoices.Summary(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Invoices\t%d\n", s.Total)
			fmt.Fprintf(w, "Collected\t%s\t(%d)\n", s.CollectedDisplay, s.CollectedCount)
			fmt.Fprintf(w, "Sent\t%s\n", s.SentDisplay)
			fmt.Fprintf(w, "Outstanding\t%s\n", s.OutstandingDisplay)
			fmt.Fprintf(w, "Vendor paid\t%s\t(%d)\n", s.VendorPaidDisplay, s.VendorPaidCount)
			fmt.Fprintf(w, "Vendor unpaid\t%s\n", s.VendorUnpaidDisplay)
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

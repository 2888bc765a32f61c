package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportXMLCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-xml <project> <invoice>",
		Short: "Write the Etimad UBL XML of an invoice",
		Example: `  pmctl export-xml demo 3f2c... -o invoice.xml
  pmctl export-xml demo 3f2c... > invoice.xml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()

			doc, hash, name, err := a.docs.ExportEtimadXML(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}
			if output == "." {
				output = name
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\tsha256=%s\n", output, hash)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file ("." uses the invoice filename); stdout when empty`)
	return cmd
}

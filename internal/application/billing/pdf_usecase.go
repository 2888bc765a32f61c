package billing

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

// DocumentUseCase entrega las facturas guardadas como documentos descargables.
type DocumentUseCase struct {
	invoices  *InvoiceUseCase
	generator InvoicePDFGenerator
	exporter  EtimadExporter
	seller    Seller
	currency  string
}

// NewDocumentUseCase conecta los renderizadores con el almacén de facturas.
func NewDocumentUseCase(
	invoices *InvoiceUseCase,
	generator InvoicePDFGenerator,
	exporter EtimadExporter,
	seller Seller,
	currency string,
) *DocumentUseCase {
	return &DocumentUseCase{
		invoices:  invoices,
		generator: generator,
		exporter:  exporter,
		seller:    seller,
		currency:  currency,
	}
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DownloadInvoicePDF devuelve los bytes del PDF y un nombre de archivo de descarga.
func (uc *DocumentUseCase) DownloadInvoicePDF(ctx context.Context, projectID, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoices.Find(ctx, projectID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateInvoicePDF(ctx, inv, PDFDocument{
		ProjectID:    projectID,
		Seller:       uc.seller,
		FormatAmount: uc.invoices.FormatAmount,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: render %s: %w", invoiceID, err)
	}
	return pdf, filename(inv, "pdf"), nil
}

// ExportEtimadXML devuelve el documento UBL de una factura Etimad, el SHA-256
// hex de su forma canónica y un nombre de archivo de descarga.
func (uc *DocumentUseCase) ExportEtimadXML(ctx context.Context, projectID, invoiceID string) ([]byte, string, string, error) {
	inv, err := uc.invoices.Find(ctx, projectID, invoiceID)
	if err != nil {
		return nil, "", "", err
	}
	if inv.DeliveryMethod != entity.DeliveryEtimad {
		return nil, "", "", &domain.TransitionError{
			Method: string(inv.DeliveryMethod),
			From:   string(inv.Status),
			Err:    domain.ErrWrongDeliveryMethod,
		}
	}
	doc, hash, err := uc.exporter.Export(ctx, inv, uc.seller, uc.currency)
	if err != nil {
		return nil, "", "", fmt.Errorf("etimad: export %s: %w", invoiceID, err)
	}
	return doc, hash, filename(inv, "xml"), nil
}

func filename(inv entity.Invoice, ext string) string {
	name := unsafeFilename.ReplaceAllString(inv.InvoiceNumber, "_")
	if name == "" {
		name = inv.ID
	}
	return fmt.Sprintf("invoice_%s.%s", name, ext)
}

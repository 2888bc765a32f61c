package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

// Seller identifica al emisor en los documentos exportados.
type Seller struct {
	Name      string
	VATNumber string
}

// InvoicePDFGenerator renderiza una factura como documento PDF.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv entity.Invoice, doc PDFDocument) ([]byte, error)
}

// PDFDocument es el contexto de presentación de un render PDF.
type PDFDocument struct {
	ProjectID    string
	Seller       Seller
	FormatAmount func(decimal.Decimal) string
}

// EtimadExporter arma el documento UBL que se envía por el portal Etimad
// y lo devuelve con el SHA-256 hex de su forma canónica.
type EtimadExporter interface {
	Export(ctx context.Context, inv entity.Invoice, seller Seller, currency string) (xmlDoc []byte, hash string, err error)
}

package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/projectdesk-api/internal/application/billing"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/pdf"
)

func TestGenerateInvoicePDF(t *testing.T) {
	issued := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv := entity.Invoice{
		ID:             "inv-1",
		InvoiceNumber:  "INV-2026-001",
		InvoiceType:    entity.InvoiceTypeClient,
		DeliveryMethod: entity.DeliveryEtimad,
		Status:         entity.StatusSent,
		EtimadStage:    entity.EtimadApproved,
		Party:          "Ministry of Works",
		Amount:         decimal.RequireFromString("1500"),
		IssueDate:      &issued,
		Items: []entity.InvoiceItem{{
			Description: "Phase 1",
			Quantity:    decimal.NewFromInt(3),
			UnitPrice:   decimal.NewFromInt(500),
			Amount:      decimal.NewFromInt(1500),
		}},
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), inv, appbilling.PDFDocument{
		ProjectID: "p1",
		Seller:    appbilling.Seller{Name: "Acme Consulting", VATNumber: "300000000000003"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_NoItemsNoDates(t *testing.T) {
	inv := entity.Invoice{
		ID: "inv-2", InvoiceNumber: "B-7", InvoiceType: entity.InvoiceTypeVendor,
		DeliveryMethod: entity.DeliveryEmail, Status: entity.StatusReceived, Amount: decimal.NewFromInt(40),
	}
	out, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), inv, appbilling.PDFDocument{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

// Package pdf renderiza facturas de proyecto en A4 con Maroto v2.
//
// Estructura de la página:
//
//	HEADER   vendedor + número IVA   | número de factura, tipo, fechas
//	PARTY    cliente o proveedor     | vía de entrega y avance
//	TABLE    descripción | cant. | precio unitario | valor
//	TOTALS   total en la moneda configurada
//	FOOTER   QR con la referencia de la factura
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/projectdesk-api/internal/application/billing"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator.
type MarotoPDFGenerator struct{}

func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF renderiza inv y devuelve los bytes del documento.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, inv entity.Invoice, doc appbilling.PDFDocument) ([]byte, error) {
	format := doc.FormatAmount
	if format == nil {
		format = func(d decimal.Decimal) string { return d.StringFixed(2) }
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		WithAuthor(nonEmpty(doc.Seller.Name, "ProjectDesk"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, doc.Seller))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(inv, format)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(format(inv.Amount)))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(doc.ProjectID, inv, format(inv.Amount)))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return out.GetBytes(), nil
}

func headerRow(inv entity.Invoice, seller appbilling.Seller) core.Row {
	title := "TAX INVOICE"
	if inv.InvoiceType == entity.InvoiceTypeVendor {
		title = "VENDOR BILL"
	}
	dates := "Issued: " + formatDate(inv.IssueDate)
	if inv.DueDate != nil {
		dates += "   Due: " + formatDate(inv.DueDate)
	}

	left := col.New(7).Add(
		text.New(nonEmpty(seller.Name, "ProjectDesk"), props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		}),
	)
	if seller.VATNumber != "" {
		left.Add(text.New("VAT: "+seller.VATNumber, props.Text{Size: 9, Top: 9, Color: colorGray}))
	}

	return row.New(18).Add(
		left,
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(dates, props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func partyRow(inv entity.Invoice) core.Row {
	label := "BILL TO"
	if inv.InvoiceType == entity.InvoiceTypeVendor {
		label = "VENDOR"
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(inv.Party, "-"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(5).Add(
			text.New("DELIVERY", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(progressLine(inv), props.Text{Size: 8, Align: align.Right, Top: 6, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Qty", 1, align.Center),
		h("Unit price", 2, align.Right),
		h("Amount", 3, align.Right),
	)
}

// tableRows lista los ítems; una factura sin ítems imprime su descripción
// como una sola línea.
func tableRows(inv entity.Invoice, format func(decimal.Decimal) string) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	if len(inv.Items) == 0 {
		return []core.Row{row.New(7).Add(
			cell(nonEmpty(inv.Description, inv.InvoiceNumber), 6, align.Left),
			cell("1", 1, align.Center),
			cell(format(inv.Amount), 2, align.Right),
			cell(format(inv.Amount), 3, align.Right),
		)}
	}
	rows := make([]core.Row, 0, len(inv.Items))
	for _, it := range inv.Items {
		rows = append(rows, row.New(7).Add(
			cell(it.Description, 6, align.Left),
			cell(it.Quantity.String(), 1, align.Center),
			cell(format(it.UnitPrice), 2, align.Right),
			cell(format(it.Amount), 3, align.Right),
		))
	}
	return rows
}

func totalsRow(total string) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(total, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func footerRow(projectID string, inv entity.Invoice, total string) core.Row {
	ref := strings.Join([]string{projectID, inv.InvoiceNumber, inv.ID, total}, "|")
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Reference: "+inv.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New("Status: "+string(inv.Status), props.Text{Size: 8, Top: 10, Left: 3}),
		),
	)
}

func progressLine(inv entity.Invoice) string {
	switch inv.DeliveryMethod {
	case entity.DeliveryEtimad:
		return "Etimad - " + string(inv.EtimadStage)
	case entity.DeliveryCustom:
		return nonEmpty(inv.CustomDeliveryMethod, "Custom") + " - " + string(inv.CustomStage)
	}
	return "Email - " + string(inv.Status)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02 Jan 2006")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

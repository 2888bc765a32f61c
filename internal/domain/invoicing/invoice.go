package invoicing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

// Draft guarda los campos editables del formulario de una factura.
type Draft struct {
	InvoiceNumber        string
	InvoiceType          entity.InvoiceType
	DeliveryMethod       entity.DeliveryMethod
	Party                string
	Description          string
	Amount               decimal.Decimal
	Items                []entity.InvoiceItem
	IssueDate            *time.Time
	DueDate              *time.Time
	CustomDeliveryMethod string
	EtimadNotes          string
	CustomFields         map[string]string
}

// NewInvoice construye una factura nueva a partir de un formulario guardado.
// Asigna el id y el ciclo de vida inicial:
//   - proveedor: received (dateReceived = now)
//   - cliente email: draft
//   - cliente etimad/custom: sent (dateSent = now)
//
// Etimad arranca en la etapa submitted, custom en pending.
func NewInvoice(d Draft, now time.Time) (entity.Invoice, error) {
	if err := validateDraft(&d); err != nil {
		return entity.Invoice{}, err
	}
	inv := entity.Invoice{
		ID:        uuid.New().String(),
		CreatedAt: now,
	}
	applyDraft(&inv, d, now)
	initLifecycle(&inv, now)
	return inv, nil
}

// ApplyEdit copia los campos del formulario sobre una factura existente. La
// identidad, el estado del ciclo de vida y las fechas se conservan. Tipo y vía de
// entrega solo cambian mientras la factura siga siendo un borrador por email sin enviar.
func ApplyEdit(existing entity.Invoice, d Draft, now time.Time) (entity.Invoice, error) {
	if d.InvoiceType == "" {
		d.InvoiceType = existing.InvoiceType
	}
	if d.DeliveryMethod == "" {
		d.DeliveryMethod = existing.DeliveryMethod
	}
	if err := validateDraft(&d); err != nil {
		return existing, err
	}
	out := existing.Clone()
	reshape := d.InvoiceType != existing.InvoiceType || d.DeliveryMethod != existing.DeliveryMethod
	if reshape && !isUnsentDraft(existing) {
		return existing, domain.ErrConflict
	}
	applyDraft(&out, d, now)
	if reshape {
		out.Status, out.EtimadStage, out.CustomStage = "", "", ""
		initLifecycle(&out, now)
	}
	return out, nil
}

// RecalculateItems impone valor = cantidad × precio unitario en cada línea y
// devuelve las líneas con su total.
func RecalculateItems(items []entity.InvoiceItem) ([]entity.InvoiceItem, decimal.Decimal) {
	if len(items) == 0 {
		return nil, decimal.Zero
	}
	out := make([]entity.InvoiceItem, len(items))
	total := decimal.Zero
	for i, it := range items {
		it.Amount = it.Quantity.Mul(it.UnitPrice)
		total = total.Add(it.Amount)
		out[i] = it
	}
	return out, total
}

func validateDraft(d *Draft) error {
	d.InvoiceNumber = strings.TrimSpace(d.InvoiceNumber)
	if d.InvoiceNumber == "" {
		return domain.ErrInvalidInput
	}
	if d.InvoiceType == "" {
		d.InvoiceType = entity.InvoiceTypeClient
	}
	if d.DeliveryMethod == "" {
		d.DeliveryMethod = entity.DeliveryEmail
	}
	if !d.InvoiceType.Valid() || !d.DeliveryMethod.Valid() {
		return domain.ErrInvalidInput
	}
	return nil
}

func applyDraft(inv *entity.Invoice, d Draft, now time.Time) {
	inv.InvoiceNumber = d.InvoiceNumber
	inv.InvoiceType = d.InvoiceType
	inv.DeliveryMethod = d.DeliveryMethod
	inv.Party = d.Party
	inv.Description = d.Description
	inv.IssueDate = d.IssueDate
	inv.DueDate = d.DueDate
	inv.CustomDeliveryMethod = ""
	inv.EtimadNotes = ""
	switch d.DeliveryMethod {
	case entity.DeliveryCustom:
		inv.CustomDeliveryMethod = d.CustomDeliveryMethod
	case entity.DeliveryEtimad:
		inv.EtimadNotes = d.EtimadNotes
	}
	inv.CustomFields = d.CustomFields
	if len(d.Items) > 0 {
		inv.Items, inv.Amount = RecalculateItems(d.Items)
	} else {
		inv.Items = nil
		inv.Amount = d.Amount
	}
	inv.UpdatedAt = now
}

func initLifecycle(inv *entity.Invoice, now time.Time) {
	switch {
	case inv.InvoiceType == entity.InvoiceTypeVendor:
		inv.Status = entity.StatusReceived
	case inv.DeliveryMethod == entity.DeliveryEmail:
		inv.Status = entity.StatusDraft
	default:
		inv.Status = entity.StatusSent
	}
	stampStatus(inv, inv.Status, now)
	switch inv.DeliveryMethod {
	case entity.DeliveryEtimad:
		inv.EtimadStage = entity.EtimadSubmitted
	case entity.DeliveryCustom:
		inv.CustomStage = entity.CustomPending
	}
}

func isUnsentDraft(inv entity.Invoice) bool {
	return inv.InvoiceType == entity.InvoiceTypeClient &&
		inv.DeliveryMethod == entity.DeliveryEmail &&
		inv.Status == entity.StatusDraft
}

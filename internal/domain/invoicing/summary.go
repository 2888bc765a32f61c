package invoicing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

// Summary guarda los totales del tablero para las facturas de un proyecto.
type Summary struct {
	Total int

	Collected      decimal.Decimal // facturas de cliente completadas por cualquier vía de entrega
	CollectedCount int
	Sent           decimal.Decimal // facturas de cliente por email pendientes de cobro

	Client               decimal.Decimal
	ClientCount          int
	ClientCollected      decimal.Decimal
	ClientCollectedCount int
	Outstanding          decimal.Decimal // Client - ClientCollected

	Vendor          decimal.Decimal
	VendorCount     int
	VendorPaid      decimal.Decimal
	VendorPaidCount int
	VendorUnpaid    decimal.Decimal // Vendor - VendorPaid
}

// IsCollected indica si una factura de cliente llegó a completarse por
// alguno de sus tres caminos: estado email, etapa Etimad o etapa custom.
func IsCollected(inv entity.Invoice) bool {
	if inv.InvoiceType != entity.InvoiceTypeClient {
		return false
	}
	return inv.Status == entity.StatusCollected ||
		(inv.DeliveryMethod == entity.DeliveryEtimad && inv.EtimadStage == entity.EtimadCollected) ||
		(inv.DeliveryMethod == entity.DeliveryCustom && inv.CustomStage == entity.CustomCompleted)
}

// Summarize reduce las facturas a sus totales en una sola pasada.
func Summarize(invoices []entity.Invoice) Summary {
	s := Summary{
		Collected:       decimal.Zero,
		Sent:            decimal.Zero,
		Client:          decimal.Zero,
		ClientCollected: decimal.Zero,
		Vendor:          decimal.Zero,
		VendorPaid:      decimal.Zero,
	}
	for _, inv := range invoices {
		s.Total++
		amount := inv.Amount
		switch inv.InvoiceType {
		case entity.InvoiceTypeClient:
			s.ClientCount++
			s.Client = s.Client.Add(amount)
			if IsCollected(inv) {
				s.CollectedCount++
				s.Collected = s.Collected.Add(amount)
			}
			if inv.DeliveryMethod == entity.DeliveryEmail && inv.Status == entity.StatusSent {
				s.Sent = s.Sent.Add(amount)
			}
		case entity.InvoiceTypeVendor:
			s.VendorCount++
			s.Vendor = s.Vendor.Add(amount)
			if inv.Status == entity.StatusPaid {
				s.VendorPaidCount++
				s.VendorPaid = s.VendorPaid.Add(amount)
			}
		}
	}
	s.ClientCollected = s.Collected
	s.ClientCollectedCount = s.CollectedCount
	s.Outstanding = s.Client.Sub(s.ClientCollected)
	s.VendorUnpaid = s.Vendor.Sub(s.VendorPaid)
	return s
}

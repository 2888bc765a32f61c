package entity

import "github.com/shopspring/decimal"

// InvoiceItem es una línea de una factura detallada. Amount = Quantity × UnitPrice.
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

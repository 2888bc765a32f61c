package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectSummarySnapshot es la copia persistida de los totales de facturas de un proyecto.
type ProjectSummarySnapshot struct {
	ProjectID    string
	InvoiceCount int
	Collected    decimal.Decimal
	Outstanding  decimal.Decimal
	Sent         decimal.Decimal
	VendorPaid   decimal.Decimal
	VendorUnpaid decimal.Decimal
	UpdatedAt    time.Time
}

// SummaryRepository lista el snapshot de totales de cada proyecto.
type SummaryRepository interface {
	List(ctx context.Context, limit, offset int) ([]ProjectSummarySnapshot, error)
}

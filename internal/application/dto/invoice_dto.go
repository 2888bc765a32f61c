package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRequest body de POST y PUT /api/projects/:projectID/invoices.
// Las fechas aceptan "2006-01-02" o RFC 3339; las fechas mal formadas se rechazan.
type InvoiceRequest struct {
	InvoiceNumber        string               `json:"invoiceNumber"`
	InvoiceType          string               `json:"invoiceType,omitempty"`    // client | vendor
	DeliveryMethod       string               `json:"deliveryMethod,omitempty"` // email | etimad | custom
	Party                string               `json:"party,omitempty"`
	Description          string               `json:"description,omitempty"`
	Amount               Number               `json:"amount"` // se ignora si hay ítems
	Items                []InvoiceItemRequest `json:"items,omitempty"`
	IssueDate            string               `json:"issueDate,omitempty"`
	DueDate              string               `json:"dueDate,omitempty"`
	CustomDeliveryMethod string               `json:"customDeliveryMethod,omitempty"`
	EtimadNotes          string               `json:"etimadNotes,omitempty"`
	CustomFields         map[string]string    `json:"customFields,omitempty"`
}

// InvoiceItemRequest una línea; el valor siempre se recalcula.
type InvoiceItemRequest struct {
	Description string `json:"description"`
	Quantity    Number `json:"quantity"`
	UnitPrice   Number `json:"unitPrice"`
}

// StageRequest body de las acciones etimad-stage y custom-stage.
// Una etapa vacía avanza a la siguiente.
type StageRequest struct {
	Stage string `json:"stage"`
}

// InvoiceItemResponse línea en las respuestas.
type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse factura tal como se ve en el tablero.
type InvoiceResponse struct {
	ID                   string                `json:"id"`
	InvoiceNumber        string                `json:"invoiceNumber"`
	InvoiceType          string                `json:"invoiceType"`
	DeliveryMethod       string                `json:"deliveryMethod"`
	Status               string                `json:"status"`
	EtimadStage          string                `json:"etimadStage,omitempty"`
	CustomStage          string                `json:"customStage,omitempty"`
	Party                string                `json:"party,omitempty"`
	Description          string                `json:"description,omitempty"`
	Amount               decimal.Decimal       `json:"amount"`
	AmountDisplay        string                `json:"amountDisplay"`
	Items                []InvoiceItemResponse `json:"items,omitempty"`
	IssueDate            *time.Time            `json:"issueDate,omitempty"`
	DueDate              *time.Time            `json:"dueDate,omitempty"`
	DateSent             *time.Time            `json:"dateSent,omitempty"`
	DateReceived         *time.Time            `json:"dateReceived,omitempty"`
	DateCollected        *time.Time            `json:"dateCollected,omitempty"`
	DatePaid             *time.Time            `json:"datePaid,omitempty"`
	CustomDeliveryMethod string                `json:"customDeliveryMethod,omitempty"`
	EtimadNotes          string                `json:"etimadNotes,omitempty"`
	CustomFields         map[string]string     `json:"customFields,omitempty"`
	Collected            bool                  `json:"collected"`
	NextAction           string                `json:"nextAction,omitempty"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// InvoiceListResponse GET /api/projects/:projectID/invoices.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Total int               `json:"total"`
}

// SummaryResponse totales del tablero de un proyecto.
type SummaryResponse struct {
	Total                int             `json:"total"`
	Collected            decimal.Decimal `json:"collected"`
	CollectedDisplay     string          `json:"collectedDisplay"`
	CollectedCount       int             `json:"collectedCount"`
	Sent                 decimal.Decimal `json:"sent"`
	SentDisplay          string          `json:"sentDisplay"`
	Client               decimal.Decimal `json:"client"`
	ClientCount          int             `json:"clientCount"`
	ClientCollected      decimal.Decimal `json:"clientCollected"`
	ClientCollectedCount int             `json:"clientCollectedCount"`
	Outstanding          decimal.Decimal `json:"outstanding"`
	OutstandingDisplay   string          `json:"outstandingDisplay"`
	Vendor               decimal.Decimal `json:"vendor"`
	VendorCount          int             `json:"vendorCount"`
	VendorPaid           decimal.Decimal `json:"vendorPaid"`
	VendorPaidCount      int             `json:"vendorPaidCount"`
	VendorPaidDisplay    string          `json:"vendorPaidDisplay"`
	VendorUnpaid         decimal.Decimal `json:"vendorUnpaid"`
	VendorUnpaidDisplay  string          `json:"vendorUnpaidDisplay"`
	Currency             string          `json:"currency"`
}

// ProjectSummaryResponse una fila de GET /api/summaries.
type ProjectSummaryResponse struct {
	ProjectID    string          `json:"projectId"`
	InvoiceCount int             `json:"invoiceCount"`
	Collected    decimal.Decimal `json:"collected"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	Sent         decimal.Decimal `json:"sent"`
	VendorPaid   decimal.Decimal `json:"vendorPaid"`
	VendorUnpaid decimal.Decimal `json:"vendorUnpaid"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ProjectSummaryListResponse GET /api/summaries.
type ProjectSummaryListResponse struct {
	Items []ProjectSummaryResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

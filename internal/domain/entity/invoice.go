package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType define el vocabulario de estados y el grupo de agregación.
type InvoiceType string

const (
	InvoiceTypeClient InvoiceType = "client" // por cobrar
	InvoiceTypeVendor InvoiceType = "vendor" // por pagar
)

// DeliveryMethod elige qué submáquina de estados maneja la factura.
type DeliveryMethod string

const (
	DeliveryEmail  DeliveryMethod = "email"
	DeliveryEtimad DeliveryMethod = "etimad"
	DeliveryCustom DeliveryMethod = "custom"
)

// InvoiceStatus es el campo canónico del ciclo de vida. Manda en las facturas
// por email; en etimad y custom es una proyección de la etapa.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusSent      InvoiceStatus = "sent"
	StatusReceived  InvoiceStatus = "received"
	StatusPending   InvoiceStatus = "pending" // reservado, ninguna transición lo produce
	StatusCollected InvoiceStatus = "collected"
	StatusPaid      InvoiceStatus = "paid"
)

// EtimadStage sigue el envío por el portal gubernamental Etimad.
type EtimadStage string

const (
	EtimadSubmitted   EtimadStage = "submitted"
	EtimadUnderReview EtimadStage = "underReview"
	EtimadApproved    EtimadStage = "approved"
	EtimadCollected   EtimadStage = "collected"
)

// CustomStage sigue un canal de entrega definido por el usuario.
type CustomStage string

const (
	CustomPending    CustomStage = "pending"
	CustomInProgress CustomStage = "inProgress"
	CustomCompleted  CustomStage = "completed"
)

// Invoice es un documento cobrable (cliente) o pagable (proveedor) de un proyecto.
// Los tags JSON definen el formato persistido del blob.
type Invoice struct {
	ID             string         `json:"id"`
	InvoiceNumber  string         `json:"invoiceNumber"`
	InvoiceType    InvoiceType    `json:"invoiceType"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
	Status         InvoiceStatus  `json:"status"`
	EtimadStage    EtimadStage    `json:"etimadStage,omitempty"`
	CustomStage    CustomStage    `json:"customStage,omitempty"`

	Party       string          `json:"party,omitempty"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Items       []InvoiceItem   `json:"items,omitempty"`
	IssueDate   *time.Time      `json:"issueDate,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`

	// Se fijan una vez, cuando ocurre la transición correspondiente; nunca se borran.
	DateSent      *time.Time `json:"dateSent,omitempty"`
	DateReceived  *time.Time `json:"dateReceived,omitempty"`
	DateCollected *time.Time `json:"dateCollected,omitempty"`
	DatePaid      *time.Time `json:"datePaid,omitempty"`

	CustomDeliveryMethod string            `json:"customDeliveryMethod,omitempty"`
	EtimadNotes          string            `json:"etimadNotes,omitempty"`
	CustomFields         map[string]string `json:"customFields,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Lifecycle es la representación única que maneja el avance de una factura.
// Aplica exactamente una de EmailLifecycle, EtimadLifecycle, CustomLifecycle.
type Lifecycle interface {
	Method() DeliveryMethod
	isLifecycle()
}

type EmailLifecycle struct{ Status InvoiceStatus }

type EtimadLifecycle struct{ Stage EtimadStage }

type CustomLifecycle struct{ Stage CustomStage }

func (EmailLifecycle) Method() DeliveryMethod  { return DeliveryEmail }
func (EtimadLifecycle) Method() DeliveryMethod { return DeliveryEtimad }
func (CustomLifecycle) Method() DeliveryMethod { return DeliveryCustom }

func (EmailLifecycle) isLifecycle()  {}
func (EtimadLifecycle) isLifecycle() {}
func (CustomLifecycle) isLifecycle() {}

// Lifecycle devuelve la variante elegida por DeliveryMethod, o nil para un
// método desconocido.
func (i Invoice) Lifecycle() Lifecycle {
	switch i.DeliveryMethod {
	case DeliveryEmail:
		return EmailLifecycle{Status: i.Status}
	case DeliveryEtimad:
		return EtimadLifecycle{Stage: i.EtimadStage}
	case DeliveryCustom:
		return CustomLifecycle{Stage: i.CustomStage}
	}
	return nil
}

// Clone devuelve una copia profunda, así los resultados de los motores no comparten memoria con su entrada.
func (i Invoice) Clone() Invoice {
	out := i
	if i.Items != nil {
		out.Items = append([]InvoiceItem(nil), i.Items...)
	}
	if i.CustomFields != nil {
		out.CustomFields = make(map[string]string, len(i.CustomFields))
		for k, v := range i.CustomFields {
			out.CustomFields[k] = v
		}
	}
	out.IssueDate = cloneTime(i.IssueDate)
	out.DueDate = cloneTime(i.DueDate)
	out.DateSent = cloneTime(i.DateSent)
	out.DateReceived = cloneTime(i.DateReceived)
	out.DateCollected = cloneTime(i.DateCollected)
	out.DatePaid = cloneTime(i.DatePaid)
	return out
}

// Validate verifica los invariantes estructurales de una factura guardada.
func (i Invoice) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("invoice: empty id")
	}
	if i.InvoiceNumber == "" {
		return fmt.Errorf("invoice %s: empty invoice number", i.ID)
	}
	if !i.InvoiceType.Valid() {
		return fmt.Errorf("invoice %s: unknown type %q", i.ID, i.InvoiceType)
	}
	switch i.DeliveryMethod {
	case DeliveryEmail:
		if i.EtimadStage != "" || i.CustomStage != "" {
			return fmt.Errorf("invoice %s: email invoice carries a stage", i.ID)
		}
	case DeliveryEtimad:
		if i.CustomStage != "" {
			return fmt.Errorf("invoice %s: etimad invoice carries a custom stage", i.ID)
		}
		if !i.EtimadStage.Valid() {
			return fmt.Errorf("invoice %s: unknown etimad stage %q", i.ID, i.EtimadStage)
		}
	case DeliveryCustom:
		if i.EtimadStage != "" {
			return fmt.Errorf("invoice %s: custom invoice carries an etimad stage", i.ID)
		}
		if !i.CustomStage.Valid() {
			return fmt.Errorf("invoice %s: unknown custom stage %q", i.ID, i.CustomStage)
		}
	default:
		return fmt.Errorf("invoice %s: unknown delivery method %q", i.ID, i.DeliveryMethod)
	}
	if !i.InvoiceType.AllowsStatus(i.Status) {
		return fmt.Errorf("invoice %s: status %q not valid for %s invoice", i.ID, i.Status, i.InvoiceType)
	}
	return nil
}

func (t InvoiceType) Valid() bool {
	return t == InvoiceTypeClient || t == InvoiceTypeVendor
}

// AllowsStatus indica si s pertenece al vocabulario de estados del tipo.
func (t InvoiceType) AllowsStatus(s InvoiceStatus) bool {
	switch t {
	case InvoiceTypeVendor:
		return s == StatusReceived || s == StatusPaid
	case InvoiceTypeClient:
		return s == StatusDraft || s == StatusSent || s == StatusCollected || s == StatusPending
	}
	return false
}

func (m DeliveryMethod) Valid() bool {
	return m == DeliveryEmail || m == DeliveryEtimad || m == DeliveryCustom
}

func (s EtimadStage) Valid() bool {
	switch s {
	case EtimadSubmitted, EtimadUnderReview, EtimadApproved, EtimadCollected:
		return true
	}
	return false
}

func (s CustomStage) Valid() bool {
	switch s {
	case CustomPending, CustomInProgress, CustomCompleted:
		return true
	}
	return false
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

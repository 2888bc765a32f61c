package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProjectBlob es el documento durable de cada proyecto. Facturas y reuniones
// van tipadas; cualquier otra clave de primer nivel (kanban, wbs, risks, ...) se
// guarda tal cual en Extra, así un leer-modificar-escribir nunca pierde datos vecinos.
type ProjectBlob struct {
	Invoices []Invoice
	Meetings []MeetingSummary
	Extra    map[string]json.RawMessage
}

const (
	blobKeyInvoices = "invoices"
	blobKeyMeetings = "meetings"
)

// MarshalJSON aplana Extra junto a las claves tipadas.
func (b ProjectBlob) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(b.Extra)+2)
	for k, v := range b.Extra {
		out[k] = v
	}
	invoices := b.Invoices
	if invoices == nil {
		invoices = []Invoice{}
	}
	raw, err := json.Marshal(invoices)
	if err != nil {
		return nil, fmt.Errorf("blob: marshal invoices: %w", err)
	}
	out[blobKeyInvoices] = raw
	if len(b.Meetings) > 0 {
		raw, err := json.Marshal(b.Meetings)
		if err != nil {
			return nil, fmt.Errorf("blob: marshal meetings: %w", err)
		}
		out[blobKeyMeetings] = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON separa el documento en claves tipadas y Extra.
func (b *ProjectBlob) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("blob: decode: %w", err)
	}
	*b = ProjectBlob{}
	if v, ok := raw[blobKeyInvoices]; ok {
		if err := json.Unmarshal(v, &b.Invoices); err != nil {
			return fmt.Errorf("blob: decode invoices: %w", err)
		}
		delete(raw, blobKeyInvoices)
	}
	if v, ok := raw[blobKeyMeetings]; ok {
		if err := json.Unmarshal(v, &b.Meetings); err != nil {
			return fmt.Errorf("blob: decode meetings: %w", err)
		}
		delete(raw, blobKeyMeetings)
	}
	if len(raw) > 0 {
		b.Extra = raw
	}
	return nil
}

// MeetingSummary es un resumen de una transcripción de reunión generado con IA.
type MeetingSummary struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	HeldAt      *time.Time   `json:"heldAt,omitempty"`
	Summary     string       `json:"summary"`
	Decisions   []string     `json:"decisions,omitempty"`
	ActionItems []ActionItem `json:"actionItems,omitempty"`
	Risks       []string     `json:"risks,omitempty"`
	Provider    string       `json:"provider"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// ActionItem es una tarea de seguimiento extraída de una reunión.
type ActionItem struct {
	Task     string `json:"task"`
	Owner    string `json:"owner,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
	Priority string `json:"priority,omitempty"`
}

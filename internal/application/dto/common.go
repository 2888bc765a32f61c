package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// PageRequest paginación para endpoints de listado.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto cuando Limit/Offset están fuera de rango.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en las respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Number es un campo numérico tolerante de los formularios del tablero. Acepta
// números JSON y strings numéricos; cualquier otra cosa (vacío, null, "abc") queda en 0.
type Number struct {
	decimal.Decimal
}

// NewNumber envuelve d.
func NewNumber(d decimal.Decimal) Number { return Number{Decimal: d} }

func (n *Number) UnmarshalJSON(b []byte) error {
	n.Decimal = decimal.Zero
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	} else {
		s = string(b)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	n.Decimal = d
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return n.Decimal.MarshalJSON()
}

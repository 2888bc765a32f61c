// Package vat valida números de registro de IVA saudíes tal como se imprimen
// en las facturas y van en la exportación UBL de Etimad.
package vat

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalid envuelve todo fallo de validación.
var ErrInvalid = errors.New("vat: invalid registration number")

const numberLen = 15

// Normalize quita espacios, puntos y guiones. Cualquier otro carácter que no sea
// dígito se conserva para que Validate lo rechace.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '-', r == '.':
			continue
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// Validate verifica un número de registro de IVA: 15 dígitos, el primero y el último '3'.
// "300-000 000.000 003" y "300000000000003" se aceptan ambos.
func Validate(number string) error {
	digits := Normalize(number)
	if len(digits) != numberLen {
		return fmt.Errorf("%w: want %d digits, got %d", ErrInvalid, numberLen, len(digits))
	}
	for i, r := range digits {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: non-digit %q at position %d", ErrInvalid, r, i+1)
		}
	}
	if digits[0] != '3' || digits[numberLen-1] != '3' {
		return fmt.Errorf("%w: must start and end with 3", ErrInvalid)
	}
	return nil
}

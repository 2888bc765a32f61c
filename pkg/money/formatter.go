// Package money muestra valores decimales. Nunca vuelve a alimentar los
// valores guardados.
package money

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter imprime valores como "<código ISO> <valor agrupado>" según un locale.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
	point   string // separador decimal del locale
}

// New construye un formatter para un código ISO 4217 y un tag de locale BCP 47.
// Un locale que no se puede parsear cae a inglés.
func New(code, locale string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("money: currency %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	return &Formatter{unit: unit, printer: p, point: decimalPoint(p)}, nil
}

// Currency devuelve el código ISO.
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Format muestra d con dos decimales y agrupación de dígitos del locale. Los
// dígitos salen del string decimal, así cualquier valor se imprime exacto.
func (f *Formatter) Format(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	return f.unit.String() + " " + sign + f.group(whole) + f.point + f.digits(frac)
}

// group inserta el separador de miles del locale en un string de dígitos ASCII.
func (f *Formatter) group(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return f.printer.Sprintf("%d", n)
	}
	// Más allá de int64: agrupa solo el primer tramo y rellena cada bloque de
	// tres dígitos siguiente, conservando separadores y dígitos del locale.
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	sep := thousandsSeparator(f.printer)
	var b strings.Builder
	b.WriteString(f.digits(digits[:head]))
	for i := head; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(f.digits(digits[i : i+3]))
	}
	return b.String()
}

// digits localiza cada dígito ASCII sin agrupar.
func (f *Formatter) digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(f.printer.Sprintf("%d", int(r-'0')))
	}
	return b.String()
}

func decimalPoint(p *message.Printer) string {
	r := []rune(p.Sprintf("%.1f", 1.5))
	if len(r) < 3 {
		return "."
	}
	return string(r[1 : len(r)-1])
}

func thousandsSeparator(p *message.Printer) string {
	r := []rune(p.Sprintf("%d", 1000))
	if len(r) < 5 {
		return ""
	}
	return string(r[1 : len(r)-3])
}

// Package etimad arma el documento de factura UBL 2.1 que se sube al portal de
// compras públicas Etimad y calcula el hash de su forma canónica.
package etimad

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	appbilling "github.com/jhoicas/projectdesk-api/internal/application/billing"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	profileID = "reporting:1.0"
	// UNTDID 1001: 388 factura tributaria.
	invoiceTypeCode = "388"
)

var _ appbilling.EtimadExporter = (*UBLBuilder)(nil)

// UBLBuilder implementa billing.EtimadExporter.
type UBLBuilder struct{}

func NewUBLBuilder() *UBLBuilder { return &UBLBuilder{} }

// Export renderiza inv y devuelve el documento indentado más el SHA-256 hex
// de su forma C14N.
func (b *UBLBuilder) Export(_ context.Context, inv entity.Invoice, seller appbilling.Seller, currency string) ([]byte, string, error) {
	if inv.InvoiceNumber == "" {
		return nil, "", fmt.Errorf("etimad: invoice %s has no number", inv.ID)
	}
	if currency == "" {
		currency = "SAR"
	}
	doc := b.build(inv, seller, currency)
	doc.Indent(2)
	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("etimad: write document: %w", err)
	}
	hash, err := CanonicalHash(body)
	if err != nil {
		return nil, "", err
	}
	return append([]byte(xml.Header), body...), hash, nil
}

// CanonicalHash devuelve el SHA-256 hex de la forma C14N de un XML, así los
// espacios y el orden de atributos no cambian el hash.
func CanonicalHash(doc []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("etimad: canonicalize: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func (b *UBLBuilder) build(inv entity.Invoice, seller appbilling.Seller, currency string) *etree.Document {
	doc := etree.NewDocument()
	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "ProfileID", profileID)
	cbc(root, "ID", inv.InvoiceNumber)
	cbc(root, "UUID", inv.ID)

	issued := inv.CreatedAt
	if inv.IssueDate != nil {
		issued = *inv.IssueDate
	}
	cbc(root, "IssueDate", issued.Format(time.DateOnly))
	if inv.DueDate != nil {
		cbc(root, "DueDate", inv.DueDate.Format(time.DateOnly))
	}
	cbc(root, "InvoiceTypeCode", invoiceTypeCode)
	if inv.EtimadNotes != "" {
		cbc(root, "Note", inv.EtimadNotes)
	}
	if inv.Description != "" {
		cbc(root, "Note", inv.Description)
	}
	cbc(root, "DocumentCurrencyCode", currency)
	cbc(root, "LineCountNumeric", strconv.Itoa(max(len(inv.Items), 1)))

	ref := root.CreateElement("cac:AdditionalDocumentReference")
	cbc(ref, "ID", "ETIMAD-STAGE")
	cbc(ref, "DocumentDescription", string(inv.EtimadStage))

	// En facturas de proveedor la contraparte es el proveedor.
	supplier, customer := party{name: seller.Name, vat: seller.VATNumber}, party{name: inv.Party}
	if inv.InvoiceType == entity.InvoiceTypeVendor {
		supplier, customer = customer, supplier
	}
	writeParty(root, "cac:AccountingSupplierParty", supplier)
	writeParty(root, "cac:AccountingCustomerParty", customer)

	total := root.CreateElement("cac:LegalMonetaryTotal")
	amount(total, "LineExtensionAmount", inv.Amount, currency)
	amount(total, "PayableAmount", inv.Amount, currency)

	if len(inv.Items) == 0 {
		writeLine(root, 1, entity.InvoiceItem{
			Description: inv.InvoiceNumber,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   inv.Amount,
			Amount:      inv.Amount,
		}, currency)
	}
	for i, it := range inv.Items {
		writeLine(root, i+1, it, currency)
	}
	return doc
}

type party struct {
	name string
	vat  string
}

func writeParty(root *etree.Element, tag string, p party) {
	el := root.CreateElement(tag).CreateElement("cac:Party")
	if p.vat != "" {
		scheme := el.CreateElement("cac:PartyTaxScheme")
		cbc(scheme, "CompanyID", p.vat)
		cbc(scheme.CreateElement("cac:TaxScheme"), "ID", "VAT")
	}
	cbc(el.CreateElement("cac:PartyLegalEntity"), "RegistrationName", p.name)
}

func writeLine(root *etree.Element, n int, it entity.InvoiceItem, currency string) {
	line := root.CreateElement("cac:InvoiceLine")
	cbc(line, "ID", strconv.Itoa(n))
	q := cbc(line, "InvoicedQuantity", it.Quantity.String())
	q.CreateAttr("unitCode", "PCE")
	amount(line, "LineExtensionAmount", it.Amount, currency)
	cbc(line.CreateElement("cac:Item"), "Name", it.Description)
	amount(line.CreateElement("cac:Price"), "PriceAmount", it.UnitPrice, currency)
}

func cbc(parent *etree.Element, name, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + name)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, name string, d decimal.Decimal, currency string) {
	cbc(parent, name, d.StringFixed(2)).CreateAttr("currencyID", currency)
}

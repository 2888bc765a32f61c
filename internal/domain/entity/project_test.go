package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

func ptr(t time.Time) *time.Time { return &t }

func sampleInvoices() []entity.Invoice {
	sent := time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)
	issued := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	collected := time.Date(2026, 2, 27, 14, 5, 9, 0, time.FixedZone("AST", 3*3600))
	return []entity.Invoice{
		{
			ID: "b", InvoiceNumber: "INV-2", InvoiceType: entity.InvoiceTypeClient,
			DeliveryMethod: entity.DeliveryEtimad, Status: entity.StatusSent,
			EtimadStage: entity.EtimadApproved, EtimadNotes: "tender 17",
			Amount:   decimal.RequireFromString("1500.75"),
			DateSent: ptr(sent),
			Items: []entity.InvoiceItem{{
				Description: "Phase 1", Quantity: decimal.NewFromInt(3),
				UnitPrice: decimal.RequireFromString("500.25"), Amount: decimal.RequireFromString("1500.75"),
			}},
			CreatedAt: sent, UpdatedAt: sent,
		},
		{
			ID: "a", InvoiceNumber: "V-1", InvoiceType: entity.InvoiceTypeVendor,
			DeliveryMethod: entity.DeliveryCustom, Status: entity.StatusReceived,
			CustomStage: entity.CustomInProgress, CustomDeliveryMethod: "courier",
			CustomFields: map[string]string{"po": "PO-77"},
			Amount:       decimal.NewFromInt(320), DateReceived: ptr(sent),
			CreatedAt: sent, UpdatedAt: sent,
		},
		{
			ID: "c", InvoiceNumber: "INV-3", InvoiceType: entity.InvoiceTypeClient,
			DeliveryMethod: entity.DeliveryEmail, Status: entity.StatusCollected,
			Party: "Ministry of Culture", Description: "Milestone 2",
			Amount:        decimal.RequireFromString("98000.10"),
			IssueDate:     ptr(issued),
			DueDate:       ptr(due),
			DateSent:      ptr(sent),
			DateCollected: ptr(collected),
			CreatedAt:     issued, UpdatedAt: collected,
		},
		{
			ID: "d", InvoiceNumber: "V-9", InvoiceType: entity.InvoiceTypeVendor,
			DeliveryMethod: entity.DeliveryEmail, Status: entity.StatusPaid,
			Party: "Print House", Description: "Brochures",
			Amount:       decimal.RequireFromString("4200"),
			IssueDate:    ptr(issued),
			DueDate:      ptr(due),
			DateReceived: ptr(sent),
			DatePaid:     ptr(collected),
			CreatedAt:    issued, UpdatedAt: collected,
		},
	}
}

func assertTimeEqual(t *testing.T, field string, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, field)
		return
	}
	if assert.NotNil(t, got, field) {
		assert.True(t, want.Equal(*got), "%s: %s != %s", field, want, got)
	}
}

func assertInvoicesEqual(t *testing.T, want, got []entity.Invoice) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.InvoiceNumber, g.InvoiceNumber)
		assert.Equal(t, w.InvoiceType, g.InvoiceType)
		assert.Equal(t, w.DeliveryMethod, g.DeliveryMethod)
		assert.Equal(t, w.Lifecycle(), g.Lifecycle())
		assert.Equal(t, w.Status, g.Status)
		assert.Equal(t, w.EtimadStage, g.EtimadStage)
		assert.Equal(t, w.CustomStage, g.CustomStage)
		assert.Equal(t, w.Party, g.Party)
		assert.Equal(t, w.Description, g.Description)
		assert.True(t, w.Amount.Equal(g.Amount), "amount %s != %s", w.Amount, g.Amount)
		assert.Equal(t, w.CustomFields, g.CustomFields)
		assert.Equal(t, w.EtimadNotes, g.EtimadNotes)
		assert.Equal(t, w.CustomDeliveryMethod, g.CustomDeliveryMethod)

		assertTimeEqual(t, "issueDate", w.IssueDate, g.IssueDate)
		assertTimeEqual(t, "dueDate", w.DueDate, g.DueDate)
		assertTimeEqual(t, "dateSent", w.DateSent, g.DateSent)
		assertTimeEqual(t, "dateReceived", w.DateReceived, g.DateReceived)
		assertTimeEqual(t, "dateCollected", w.DateCollected, g.DateCollected)
		assertTimeEqual(t, "datePaid", w.DatePaid, g.DatePaid)
		assert.True(t, w.CreatedAt.Equal(g.CreatedAt), "createdAt")
		assert.True(t, w.UpdatedAt.Equal(g.UpdatedAt), "updatedAt")

		require.Len(t, g.Items, len(w.Items))
		for j := range w.Items {
			assert.Equal(t, w.Items[j].Description, g.Items[j].Description)
			assert.True(t, w.Items[j].Quantity.Equal(g.Items[j].Quantity))
			assert.True(t, w.Items[j].UnitPrice.Equal(g.Items[j].UnitPrice))
			assert.True(t, w.Items[j].Amount.Equal(g.Items[j].Amount))
		}
	}
}

func TestProjectBlob_RoundTrip(t *testing.T) {
	in := entity.ProjectBlob{Invoices: sampleInvoices()}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out entity.ProjectBlob
	require.NoError(t, json.Unmarshal(data, &out))
	assertInvoicesEqual(t, in.Invoices, out.Invoices)
	assert.Equal(t, "b", out.Invoices[0].ID, "order must be preserved")
}

func TestProjectBlob_KeepsUnknownSections(t *testing.T) {
	raw := []byte(`{"invoices":[],"kanban":{"columns":["todo","done"]},"wbs":[1,2]}`)
	var blob entity.ProjectBlob
	require.NoError(t, json.Unmarshal(raw, &blob))
	assert.Empty(t, blob.Invoices)
	require.Contains(t, blob.Extra, "kanban")

	blob.Invoices = sampleInvoices()[:1]
	data, err := json.Marshal(blob)
	require.NoError(t, err)

	var generic map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.JSONEq(t, `{"columns":["todo","done"]}`, string(generic["kanban"]))
	assert.JSONEq(t, `[1,2]`, string(generic["wbs"]))
	assert.Contains(t, string(generic["invoices"]), `"invoiceNumber":"INV-2"`)
}

func TestProjectBlob_EmptyMarshalsInvoiceArray(t *testing.T) {
	data, err := json.Marshal(entity.ProjectBlob{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoices":[]}`, string(data))
}

func TestInvoice_ValidateExclusiveStages(t *testing.T) {
	inv := sampleInvoices()[0]
	require.NoError(t, inv.Validate())

	inv.CustomStage = entity.CustomPending
	assert.Error(t, inv.Validate())

	vendor := sampleInvoices()[1]
	require.NoError(t, vendor.Validate())
	vendor.Status = entity.StatusSent
	assert.Error(t, vendor.Validate(), "vendor invoices never take client statuses")
}

func TestInvoice_CloneIsDeep(t *testing.T) {
	inv := sampleInvoices()[1]
	c := inv.Clone()
	c.CustomFields["po"] = "changed"
	*c.DateReceived = c.DateReceived.Add(time.Hour)
	assert.Equal(t, "PO-77", inv.CustomFields["po"])
	assert.False(t, inv.DateReceived.Equal(*c.DateReceived))
}

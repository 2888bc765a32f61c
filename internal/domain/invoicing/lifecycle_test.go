package invoicing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/domain/invoicing"
)

var (
	t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(24 * time.Hour)
	t2 = t1.Add(24 * time.Hour)
)

func newInvoice(t *testing.T, typ entity.InvoiceType, method entity.DeliveryMethod) entity.Invoice {
	t.Helper()
	inv, err := invoicing.NewInvoice(invoicing.Draft{
		InvoiceNumber:  "INV-001",
		InvoiceType:    typ,
		DeliveryMethod: method,
		Amount:         decimal.NewFromInt(1000),
	}, t0)
	require.NoError(t, err)
	return inv
}

// ──────────────────────────────────────────────────────────────────────────────
// AdvanceStatus (email)
// ──────────────────────────────────────────────────────────────────────────────

func TestAdvanceStatus_ClientProgression(t *testing.T) {
	inv := newInvoice(t, entity.InvoiceTypeClient, entity.DeliveryEmail)
	require.Equal(t, entity.StatusDraft, inv.Status)
	assert.Nil(t, inv.DateSent)

	sent, err := invoicing.AdvanceStatus(inv, t1)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSent, sent.Status)
	require.NotNil(t, sent.DateSent)
	assert.True(t, sent.DateSent.Equal(t1))
	assert.Nil(t, sent.DateCollected)

	collected, err := invoicing.AdvanceStatus(sent, t2)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCollected, collected.Status)
	require.NotNil(t, collected.DateCollected)
	assert.True(t, collected.DateCollected.Equal(t2))
	assert.True(t, collected.DateSent.Equal(t1), "dateSent must survive later transitions")
}

func TestAdvanceStatus_TerminalIsIdentity(t *testing.T) {
	inv := newInvoice(t, entity.InvoiceTypeClient, entity.DeliveryEmail)
	inv, _ = invoicing.AdvanceStatus(inv, t1)
	inv, _ = invoicing.AdvanceStatus(inv, t2)
	require.Equal(t, entity.StatusCollected, inv.Status)

	again, err := invoicing.AdvanceStatus(inv, t2.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, inv, again, "a collected invoice must come back field-for-field equal")
}

func TestAdvanceStatus_VendorPath(t *testing.T) {
	inv := newInvoice(t, entity.InvoiceTypeVendor, entity.DeliveryEmail)
	require.Equal(t, entity.StatusReceived, inv.Status)
	require.NotNil(t, inv.DateReceived, "vendor invoices are received at creation")

	paid, err := invoicing.AdvanceStatus(inv, t1)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, paid.Status)
	require.NotNil(t, paid.DatePaid)
	assert.True(t, paid.DatePaid.Equal(t1))
	assert.True(t, paid.DateReceived.Equal(t0))

	again, err := invoicing.AdvanceStatus(paid, t2)
	require.NoError(t, err)
	assert.Equal(t, paid, again)
}

func TestAdvanceStatus_DoesNotMutateInput(t *testing.T) {
	inv := newInvoice(t, entity.InvoiceTypeClient, entity.DeliveryEmail)
	_, err := invoicing.AdvanceStatus(inv, t1)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, inv.Status)
	assert.Nil(t, inv.DateSent)
}

func TestAdvanceStatus_RejectsNonEmail(t *testing.T) {
	for _, method := range []entity.DeliveryMethod{entity.DeliveryEtimad, entity.DeliveryCustom} {
		inv := newInvoice(t, entity.InvoiceTypeClient, method)
		out, err := invoicing.AdvanceStatus(inv, t1)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrWrongDeliveryMethod)

		var te *domain.TransitionError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, string(method), te.Method)
		assert.Equal(t, inv, out)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Etapas Etimad
// ──────────────────────────────────────────────────────────────────────────────

func TestAdvanceEtimadStage_FullPath(t *testing.T) {
	inv := newInvoice(t, entity.InvoiceTypeClient, entity.DeliveryEtimad)
	require.Equal(t, entity.StatusSent, inv.Status)
	require.Equal(t, entity.EtimadSubmitted, inv.EtimadStage)
	require.NotNil(t, inv.DateSent)

	inv, err := invoicing.AdvanceEtimadStage(inv, entity.EtimadUnderReview, t1)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSent, inv.Status, "middle stages leave status alone")

	inv, err = invoicing.AdvanceEtimadStage(inv, entity.EtimadApproved, t1)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSent, inv.Status)
	assert.Nil(t, inv.DateCollected)

	inv, err = invoicing.AdvanceEtimadStage(inv, entity.EtimadCollected, t2)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCollected, inv.Status)
	require.NotNil(t, inv.DateCollected)
	assert.True(t, inv.DateCollected.Equal(t2))
	assert.True(t, inv.DateSent.Equal(t0))
	assert.Empty(t, inv.CustomStage)
}

func TestAdvanceEtimadStage_RejectsJumps(t *testing.T) {
	inv := newInvoice(t, entity.InvoiceTypeClient, entity.DeliveryEtimad)

	cases := []entity.EtimadStage{
		entity.EtimadCollected,
		entity.EtimadApproved,
		entity.EtimadSubmitted,
		"bogus",
	}
	for _, target := range cases {
		out, err := invoicing.AdvanceEtimadStage(inv, target, t1)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "target %q", target)
		assert.Equal(t, inv, out)
	}
}

func TestAdvanceEtimadStage_VendorStaysInVendorVocabulary(t *testing.T) {
	inv := newInvoice(t, entity.InvoiceTypeVendor, entity.DeliveryEtimad)
	require.Equal(t, entity.StatusReceived, inv.Status)

	for _, s := range []entity.EtimadStage{entity.EtimadUnderReview, entity.EtimadApproved, entity.EtimadCollected} {
		var err error
		inv, err = invoicing.AdvanceEtimadStage(inv, s, t1)
		require.NoError(t, err)
		assert.True(t, entity.InvoiceTypeVendor.AllowsStatus(inv.Status), "status %q", inv.Status)
	}
	assert.Equal(t, entity.StatusPaid, inv.Status)
	require.NotNil(t, inv.DatePaid)
}

func TestAdvanceEtimadStage_RejectsOtherMethods(t *testing.T) {
	inv := newInvoice(t, entity.InvoiceTypeClient, entity.DeliveryCustom)
	_, err := invoicing.AdvanceEtimadStage(inv, entity.EtimadUnderReview, t1)
	assert.ErrorIs(t, err, domain.ErrWrongDeliveryMethod)
}

// ──────────────────────────────────────────────────────────────────────────────
// Etapas custom
// ──────────────────────────────────────────────────────────────────────────────

func TestAdvanceCustomStage_DoesNotDriveStatus(t *testing.T) {
	inv := newInvoice(t, entity.InvoiceTypeClient, entity.DeliveryCustom)
	require.Equal(t, entity.CustomPending, inv.CustomStage)
	require.Equal(t, entity.StatusSent, inv.Status)

	inv, err := invoicing.AdvanceCustomStage(inv, entity.CustomInProgress, t1)
	require.NoError(t, err)
	inv, err = invoicing.AdvanceCustomStage(inv, entity.CustomCompleted, t2)
	require.NoError(t, err)

	assert.Equal(t, entity.CustomCompleted, inv.CustomStage)
	assert.Equal(t, entity.StatusSent, inv.Status, "custom stage never moves status")
	assert.Nil(t, inv.DateCollected)
	assert.Empty(t, inv.EtimadStage)
	assert.True(t, invoicing.IsCollected(inv))
}

func TestAdvanceCustomStage_RejectsJumpsAndReplays(t *testing.T) {
	inv := newInvoice(t, entity.InvoiceTypeClient, entity.DeliveryCustom)
	_, err := invoicing.AdvanceCustomStage(inv, entity.CustomCompleted, t1)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	inv, err = invoicing.AdvanceCustomStage(inv, entity.CustomInProgress, t1)
	require.NoError(t, err)
	_, err = invoicing.AdvanceCustomStage(inv, entity.CustomInProgress, t1)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestNextStageHelpers(t *testing.T) {
	next, ok := invoicing.NextEtimadStage(entity.EtimadApproved)
	assert.True(t, ok)
	assert.Equal(t, entity.EtimadCollected, next)
	_, ok = invoicing.NextEtimadStage(entity.EtimadCollected)
	assert.False(t, ok)

	nextCustom, ok := invoicing.NextCustomStage(entity.CustomPending)
	assert.True(t, ok)
	assert.Equal(t, entity.CustomInProgress, nextCustom)
	_, ok = invoicing.NextCustomStage(entity.CustomCompleted)
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// NextActionLabel
// ──────────────────────────────────────────────────────────────────────────────

func TestNextActionLabel(t *testing.T) {
	cases := []struct {
		name   string
		typ    entity.InvoiceType
		method entity.DeliveryMethod
		status entity.InvoiceStatus
		label  string
		ok     bool
	}{
		{"client draft", entity.InvoiceTypeClient, entity.DeliveryEmail, entity.StatusDraft, "Send Invoice", true},
		{"client sent", entity.InvoiceTypeClient, entity.DeliveryEmail, entity.StatusSent, "Mark as Collected", true},
		{"client collected", entity.InvoiceTypeClient, entity.DeliveryEmail, entity.StatusCollected, "", false},
		{"vendor received", entity.InvoiceTypeVendor, entity.DeliveryEmail, entity.StatusReceived, "Mark as Paid", true},
		{"vendor paid", entity.InvoiceTypeVendor, entity.DeliveryEmail, entity.StatusPaid, "", false},
		{"etimad", entity.InvoiceTypeClient, entity.DeliveryEtimad, entity.StatusSent, "", false},
		{"custom", entity.InvoiceTypeVendor, entity.DeliveryCustom, entity.StatusReceived, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			label, ok := invoicing.NextActionLabel(entity.Invoice{
				InvoiceType: tc.typ, DeliveryMethod: tc.method, Status: tc.status,
			})
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.label, label)
		})
	}
}

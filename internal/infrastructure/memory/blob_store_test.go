package memory_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/memory"
)

func TestBlobStore_LoadMissingIsEmpty(t *testing.T) {
	s := memory.NewBlobStore()
	blob, err := s.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, blob.Invoices)
}

func TestBlobStore_SaveIsolatesCaller(t *testing.T) {
	ctx := context.Background()
	s := memory.NewBlobStore()
	blob := &entity.ProjectBlob{
		Invoices: []entity.Invoice{{ID: "a", InvoiceNumber: "INV-1", InvoiceType: entity.InvoiceTypeClient,
			DeliveryMethod: entity.DeliveryEmail, Status: entity.StatusCollected, Amount: decimal.NewFromInt(100)}},
		Extra: map[string]json.RawMessage{"kanban": json.RawMessage(`{"cols":[]}`)},
	}
	require.NoError(t, s.Save(ctx, "p1", blob))

	blob.Invoices[0].InvoiceNumber = "changed"

	got, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got.Invoices, 1)
	assert.Equal(t, "INV-1", got.Invoices[0].InvoiceNumber)
	assert.JSONEq(t, `{"cols":[]}`, string(got.Extra["kanban"]))
}

func TestBlobStore_ListSummaries(t *testing.T) {
	ctx := context.Background()
	s := memory.NewBlobStore()
	require.NoError(t, s.Save(ctx, "p1", &entity.ProjectBlob{Invoices: []entity.Invoice{
		{ID: "a", InvoiceType: entity.InvoiceTypeClient, DeliveryMethod: entity.DeliveryEmail,
			Status: entity.StatusCollected, Amount: decimal.NewFromInt(100)},
		{ID: "b", InvoiceType: entity.InvoiceTypeVendor, DeliveryMethod: entity.DeliveryEmail,
			Status: entity.StatusReceived, Amount: decimal.NewFromInt(40)},
	}}))
	time.Sleep(time.Millisecond)
	require.NoError(t, s.Save(ctx, "p2", &entity.ProjectBlob{}))

	list, err := s.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p2", list[0].ProjectID)
	assert.Equal(t, "p1", list[1].ProjectID)
	assert.Equal(t, 2, list[1].InvoiceCount)
	assert.True(t, decimal.NewFromInt(100).Equal(list[1].Collected))
	assert.True(t, decimal.NewFromInt(40).Equal(list[1].VendorUnpaid))

	page, err := s.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "p1", page[0].ProjectID)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := memory.NewUserStore()
	require.NoError(t, s.Create(ctx, &entity.User{ID: "u1", Email: "Ops@Example.com"}))
	err := s.Create(ctx, &entity.User{ID: "u2", Email: "ops@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	u, err := s.GetByEmail(ctx, "OPS@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	missing, err := s.GetByID(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

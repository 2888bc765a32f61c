package redisstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/projectdesk-api/pkg/config"
)

// Solo corre contra un servidor real si REDIS_TEST_ADDR está definido.
func TestBlobStore_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := redisstore.NewClient(ctx, config.RedisConfig{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.FlushDB(ctx).Err(); _ = rdb.Close() })

	s := redisstore.New(rdb)
	id := uuid.NewString()

	empty, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, empty.Invoices)

	require.NoError(t, s.Save(ctx, id, &entity.ProjectBlob{Invoices: []entity.Invoice{
		{ID: "a", InvoiceNumber: "INV-1", InvoiceType: entity.InvoiceTypeClient,
			DeliveryMethod: entity.DeliveryCustom, Status: entity.StatusSent,
			CustomStage: entity.CustomCompleted, Amount: decimal.NewFromInt(75)},
	}}))

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Invoices, 1)

	list, err := s.List(ctx, 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, id, list[0].ProjectID)
	assert.True(t, decimal.NewFromInt(75).Equal(list[0].Collected))
}

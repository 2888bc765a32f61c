// Package store elige el backend de persistencia indicado por STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/filestore"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/postgres"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/projectdesk-api/pkg/config"
)

// Backend es un almacén abierto. Close libera pools y clientes.
type Backend struct {
	Driver    string
	Blobs     repository.ProjectBlobRepository
	Summaries repository.SummaryRepository
	Users     repository.UserRepository
	Close     func()
}

// Open conecta el driver configurado. Los usuarios viven en postgres con el
// driver postgres y en memoria del proceso en los demás.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{Driver: cfg.Store.Driver, Close: func() {}}

	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		b.Blobs = postgres.NewBlobRepository(pool)
		b.Summaries = postgres.NewSummaryRepository(pool)
		b.Users = postgres.NewUserRepository(pool)
		b.Close = pool.Close
		return b, nil

	case config.StoreRedis:
		rdb, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s := redisstore.New(rdb)
		b.Blobs, b.Summaries = s, s
		b.Close = func() { _ = rdb.Close() }

	case config.StoreFile:
		s, err := filestore.New(cfg.Store.Dir)
		if err != nil {
			return nil, err
		}
		b.Blobs, b.Summaries = s, s

	case config.StoreMemory:
		s := memory.NewBlobStore()
		b.Blobs, b.Summaries = s, s

	default:
		return nil, fmt.Errorf("store: driver %q not supported", cfg.Store.Driver)
	}

	b.Users = memory.NewUserStore()
	return b, nil
}

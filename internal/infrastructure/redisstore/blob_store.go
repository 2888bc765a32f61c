// Package redisstore guarda los blobs de proyecto en Redis, una clave string por
// proyecto más un sorted set que indexa los proyectos por último guardado.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/projectdesk-api/pkg/config"
)

var (
	_ repository.ProjectBlobRepository = (*BlobStore)(nil)
	_ repository.SummaryRepository     = (*BlobStore)(nil)
)

const (
	keyPrefix = "projectdesk:blob:"
	indexKey  = "projectdesk:projects"
)

// BlobStore implementa los puertos de blob y de resumen sobre un cliente redis.
type BlobStore struct {
	rdb redis.UniversalClient
	now func() time.Time
}

// NewClient abre el cliente con la configuración de la app y hace ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func New(rdb redis.UniversalClient) *BlobStore {
	return &BlobStore{rdb: rdb, now: time.Now}
}

func blobKey(projectID string) string { return keyPrefix + projectID }

func (s *BlobStore) Load(ctx context.Context, projectID string) (*entity.ProjectBlob, error) {
	data, err := s.rdb.Get(ctx, blobKey(projectID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &entity.ProjectBlob{}, nil
		}
		return nil, fmt.Errorf("%w: get project %s: %v", domain.ErrStorage, projectID, err)
	}
	var blob entity.ProjectBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: decode project %s: %v", domain.ErrStorage, projectID, err)
	}
	return &blob, nil
}

// Save escribe el blob y actualiza el índice en un solo MULTI/EXEC.
func (s *BlobStore) Save(ctx context.Context, projectID string, blob *entity.ProjectBlob) error {
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("%w: encode project %s: %v", domain.ErrStorage, projectID, err)
	}
	score := float64(s.now().UnixMilli())
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, blobKey(projectID), data, 0)
		pipe.ZAdd(ctx, indexKey, redis.Z{Score: score, Member: projectID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: set project %s: %v", domain.ErrStorage, projectID, err)
	}
	return nil
}

// List resume los proyectos del índice, el guardado más reciente primero.
func (s *BlobStore) List(ctx context.Context, limit, offset int) ([]repository.ProjectSummarySnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	members, err := s.rdb.ZRevRangeWithScores(ctx, indexKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list projects: %v", domain.ErrStorage, err)
	}
	out := make([]repository.ProjectSummarySnapshot, 0, len(members))
	for _, m := range members {
		id, ok := m.Member.(string)
		if !ok {
			continue
		}
		blob, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, memory.Snapshot(id, blob.Invoices, time.UnixMilli(int64(m.Score)).UTC()))
	}
	return out, nil
}

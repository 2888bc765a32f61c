package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/domain/invoicing"
	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
)

var (
	_ repository.ProjectBlobRepository = (*BlobStore)(nil)
	_ repository.SummaryRepository     = (*BlobStore)(nil)
)

type record struct {
	payload   []byte
	updatedAt time.Time
}

// BlobStore guarda los blobs de proyecto codificados en memoria del proceso. Se
// guardan serializados para que los llamadores nunca compartan slices con el almacén.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string]record
	now   func() time.Time
}

// NewBlobStore devuelve un almacén vacío.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string]record), now: time.Now}
}

func (s *BlobStore) Load(_ context.Context, projectID string) (*entity.ProjectBlob, error) {
	s.mu.RLock()
	rec, ok := s.blobs[projectID]
	s.mu.RUnlock()
	if !ok {
		return &entity.ProjectBlob{}, nil
	}
	var blob entity.ProjectBlob
	if err := json.Unmarshal(rec.payload, &blob); err != nil {
		return nil, fmt.Errorf("%w: decode project %s: %v", domain.ErrStorage, projectID, err)
	}
	return &blob, nil
}

func (s *BlobStore) Save(_ context.Context, projectID string, blob *entity.ProjectBlob) error {
	payload, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("%w: encode project %s: %v", domain.ErrStorage, projectID, err)
	}
	// Los ids de params de fiber apuntan al buffer del request; la clave del mapa debe ser dueña de sus bytes.
	s.mu.Lock()
	s.blobs[strings.Clone(projectID)] = record{payload: payload, updatedAt: s.now().UTC()}
	s.mu.Unlock()
	return nil
}

// List resume cada proyecto guardado, el guardado más reciente primero.
func (s *BlobStore) List(ctx context.Context, limit, offset int) ([]repository.ProjectSummarySnapshot, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.blobs))
	updated := make(map[string]time.Time, len(s.blobs))
	for id, rec := range s.blobs {
		ids = append(ids, id)
		updated[id] = rec.updatedAt
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool {
		if !updated[ids[i]].Equal(updated[ids[j]]) {
			return updated[ids[i]].After(updated[ids[j]])
		}
		return ids[i] < ids[j]
	})
	ids = paginate(ids, limit, offset)

	out := make([]repository.ProjectSummarySnapshot, 0, len(ids))
	for _, id := range ids {
		blob, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, Snapshot(id, blob.Invoices, updated[id]))
	}
	return out, nil
}

// Snapshot reduce las facturas de un proyecto a la forma persistida de totales.
func Snapshot(projectID string, invoices []entity.Invoice, updatedAt time.Time) repository.ProjectSummarySnapshot {
	sum := invoicing.Summarize(invoices)
	return repository.ProjectSummarySnapshot{
		ProjectID:    projectID,
		InvoiceCount: sum.Total,
		Collected:    sum.Collected,
		Outstanding:  sum.Outstanding,
		Sent:         sum.Sent,
		VendorPaid:   sum.VendorPaid,
		VendorUnpaid: sum.VendorUnpaid,
		UpdatedAt:    updatedAt,
	}
}

func paginate(ids []string, limit, offset int) []string {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 || offset >= len(ids) {
		return nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end]
}

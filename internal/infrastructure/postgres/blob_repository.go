package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/domain/invoicing"
	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
)

var _ repository.ProjectBlobRepository = (*BlobRepo)(nil)

// BlobRepo guarda cada documento de proyecto como una fila JSONB y mantiene
// al día el snapshot de project_summaries.
type BlobRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
	now  func() time.Time
}

// NewBlobRepository construye el adaptador de blobs sobre el pool.
func NewBlobRepository(pool *pgxpool.Pool) *BlobRepo {
	return &BlobRepo{pool: pool, tx: NewTxRunner(pool), now: time.Now}
}

// Load devuelve el blob guardado, o uno vacío para un proyecto nuevo.
func (r *BlobRepo) Load(ctx context.Context, projectID string) (*entity.ProjectBlob, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM project_blobs WHERE project_id = $1`, projectID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ProjectBlob{}, nil
		}
		return nil, fmt.Errorf("%w: load project %s: %v", domain.ErrStorage, projectID, err)
	}
	var blob entity.ProjectBlob
	if err := json.Unmarshal(payload, &blob); err != nil {
		return nil, fmt.Errorf("%w: decode project %s: %v", domain.ErrStorage, projectID, err)
	}
	return &blob, nil
}

// Save hace upsert del blob y de su snapshot de totales en una sola transacción.
func (r *BlobRepo) Save(ctx context.Context, projectID string, blob *entity.ProjectBlob) error {
	payload, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("%w: encode project %s: %v", domain.ErrStorage, projectID, err)
	}
	sum := invoicing.Summarize(blob.Invoices)
	now := r.now().UTC()

	err = r.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `
			INSERT INTO project_blobs (project_id, payload, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (project_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
			projectID, payload, now,
		); err != nil {
			return fmt.Errorf("upsert blob: %w", err)
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO project_summaries
				(project_id, invoice_count, collected, outstanding, sent, vendor_paid, vendor_unpaid, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (project_id) DO UPDATE SET
				invoice_count = EXCLUDED.invoice_count,
				collected     = EXCLUDED.collected,
				outstanding   = EXCLUDED.outstanding,
				sent          = EXCLUDED.sent,
				vendor_paid   = EXCLUDED.vendor_paid,
				vendor_unpaid = EXCLUDED.vendor_unpaid,
				updated_at    = EXCLUDED.updated_at`,
			projectID, sum.Total, sum.Collected, sum.Outstanding, sum.Sent, sum.VendorPaid, sum.VendorUnpaid, now,
		); err != nil {
			return fmt.Errorf("upsert summary: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save project %s: %v", domain.ErrStorage, projectID, err)
	}
	return nil
}

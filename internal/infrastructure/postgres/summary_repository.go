package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
)

var _ repository.SummaryRepository = (*SummaryRepo)(nil)

// SummaryRepo lee los totales por proyecto que escribe BlobRepo.Save.
type SummaryRepo struct {
	pool *pgxpool.Pool
}

// NewSummaryRepository construye el adaptador de resúmenes.
func NewSummaryRepository(pool *pgxpool.Pool) *SummaryRepo {
	return &SummaryRepo{pool: pool}
}

// List devuelve los snapshots, el actualizado más recientemente primero.
func (r *SummaryRepo) List(ctx context.Context, limit, offset int) ([]repository.ProjectSummarySnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT project_id, invoice_count, collected, outstanding, sent, vendor_paid, vendor_unpaid, updated_at
		FROM project_summaries
		ORDER BY updated_at DESC, project_id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list summaries: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var list []repository.ProjectSummarySnapshot
	for rows.Next() {
		var s repository.ProjectSummarySnapshot
		if err := rows.Scan(&s.ProjectID, &s.InvoiceCount, &s.Collected, &s.Outstanding,
			&s.Sent, &s.VendorPaid, &s.VendorUnpaid, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan summary: %v", domain.ErrStorage, err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list summaries: %v", domain.ErrStorage, err)
	}
	return list, nil
}

package repository

import (
	"context"

	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

// ProjectBlobRepository es el puerto de persistencia del documento de cada proyecto.
type ProjectBlobRepository interface {
	// Load devuelve el blob guardado, o uno vacío si el proyecto aún no tiene.
	Load(ctx context.Context, projectID string) (*entity.ProjectBlob, error)
	// Save reemplaza de forma atómica el blob guardado (gana el último que escribe).
	Save(ctx context.Context, projectID string, blob *entity.ProjectBlob) error
}

// Package project serializa los ciclos leer-modificar-escribir del blob de cada
// proyecto, así las escrituras de facturas y de reuniones no se pisan entre sí.
package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
)

// Store envuelve un ProjectBlobRepository con un lock por proyecto.
type Store struct {
	repo  repository.ProjectBlobRepository
	locks *projectLocks
}

func NewStore(repo repository.ProjectBlobRepository) *Store {
	return &Store{repo: repo, locks: newProjectLocks()}
}

// Load devuelve el blob actual sin tomar el lock.
func (s *Store) Load(ctx context.Context, projectID string) (*entity.ProjectBlob, error) {
	if err := CheckID(projectID); err != nil {
		return nil, err
	}
	return s.repo.Load(ctx, projectID)
}

// Update carga el blob bajo el lock del proyecto, aplica fn y guarda el
// resultado. No se escribe nada si fn falla.
func (s *Store) Update(ctx context.Context, projectID string, fn func(blob *entity.ProjectBlob) error) error {
	if err := CheckID(projectID); err != nil {
		return err
	}
	unlock := s.locks.lock(projectID)
	defer unlock()

	blob, err := s.repo.Load(ctx, projectID)
	if err != nil {
		return err
	}
	if err := fn(blob); err != nil {
		return err
	}
	return s.repo.Save(ctx, projectID, blob)
}

// CheckID rechaza ids de proyecto en blanco.
func CheckID(projectID string) error {
	if strings.TrimSpace(projectID) == "" {
		return fmt.Errorf("%w: project id required", domain.ErrInvalidInput)
	}
	return nil
}

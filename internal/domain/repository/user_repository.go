package repository

import (
	"context"

	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

// UserRepository es el puerto de persistencia de User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail devuelve nil, nil si ningún usuario coincide.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore es un UserRepository en proceso para los drivers que no son postgres.
type UserStore struct {
	mu    sync.RWMutex
	byID  map[string]entity.User
	email map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{byID: make(map[string]entity.User), email: make(map[string]string)}
}

func (s *UserStore) Create(_ context.Context, user *entity.User) error {
	key := strings.ToLower(user.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.email[key]; ok {
		return domain.ErrEmailAlreadyExists
	}
	s.byID[user.ID] = *user
	s.email[key] = user.ID
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.email[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	u := s.byID[id]
	return &u, nil
}

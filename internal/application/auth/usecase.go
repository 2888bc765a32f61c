package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
	"github.com/jhoicas/projectdesk-api/pkg/jwt"
)

const statusActive = "active"

// JWTConfig configuración de generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login y creación inicial de cuentas.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de autenticación.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login valida email/contraseña y devuelve un token firmado. Emails desconocidos
// y contraseñas erradas dan ambos ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != statusActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   uc.jwtCfg.ExpMinutes * 60,
		User:        toUserResponse(user),
	}, nil
}

// CreateUser hashea la contraseña y persiste un usuario activo nuevo.
func (uc *AuthUseCase) CreateUser(ctx context.Context, email, password, name, role string) (*dto.UserResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) < 8 {
		return nil, fmt.Errorf("%w: email and a password of at least 8 characters are required", domain.ErrInvalidInput)
	}
	switch role {
	case "":
		role = entity.RoleViewer
	case entity.RoleAdmin, entity.RoleManager, entity.RoleViewer:
	default:
		return nil, fmt.Errorf("%w: role %q", domain.ErrInvalidInput, role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = email
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       statusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// EnsureAdmin crea el admin inicial salvo que ya exista ese email.
// Indica si se creó un usuario.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if _, err := uc.CreateUser(ctx, email, password, "Administrator", entity.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/StellarBearX/stanlendar-sub003/internal/domain"
	"github.com/StellarBearX/stanlendar-sub003/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
)

// ValidationError agrupa los errores de campo de un registro inválido.
type ValidationError struct {
	Fields []domain.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, ", "))
}

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger       *zap.Logger
	users        repository.UserRepository
	loginLimiter LoginRateLimiter
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, loginLimiter LoginRateLimiter) *UserService {
	return &UserService{
		logger:       logger,
		users:        users,
		loginLimiter: loginLimiter,
	}
}

type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	user := domain.User{
		ID:          uuid.NewString(),
		Email:       normalizeEmail(input.Email),
		DisplayName: strings.TrimSpace(input.DisplayName),
		CreatedAt:   time.Now().UTC(),
	}

	if fieldErrs := domain.ValidateUser(user); len(fieldErrs) > 0 {
		return domain.User{}, &ValidationError{Fields: fieldErrs}
	}

	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	password := strings.TrimSpace(input.Password)
	if password != "" {
		hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = string(hashBytes)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate verifica credenciales y registra last_login_at en éxito.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	if s.loginLimiter != nil && !s.loginLimiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	loginAt := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, loginAt); err != nil {
		// El login sigue siendo válido aunque no se pueda registrar la marca.
		s.logger.Warn("update last login failed", zap.Error(err), zap.String("user_id", user.ID))
	} else {
		user.LastLoginAt = &loginAt
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateSettings actualiza los ajustes editables del perfil (display name).
func (s *UserService) UpdateSettings(ctx context.Context, id, displayName string) (domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	user.DisplayName = strings.TrimSpace(displayName)
	if fieldErrs := domain.ValidateUser(user); len(fieldErrs) > 0 {
		return domain.User{}, &ValidationError{Fields: fieldErrs}
	}

	if err := s.users.UpdateDisplayName(ctx, id, user.DisplayName); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

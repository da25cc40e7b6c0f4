package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"stationdesk/services/mock-api/internal/models"
	"stationdesk/services/mock-api/internal/password"
	"stationdesk/services/mock-api/internal/repository"
)

var (
	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// ValidationError carries a client-facing message for a rejected request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService contains registration/login logic.
type AuthService struct {
	repo      UserRepository
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Register creates a regular account and signs it in.
func (s *AuthService) Register(ctx context.Context, name, email, plain string) (*models.AuthPayload, error) {
	return s.create(ctx, name, email, plain, models.RoleUser)
}

// EnsureAdmin creates the admin account unless the email is taken and returns its id.
// An existing account keeps its role.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, plain string) (string, error) {
	payload, err := s.create(ctx, name, email, plain, models.RoleAdmin)
	if err == nil {
		return payload.ID, nil
	}
	if !errors.Is(err, ErrEmailInUse) {
		return "", err
	}
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return existing.ID, nil
}

func (s *AuthService) create(ctx context.Context, name, email, plain, role string) (*models.AuthPayload, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, invalid("Name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("Please provide a valid email")
	}
	if len(plain) < 6 {
		return nil, invalid("Password must be at least 6 characters")
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("email", user.Email), zap.String("role", role))
	return s.payload(user)
}

// Login authenticates a user and produces a signed-in payload.
func (s *AuthService) Login(ctx context.Context, email, plain string) (*models.AuthPayload, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Matches(user.PasswordHash, plain) {
		return nil, ErrInvalidCredentials
	}
	return s.payload(user)
}

func (s *AuthService) payload(user *models.User) (*models.AuthPayload, error) {
	token, err := s.tokenizer.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.AuthPayload{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

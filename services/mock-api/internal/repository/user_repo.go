package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"stationdesk/services/mock-api/internal/models"
)

var (
	// ErrUserNotFound represents missing users.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository keeps accounts in memory, indexed by lower-cased email.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]models.User
}

// NewUserRepository returns repository instance.
func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]models.User)}
}

// Create assigns id and timestamps and inserts the user.
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	r.byEmail[user.Email] = *user
	return nil
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

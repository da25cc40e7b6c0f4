package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"stationdesk/services/console/internal/clients"
	"stationdesk/services/console/internal/models"
	"stationdesk/services/console/internal/notify"
	"stationdesk/services/console/internal/opstate"
	"stationdesk/services/console/internal/storage"
)

// Storage entry names. Both are written together on sign-in and removed together on sign-out.
const (
	StorageKeyUser  = "user"
	StorageKeyToken = "token"
)

// Session store operation names, as recorded in call history.
const (
	OpRegister = "register"
	OpLogin    = "login"
)

var errIncompleteSession = errors.New("session payload is incomplete")

// AuthAPI is the remote contract used by SessionStore.
type AuthAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
}

// Status is the aggregate view of a store's calls.
type Status struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// SessionStore owns the signed-in user and its persisted copy.
type SessionStore struct {
	mu       sync.RWMutex
	user     *models.User
	api      AuthAPI
	storage  storage.Store
	notifier notify.Notifier
	calls    *opstate.Tracker
	logger   *zap.Logger
}

// NewSessionStore builds an empty (signed-out) store. Call RestoreSession to load a persisted one.
func NewSessionStore(api AuthAPI, store storage.Store, notifier notify.Notifier, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		api:      api,
		storage:  store,
		notifier: notifier,
		calls:    opstate.NewTracker(0),
		logger:   logger.Named("session"),
	}
}

// RestoreSession loads the persisted session. A missing record leaves the store signed out.
// A record that cannot be decoded, or is incomplete, is discarded without surfacing an error.
// A storage read failure leaves the persisted entries in place for the next attempt.
func (s *SessionStore) RestoreSession(ctx context.Context) {
	raw, found, err := s.storage.Get(ctx, StorageKeyUser)
	if err != nil {
		s.logger.Warn("persisted session unavailable", zap.Error(err))
		s.setUser(nil)
		return
	}
	if !found {
		return
	}

	var user models.User
	err = json.Unmarshal([]byte(raw), &user)
	if err == nil && user.Token == "" {
		token, ok, tokenErr := s.storage.Get(ctx, StorageKeyToken)
		if tokenErr != nil {
			s.logger.Warn("persisted session unavailable", zap.Error(tokenErr))
			s.setUser(nil)
			return
		}
		if ok {
			user.Token = token
		}
	}
	if err == nil && !user.Complete() {
		err = errIncompleteSession
	}
	if err != nil {
		s.logger.Warn("discarding malformed persisted session", zap.Error(err))
		if delErr := s.storage.Delete(ctx, StorageKeyUser, StorageKeyToken); delErr != nil {
			s.logger.Error("failed to clear persisted session", zap.Error(delErr))
		}
		s.setUser(nil)
		return
	}

	s.setUser(&user)
	s.logger.Debug("session restored", zap.String("user_id", user.ID))
}

// Register creates an account and signs in. It reports success and never returns an error.
func (s *SessionStore) Register(ctx context.Context, name, email, password string) bool {
	return s.signIn(ctx, OpRegister, "Registration successful!", "Registration failed", func() (*models.User, error) {
		return s.api.Register(ctx, models.RegisterRequest{
			Name:     strings.TrimSpace(name),
			Email:    strings.TrimSpace(email),
			Password: password,
		})
	})
}

// Login signs in with credentials. It reports success and never returns an error.
func (s *SessionStore) Login(ctx context.Context, email, password string) bool {
	return s.signIn(ctx, OpLogin, "Login successful!", "Login failed", func() (*models.User, error) {
		return s.api.Login(ctx, models.LoginRequest{
			Email:    strings.TrimSpace(email),
			Password: password,
		})
	})
}

func (s *SessionStore) signIn(ctx context.Context, op, successMsg, fallback string, call func() (*models.User, error)) bool {
	c := s.calls.Begin(ctx, op)

	user, err := call()
	if err == nil && !user.Complete() {
		err = errIncompleteSession
	}
	if err != nil {
		message := fallback
		if !errors.Is(err, errIncompleteSession) {
			message = clients.MessageOf(err, fallback)
		}
		s.logger.Info("sign-in failed", zap.String("operation", op), zap.Error(err))
		c.Fail(message)
		s.notifier.Error(message)
		return false
	}

	s.setUser(user)
	s.persist(ctx, user)

	c.Succeed()
	s.notifier.Success(successMsg)
	s.logger.Info("signed in", zap.String("operation", op), zap.String("user_id", user.ID))
	return true
}

func (s *SessionStore) persist(ctx context.Context, user *models.User) {
	encoded, err := json.Marshal(user)
	if err == nil {
		err = s.storage.Put(ctx,
			storage.Entry{Key: StorageKeyToken, Value: user.Token},
			storage.Entry{Key: StorageKeyUser, Value: string(encoded)},
		)
	}
	if err != nil {
		// the in-memory session stays valid for this process
		s.logger.Error("failed to persist session", zap.Error(err))
	}
}

// Logout clears the session in memory and in storage. It always succeeds.
func (s *SessionStore) Logout(ctx context.Context) {
	s.setUser(nil)
	if err := s.storage.Delete(ctx, StorageKeyToken, StorageKeyUser); err != nil {
		s.logger.Error("failed to clear persisted session", zap.Error(err))
	}
	s.notifier.Info("You have been logged out")
}

func (s *SessionStore) setUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// IsAuthenticated reports whether a session is present.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsAdmin reports whether a session is present and its role is admin.
func (s *SessionStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

// User returns a copy of the signed-in user, or nil.
func (s *SessionStore) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token implements clients.TokenSource.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Token
}

// Status reports loading/error across this store's calls.
func (s *SessionStore) Status() Status {
	return Status{Loading: s.calls.Loading(), Error: s.calls.Error()}
}

// Calls returns per-call history.
func (s *SessionStore) Calls() []opstate.Snapshot {
	return s.calls.Calls()
}


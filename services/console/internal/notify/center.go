// Package notify holds the transient user-facing notifications raised by store actions.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stationdesk/libs/metrics"
)

// Severity of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// DefaultAutoClose matches the console toast timeout.
const DefaultAutoClose = 3 * time.Second

// Toast is one notification. It is dismissed automatically at ExpiresAt.
type Toast struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Notifier is what stores depend on.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Sink receives every published toast, e.g. a websocket broadcaster.
type Sink interface {
	Deliver(Toast)
}

// Center keeps the currently visible toasts and fans them out to sinks.
type Center struct {
	mu        sync.Mutex
	toasts    []Toast
	autoClose time.Duration
	sinks     []Sink
	logger    *zap.Logger
}

// NewCenter builds a notification center. autoClose <= 0 uses DefaultAutoClose.
func NewCenter(autoClose time.Duration, logger *zap.Logger, sinks ...Sink) *Center {
	if autoClose <= 0 {
		autoClose = DefaultAutoClose
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Center{
		autoClose: autoClose,
		sinks:     sinks,
		logger:    logger.Named("notify"),
	}
}

// AddSink registers another receiver.
func (c *Center) AddSink(s Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, s)
}

func (c *Center) Success(message string) { c.Publish(SeveritySuccess, message) }
func (c *Center) Error(message string)   { c.Publish(SeverityError, message) }
func (c *Center) Info(message string)    { c.Publish(SeverityInfo, message) }

// Publish records a toast and schedules its dismissal.
func (c *Center) Publish(severity Severity, message string) Toast {
	now := time.Now().UTC()
	toast := Toast{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.autoClose),
	}

	c.mu.Lock()
	c.toasts = append(c.toasts, toast)
	sinks := append([]Sink(nil), c.sinks...)
	c.mu.Unlock()

	time.AfterFunc(c.autoClose, func() { c.Dismiss(toast.ID) })

	metrics.ObserveNotification(string(severity))
	fields := []zap.Field{zap.String("severity", string(severity)), zap.String("message", message)}
	if severity == SeverityError {
		c.logger.Warn("notification", fields...)
	} else {
		c.logger.Info("notification", fields...)
	}

	for _, s := range sinks {
		s.Deliver(toast)
	}
	return toast
}

// Dismiss removes a toast before it expires. It reports whether the toast was visible.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the visible toasts, oldest first.
func (c *Center) Active() []Toast {
	now := time.Now().UTC()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, 0, len(c.toasts))
	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			out = append(out, t)
		}
	}
	return out
}

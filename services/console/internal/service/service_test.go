package service

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"stationdesk/services/console/internal/clients"
)

type toast struct {
	severity string
	message  string
}

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []toast
}

func (n *recordingNotifier) add(sev, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast{severity: sev, message: msg})
}

func (n *recordingNotifier) Success(message string) { n.add("success", message) }
func (n *recordingNotifier) Error(message string)   { n.add("error", message) }
func (n *recordingNotifier) Info(message string)    { n.add("info", message) }

func (n *recordingNotifier) last() toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return toast{}
	}
	return n.toasts[len(n.toasts)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.toasts)
}

// newBaseClient points a real client at handler.
func newBaseClient(t *testing.T, handler http.Handler, tokens clients.TokenSource) *clients.BaseClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return clients.NewBaseClient(srv.URL, clients.NewDefaultHTTPClient(5*time.Second), tokens)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

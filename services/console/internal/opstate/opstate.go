// Package opstate tracks the status of individual store calls. Each invocation owns a small
// state machine (idle -> loading -> succeeded|failed), so overlapping calls never overwrite
// each other's status.
package opstate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Call states.
const (
	StateIdle      = "idle"
	StateLoading   = "loading"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

const (
	eventStart   = "start"
	eventSucceed = "succeed"
	eventFail    = "fail"
)

const defaultHistory = 50

// Snapshot is a read-only view of one call.
type Snapshot struct {
	ID         string    `json:"id"`
	Seq        uint64    `json:"seq"`
	Operation  string    `json:"operation"`
	State      string    `json:"state"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// Done reports whether the call reached a final state.
func (s Snapshot) Done() bool {
	return s.State == StateSucceeded || s.State == StateFailed
}

// Call is one in-flight or finished store invocation.
type Call struct {
	mu      sync.Mutex
	machine *fsm.FSM
	snap    Snapshot
	tracker *Tracker
}

func newCall(t *Tracker, seq uint64, operation string) *Call {
	c := &Call{
		tracker: t,
		snap: Snapshot{
			ID:        uuid.NewString(),
			Seq:       seq,
			Operation: operation,
			State:     StateIdle,
		},
	}
	c.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventStart, Src: []string{StateIdle}, Dst: StateLoading},
			{Name: eventSucceed, Src: []string{StateLoading}, Dst: StateSucceeded},
			{Name: eventFail, Src: []string{StateLoading}, Dst: StateFailed},
		},
		fsm.Callbacks{},
	)
	return c
}

func (c *Call) trigger(event string) error {
	if err := c.machine.Event(context.Background(), event); err != nil {
		return fmt.Errorf("opstate: %s %s: %w", c.snap.Operation, event, err)
	}
	c.snap.State = c.machine.Current()
	return nil
}

// Succeed marks the call finished without error. Calling it on a finished call is a no-op.
func (c *Call) Succeed() {
	c.finish(eventSucceed, "")
}

// Fail marks the call finished with message.
func (c *Call) Fail(message string) {
	c.finish(eventFail, message)
}

func (c *Call) finish(event, message string) {
	c.mu.Lock()
	if err := c.trigger(event); err != nil {
		c.mu.Unlock()
		return
	}
	c.snap.Error = message
	c.snap.FinishedAt = time.Now().UTC()
	snap := c.snap
	c.mu.Unlock()

	c.tracker.finished(snap)
}

// Snapshot returns the current view of the call.
func (c *Call) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Tracker owns the calls of one store.
type Tracker struct {
	mu         sync.Mutex
	seq        uint64
	inflight   map[string]*Call
	lastIssued *Call
	history    []Snapshot
	limit      int
}

// NewTracker keeps up to limit finished calls (limit <= 0 uses a default).
func NewTracker(limit int) *Tracker {
	if limit <= 0 {
		limit = defaultHistory
	}
	return &Tracker{inflight: make(map[string]*Call), limit: limit}
}

// Begin starts a new call in the loading state. When ctx carries a Recorder the call is
// also attached to it.
func (t *Tracker) Begin(ctx context.Context, operation string) *Call {
	t.mu.Lock()
	t.seq++
	c := newCall(t, t.seq, operation)
	c.mu.Lock()
	_ = c.trigger(eventStart)
	c.snap.StartedAt = time.Now().UTC()
	c.mu.Unlock()

	t.inflight[c.snap.ID] = c
	t.lastIssued = c
	t.mu.Unlock()

	if r := recorderFrom(ctx); r != nil {
		r.add(c)
	}
	return c
}

func (t *Tracker) finished(snap Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inflight, snap.ID)
	t.history = append(t.history, snap)
	if over := len(t.history) - t.limit; over > 0 {
		t.history = append([]Snapshot(nil), t.history[over:]...)
	}
}

// Loading reports whether any call is in flight.
func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight) > 0
}

// Error is the failure message of the most recently issued call, or "" while that call is
// still running or when it succeeded. Completion order of older calls does not matter.
func (t *Tracker) Error() string {
	t.mu.Lock()
	last := t.lastIssued
	t.mu.Unlock()
	if last == nil {
		return ""
	}
	snap := last.Snapshot()
	if snap.State != StateFailed {
		return ""
	}
	return snap.Error
}

// Last returns the most recently issued call of operation, finished or not.
func (t *Tracker) Last(operation string) (Snapshot, bool) {
	calls := t.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Operation == operation {
			return calls[i], true
		}
	}
	return Snapshot{}, false
}

// Calls returns finished history plus in-flight calls ordered by issue sequence.
func (t *Tracker) Calls() []Snapshot {
	t.mu.Lock()
	out := append([]Snapshot(nil), t.history...)
	running := make([]*Call, 0, len(t.inflight))
	for _, c := range t.inflight {
		running = append(running, c)
	}
	t.mu.Unlock()

	for _, c := range running {
		out = append(out, c.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

type recorderKey struct{}

// Recorder collects the calls begun under one context, typically one HTTP request, so the
// caller can report its own outcome regardless of what other requests did meanwhile.
type Recorder struct {
	mu    sync.Mutex
	calls []*Call
}

// WithRecorder returns a child context whose calls are collected by the returned Recorder.
func WithRecorder(ctx context.Context) (context.Context, *Recorder) {
	r := &Recorder{}
	return context.WithValue(ctx, recorderKey{}, r), r
}

func recorderFrom(ctx context.Context) *Recorder {
	if ctx == nil {
		return nil
	}
	r, _ := ctx.Value(recorderKey{}).(*Recorder)
	return r
}

func (r *Recorder) add(c *Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Last returns the latest call of operation begun under this recorder.
func (r *Recorder) Last(operation string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.calls) - 1; i >= 0; i-- {
		if snap := r.calls[i].Snapshot(); snap.Operation == operation {
			return snap, true
		}
	}
	return Snapshot{}, false
}

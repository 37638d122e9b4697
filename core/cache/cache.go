// Package cache keeps the last successfully parsed schedule per queue and
// decides between fresh and stale data when a fetch attempt fails. Serving
// stale data with the failure attached is the resilience contract: a
// transient fetch failure must never blank out previously known state.
package cache

import (
	"sync"

	"github.com/gpv-monitor/gpv/core/schedule"
)

// State describes the cache slot for a queue.
type State int

const (
	// StateEmpty means no fetch has succeeded yet.
	StateEmpty State = iota
	// StateFresh means the held schedule comes from the latest attempt.
	StateFresh
	// StateStale means the latest attempt failed and the held schedule is
	// from an earlier success.
	StateStale
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Manager owns the single mutable schedule slot for one queue. Queues
// monitored concurrently each get their own Manager; there is no cross-queue
// shared state. Updates replace the held schedule by whole-value swap so
// concurrent readers observe either the prior or the new value, never a
// partial one.
type Manager struct {
	mu      sync.RWMutex
	queue   string
	state   State
	current *schedule.Schedule
	lastErr error
}

// NewManager creates an empty cache for the given queue.
func NewManager(queue string) *Manager {
	return &Manager{queue: queue}
}

// Queue returns the queue identifier this cache serves.
func (m *Manager) Queue() string { return m.queue }

// RecordSuccess replaces the held schedule and transitions to fresh.
func (m *Manager) RecordSuccess(s *schedule.Schedule) {
	m.mu.Lock()
	m.current = s
	m.state = StateFresh
	m.lastErr = nil
	m.mu.Unlock()
}

// RecordFailure attaches the error from a failed attempt. An empty cache
// stays empty, recording the error for observability only; otherwise the
// held schedule is kept and the cache turns stale. The schedule itself is
// replaced by an annotated copy, never mutated in place.
func (m *Manager) RecordFailure(err error) {
	m.mu.Lock()
	m.lastErr = err
	if m.state != StateEmpty {
		m.current = m.current.WithError(err)
		m.state = StateStale
	}
	m.mu.Unlock()
}

// Current returns the held schedule regardless of state, or nil before the
// first success. Callers inspect LastError on the schedule to distinguish
// fresh from stale data.
func (m *Manager) Current() *schedule.Schedule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// State returns the current cache state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// LastError returns the error from the most recent failed attempt, nil after
// a success. Unlike the schedule's own annotation this is visible even while
// the cache is still empty.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

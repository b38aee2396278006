// Package session maps browser sessions to their controllers. Each session
// is identified by a random UUID carried in a cookie and is dropped after
// an idle period.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openclaw/qrgen/controller"
)

// DefaultIdleTTL is how long an untouched session survives.
const DefaultIdleTTL = 2 * time.Hour

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("session: manager closed")

// Factory builds the controller for a new session. language is the
// negotiated UI language for the requesting browser.
type Factory func(language string) (*controller.Controller, error)

type entry struct {
	ctrl     *controller.Controller
	lastSeen time.Time
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	factory  Factory
	idleTTL  time.Duration
	now      func() time.Time
	log      *slog.Logger
	closed   bool
}

// NewManager returns an empty Manager. A non-positive idleTTL selects
// DefaultIdleTTL.
func NewManager(factory Factory, idleTTL time.Duration, log *slog.Logger) *Manager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*entry),
		factory:  factory,
		idleTTL:  idleTTL,
		now:      time.Now,
		log:      log,
	}
}

// SetClock replaces the time source. Used by tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Get returns the controller for id, creating a new session when id is
// empty, malformed or unknown. The returned id is the one to store in the
// cookie; created reports whether it differs from the one passed in.
func (m *Manager) Get(id, language string) (ctrl *controller.Controller, sid string, created bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, "", false, ErrClosed
	}
	if e, ok := m.lookupLocked(id); ok {
		e.lastSeen = m.now()
		return e.ctrl, id, false, nil
	}

	ctrl, err = m.factory(language)
	if err != nil {
		return nil, "", false, fmt.Errorf("create session: %w", err)
	}
	sid = uuid.NewString()
	m.sessions[sid] = &entry{ctrl: ctrl, lastSeen: m.now()}
	m.log.Debug("session created", "session", sid, "language", language)
	return ctrl, sid, true, nil
}

func (m *Manager) lookupLocked(id string) (*entry, bool) {
	if id == "" {
		return nil, false
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	e, ok := m.sessions[id]
	return e, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes and drops every session idle for longer than the TTL and
// returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	cutoff := m.now().Add(-m.idleTTL)
	var expired []*controller.Controller
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.ctrl)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, ctrl := range expired {
		ctrl.Close()
	}
	return len(expired)
}

// Close closes every session. Later calls to Get fail with ErrClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	all := make([]*controller.Controller, 0, len(m.sessions))
	for id, e := range m.sessions {
		all = append(all, e.ctrl)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, ctrl := range all {
		ctrl.Close()
	}
}

package scan

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrTooManySessions is returned when every session slot holds a scan that
// is busy verifying.
var ErrTooManySessions = errors.New("too many active scan sessions")

// ErrSessionNotFound is returned for unknown or closed session ids.
var ErrSessionNotFound = errors.New("scan session not found")

// Manager owns the live scan sessions of the process.
type Manager struct {
	verifier Verifier
	max      int
	logger   *slog.Logger
	onSettle func(Outcome)

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
	order    []string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMaxSessions bounds the number of sessions held at once.
func WithMaxSessions(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.max = n
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithSettleHook registers a function called once per settled session.
func WithSettleHook(fn func(Outcome)) ManagerOption {
	return func(m *Manager) { m.onSettle = fn }
}

// NewManager creates a session manager verifying ids with v.
func NewManager(v Verifier, opts ...ManagerOption) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		verifier: v,
		max:      64,
		logger:   slog.Default(),
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open starts a new session on dev. Verification runs under the manager's
// lifetime, not the caller's, so a navigating browser does not abort it.
// A camera that fails to start still yields a settled session.
//
// When every slot is taken, the oldest settled session is dropped; failing
// that, the oldest session still waiting for a frame is torn down, since its
// page may have gone without closing it.
func (m *Manager) Open(dev Device) (*Session, error) {
	m.mu.Lock()
	var evicted *Session
	if len(m.sessions) >= m.max {
		evicted = m.evictLocked()
		if evicted == nil {
			m.mu.Unlock()
			return nil, ErrTooManySessions
		}
	}
	s := newSession(m.ctx, uuid.NewString(), m.verifier, m.logger, m.onSettle)
	m.sessions[s.ID] = s
	m.order = append(m.order, s.ID)
	m.mu.Unlock()

	if evicted != nil {
		if evicted.State() != StateSettled {
			m.logger.Warn("Evicted unfinished scan session", "scan_session", evicted.ID, "started_at", evicted.StartedAt)
		}
		evicted.Close()
	}
	if err := s.start(dev); err != nil {
		m.logger.Warn("Scan session opened without camera", "scan_session", s.ID, "error", err)
	}
	return s, nil
}

// evictLocked forgets the oldest settled session or, if there is none, the
// oldest one that has not decoded yet. Sessions busy verifying are kept.
func (m *Manager) evictLocked() *Session {
	pick := -1
	for i, id := range m.order {
		st := m.sessions[id].State()
		if st == StateSettled {
			pick = i
			break
		}
		if pick < 0 && (st == StateIdle || st == StateScanning) {
			pick = i
		}
	}
	if pick < 0 {
		return nil
	}
	id := m.order[pick]
	s := m.sessions[id]
	delete(m.sessions, id)
	m.order = append(m.order[:pick], m.order[pick+1:]...)
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close tears down and forgets one session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		for i, oid := range m.order {
			if oid == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}

// Len returns the number of sessions held.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CloseAll tears down every session. It is called on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.order = nil
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.cancel()
	m.logger.Info("Closed scan sessions", "count", len(sessions))
}

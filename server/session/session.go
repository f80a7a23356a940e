// Package session holds per-user admin sessions. Each session owns an alert
// registry loaded from the store and writes lifecycle changes back to it.
package session

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattermost/mattermost/server/public/pluginapi"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/store"
)

var (
	// ErrPersistence is returned when a change was applied in memory but the
	// store rejected it. The in-memory change is kept.
	ErrPersistence = errors.New("failed to persist alert change")

	// ErrNoSession is returned when the user has no active session.
	ErrNoSession = errors.New("no active session")
)

// Role is the kind of staff member operating a session.
type Role string

const (
	RolePolice  Role = "police"
	RoleTourism Role = "tourism"
)

// Roles lists every accepted role.
var Roles = []Role{RolePolice, RoleTourism}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePolice || r == RoleTourism
}

// Label returns the display name of the role.
func (r Role) Label() string {
	switch r {
	case RolePolice:
		return "Police Department"
	case RoleTourism:
		return "Tourism Department"
	default:
		return string(r)
	}
}

// Notifier receives every registry event of a user's session.
type Notifier func(userID string, event alert.Event)

// Session is one user's working context.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	StartedAt time.Time `json:"startedAt"`

	registry    *alert.Registry
	store       store.Store
	api         *pluginapi.Client
	unsubscribe func()

	// opMu serializes lifecycle operations so the before/after comparison
	// in apply sees only its own change.
	opMu sync.Mutex
}

// Registry returns the session's alert registry.
func (s *Session) Registry() *alert.Registry {
	return s.registry
}

// AssignResponder assigns a responder and persists the change.
func (s *Session) AssignResponder(ctx context.Context, alertID, responder string) (alert.Alert, error) {
	return s.apply(ctx, alertID, func() (alert.Alert, error) {
		return s.registry.AssignResponder(alertID, responder)
	})
}

// Investigate moves an alert to investigating and persists the change.
func (s *Session) Investigate(ctx context.Context, alertID string) (alert.Alert, error) {
	return s.apply(ctx, alertID, func() (alert.Alert, error) {
		return s.registry.Investigate(alertID)
	})
}

// Resolve resolves an alert and persists the change.
func (s *Session) Resolve(ctx context.Context, alertID, notes string) (alert.Alert, error) {
	return s.apply(ctx, alertID, func() (alert.Alert, error) {
		return s.registry.Resolve(alertID, notes)
	})
}

// apply runs a registry mutation and writes the result to the store when the
// alert changed. A store failure leaves the in-memory change in place.
func (s *Session) apply(ctx context.Context, alertID string, mutate func() (alert.Alert, error)) (alert.Alert, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	before, err := s.registry.Get(alertID)
	if err != nil {
		return alert.Alert{}, err
	}

	after, err := mutate()
	if err != nil {
		return alert.Alert{}, err
	}

	delta := store.DeltaFrom(after)
	if reflect.DeepEqual(store.DeltaFrom(before), delta) {
		return after, nil
	}

	if err := s.store.UpdateAlert(ctx, alertID, delta); err != nil {
		s.api.Log.Error("Failed to persist alert change",
			"sessionId", s.ID,
			"alertId", alertID,
			"status", string(after.Status),
			"error", err.Error())
		return after, fmt.Errorf("%w: alert %s: %w", ErrPersistence, alertID, err)
	}

	return after, nil
}

// Manager tracks at most one session per user.
type Manager struct {
	api    *pluginapi.Client
	notify Notifier
	now    func() time.Time

	mu       sync.RWMutex
	store    store.Store
	sessions map[string]*Session
}

// NewManager creates a session manager. notify may be nil.
func NewManager(api *pluginapi.Client, st store.Store, notify Notifier) *Manager {
	return &Manager{
		api:      api,
		notify:   notify,
		now:      time.Now,
		store:    st,
		sessions: make(map[string]*Session),
	}
}

// SetClock replaces the time source for new sessions and their registries (useful for testing).
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Store returns the store new sessions load from.
func (m *Manager) Store() store.Store {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store
}

// Start loads the alert set and opens a session for userID, replacing any
// previous session of that user.
func (m *Manager) Start(ctx context.Context, userID string, role Role) (*Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", alert.ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", alert.ErrValidation, role)
	}

	st := m.Store()
	alerts, err := st.FetchAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}

	registry, err := alert.NewRegistry(alerts)
	if err != nil {
		return nil, fmt.Errorf("failed to build alert registry: %w", err)
	}

	m.mu.Lock()
	now := m.now
	m.mu.Unlock()
	registry.SetClock(now)

	s := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Role:      role,
		StartedAt: now().UTC(),
		registry:  registry,
		store:     st,
		api:       m.api,
	}
	if m.notify != nil {
		notify := m.notify
		s.unsubscribe = registry.Subscribe(func(event alert.Event) {
			notify(userID, event)
		})
	}

	m.mu.Lock()
	previous := m.sessions[userID]
	m.sessions[userID] = s
	m.mu.Unlock()

	if previous != nil {
		previous.close()
	}

	m.api.Log.Info("Session started",
		"sessionId", s.ID,
		"userId", userID,
		"role", string(role),
		"alerts", registry.Count())

	return s, nil
}

// Get returns the user's session or ErrNoSession.
func (m *Manager) Get(userID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// End closes the user's session. It reports whether a session existed.
func (m *Manager) End(userID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if !ok {
		return false
	}

	s.close()
	m.api.Log.Info("Session ended", "sessionId", s.ID, "userId", userID)
	return true
}

// EndAll closes every session.
func (m *Manager) EndAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	if len(sessions) > 0 {
		m.api.Log.Info("All sessions ended", "count", len(sessions))
	}
}

// Reset ends every session and switches to a new store.
func (m *Manager) Reset(st store.Store) {
	m.EndAll()

	m.mu.Lock()
	m.store = st
	m.mu.Unlock()
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (s *Session) close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

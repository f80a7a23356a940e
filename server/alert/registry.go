package alert

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// EventType identifies the mutation that produced an Event.
type EventType string

const (
	EventAssigned      EventType = "assigned"
	EventInvestigating EventType = "investigating"
	EventResolved      EventType = "resolved"
)

// Event describes a successful registry mutation. Alert is the post-mutation copy.
type Event struct {
	Type  EventType `json:"type"`
	Alert Alert     `json:"alert"`
}

// Filter selects alerts. Zero-value fields match everything.
type Filter struct {
	Status   Status
	Severity Severity
}

// Match reports whether a satisfies every set predicate of f.
func (f Filter) Match(a Alert) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Severity != "" && a.Severity != f.Severity {
		return false
	}
	return true
}

// Summary aggregates the alert set for dashboard statistics.
type Summary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Assigned int `json:"assigned"` // assigned or investigating
	Resolved int `json:"resolved"`

	// AverageResponseMinutes is taken over alerts that have a response time
	AverageResponseMinutes float64 `json:"averageResponseMinutes"`
}

// Registry owns the alert records of one session and enforces the lifecycle rules.
// It is safe for concurrent use; observers are notified outside the lock.
type Registry struct {
	mu        sync.RWMutex
	alerts    map[string]*Alert
	order     []string
	observers map[int]func(Event)
	nextObs   int
	now       func() time.Time
}

// NewRegistry creates a registry holding copies of the given alerts in order.
// Alerts that fail validation or repeat an id are rejected.
func NewRegistry(alerts []Alert) (*Registry, error) {
	r := &Registry{
		alerts:    make(map[string]*Alert, len(alerts)),
		order:     make([]string, 0, len(alerts)),
		observers: make(map[int]func(Event)),
		now:       time.Now,
	}

	for _, a := range alerts {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.alerts[a.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate alert id %s", ErrValidation, a.ID)
		}
		c := a.clone()
		r.alerts[a.ID] = &c
		r.order = append(r.order, a.ID)
	}

	return r, nil
}

// SetClock replaces the time source (useful for testing).
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Subscribe registers fn to be called after every successful mutation.
// The returned function removes the subscription.
func (r *Registry) Subscribe(fn func(Event)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextObs
	r.nextObs++
	r.observers[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.observers, id)
	}
}

// Get returns a copy of the alert with the given id.
func (r *Registry) Get(id string) (Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.alerts[id]
	if !exists {
		return Alert{}, fmt.Errorf("%w: alert %s", ErrNotFound, id)
	}
	return a.clone(), nil
}

// List returns copies of all alerts in insertion order.
func (r *Registry) List() []Alert {
	return r.Filter(Filter{})
}

// Filter returns copies of the alerts matching f, preserving insertion order.
func (r *Registry) Filter(f Filter) []Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Alert, 0, len(r.order))
	for _, id := range r.order {
		a := r.alerts[id]
		if f.Match(*a) {
			out = append(out, a.clone())
		}
	}
	return out
}

// Count returns the number of alerts held.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Summary computes status counts and the average response time.
func (r *Registry) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s Summary
	timed, totalMinutes := 0, 0
	for _, id := range r.order {
		a := r.alerts[id]
		s.Total++
		switch a.Status {
		case StatusActive:
			s.Active++
		case StatusAssigned, StatusInvestigating:
			s.Assigned++
		case StatusResolved:
			s.Resolved++
		}
		if a.ResponseDurationMinutes != nil {
			timed++
			totalMinutes += *a.ResponseDurationMinutes
		}
	}
	if timed > 0 {
		s.AverageResponseMinutes = float64(totalMinutes) / float64(timed)
	}
	return s
}

// AssignResponder sets the responder of an alert. An active alert moves to
// assigned; later states keep their status and only the name changes.
// The first assignment fixes the response time.
func (r *Registry) AssignResponder(id, name string) (Alert, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Alert{}, fmt.Errorf("%w: responder name is required", ErrValidation)
	}

	return r.mutate(id, EventAssigned, func(a *Alert, now time.Time) (bool, error) {
		if a.Status.Terminal() {
			return false, fmt.Errorf("%w: alert %s is already resolved", ErrValidation, id)
		}

		a.Responder = name
		if a.Status == StatusActive {
			a.Status = StatusAssigned
		}
		if a.AssignedAt == nil {
			a.AssignedAt = &now
		}
		if a.ResponseDurationMinutes == nil {
			d := elapsedMinutes(a.OccurredAt, now)
			a.ResponseDurationMinutes = &d
		}
		return true, nil
	})
}

// Investigate moves an active or assigned alert to investigating.
func (r *Registry) Investigate(id string) (Alert, error) {
	return r.mutate(id, EventInvestigating, func(a *Alert, _ time.Time) (bool, error) {
		switch a.Status {
		case StatusInvestigating:
			return false, nil
		case StatusResolved:
			return false, fmt.Errorf("%w: alert %s is already resolved", ErrValidation, id)
		}
		a.Status = StatusInvestigating
		return true, nil
	})
}

// Resolve marks an alert resolved and appends non-blank notes to its description.
// Resolving an already resolved alert changes nothing.
func (r *Registry) Resolve(id, notes string) (Alert, error) {
	notes = strings.TrimSpace(notes)

	return r.mutate(id, EventResolved, func(a *Alert, now time.Time) (bool, error) {
		if a.Status.Terminal() {
			return false, nil
		}

		a.Status = StatusResolved
		a.ResolvedAt = &now
		if a.ResponseDurationMinutes == nil {
			d := elapsedMinutes(a.OccurredAt, now)
			a.ResponseDurationMinutes = &d
		}
		if notes != "" {
			a.Description = appendNotes(a.Description, notes)
		}
		return true, nil
	})
}

// mutate applies fn to a working copy of the alert and commits it only if fn
// succeeds. Observers are notified after the lock is released when fn reports a change.
func (r *Registry) mutate(id string, eventType EventType, fn func(a *Alert, now time.Time) (bool, error)) (Alert, error) {
	r.mu.Lock()
	current, exists := r.alerts[id]
	if !exists {
		r.mu.Unlock()
		return Alert{}, fmt.Errorf("%w: alert %s", ErrNotFound, id)
	}

	working := current.clone()
	changed, err := fn(&working, r.now().UTC())
	if err != nil {
		r.mu.Unlock()
		return Alert{}, err
	}
	if !changed {
		r.mu.Unlock()
		return working, nil
	}

	*current = working
	// Observers run in subscription order
	ids := make([]int, 0, len(r.observers))
	for id := range r.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	observers := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		observers = append(observers, r.observers[id])
	}
	r.mu.Unlock()

	event := Event{Type: eventType, Alert: working}
	for _, notify := range observers {
		notify(Event{Type: event.Type, Alert: event.Alert.clone()})
	}

	return working.clone(), nil
}

func elapsedMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

func appendNotes(description, notes string) string {
	if description == "" {
		return "Resolution notes: " + notes
	}
	return description + "\n\nResolution notes: " + notes
}

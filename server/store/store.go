package store

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"
	"time"

	"github.com/nisitaSoni/safR/server/alert"
)

// Store types
const (
	TypeKVStore   = "kvstore"
	TypeFirestore = "firestore"
)

const (
	// MinLocationPollIntervalSeconds is the smallest accepted location poll interval
	MinLocationPollIntervalSeconds = 5

	// DefaultLocationPollIntervalSeconds is used when no interval is configured
	DefaultLocationPollIntervalSeconds = 30
)

// StatusDelta carries the alert fields a lifecycle operation may change.
type StatusDelta struct {
	Status                  alert.Status `json:"status"`
	Responder               string       `json:"responder,omitempty"`
	ResponseDurationMinutes *int         `json:"responseTimeMinutes,omitempty"`
	Description             string       `json:"description"`
	AssignedAt              *time.Time   `json:"assignedAt,omitempty"`
	ResolvedAt              *time.Time   `json:"resolvedAt,omitempty"`
}

// DeltaFrom captures the mutable fields of an alert.
func DeltaFrom(a alert.Alert) StatusDelta {
	d := StatusDelta{
		Status:      a.Status,
		Responder:   a.Responder,
		Description: a.Description,
	}
	if a.ResponseDurationMinutes != nil {
		v := *a.ResponseDurationMinutes
		d.ResponseDurationMinutes = &v
	}
	if a.AssignedAt != nil {
		v := *a.AssignedAt
		d.AssignedAt = &v
	}
	if a.ResolvedAt != nil {
		v := *a.ResolvedAt
		d.ResolvedAt = &v
	}
	return d
}

// Apply writes the delta onto a.
func (d StatusDelta) Apply(a *alert.Alert) {
	a.Status = d.Status
	a.Responder = d.Responder
	a.Description = d.Description
	a.ResponseDurationMinutes = d.ResponseDurationMinutes
	a.AssignedAt = d.AssignedAt
	a.ResolvedAt = d.ResolvedAt
}

// LocationCallback receives the full set of current tourist locations.
type LocationCallback func(locations []alert.TouristLocation)

// Store is the data-access boundary for tourists, alerts, risk zones and
// live locations. Implementations must be safe for concurrent use.
type Store interface {
	// FetchTourists returns every registered tourist.
	FetchTourists(ctx context.Context) ([]alert.Tourist, error)

	// FetchAlerts returns every alert in the order they should be listed.
	FetchAlerts(ctx context.Context) ([]alert.Alert, error)

	// FetchRiskZones returns the configured risk zones.
	FetchRiskZones(ctx context.Context) ([]alert.RiskZone, error)

	// UpdateAlert persists a lifecycle change. An unknown id returns alert.ErrNotFound.
	UpdateAlert(ctx context.Context, alertID string, delta StatusDelta) error

	// SubscribeLocations calls callback with the full location set whenever it
	// changes. The returned function stops the subscription.
	SubscribeLocations(callback LocationCallback) (func(), error)

	// Close releases every resource held by the store.
	Close() error
}

// Config selects and configures a Store implementation.
type Config struct {
	Type                        string `json:"type" validate:"required"`
	FirestoreProjectID          string `json:"firestoreProjectId" validate:"required_if=Type firestore"`
	FirestoreCredentials        string `json:"firestoreCredentials" validate:"omitempty,json"`
	LocationPollIntervalSeconds int    `json:"locationPollIntervalSeconds"`
}

// PollInterval returns the location poll interval, defaulting when unset.
func (c Config) PollInterval() time.Duration {
	if c.LocationPollIntervalSeconds <= 0 {
		return DefaultLocationPollIntervalSeconds * time.Second
	}
	return time.Duration(c.LocationPollIntervalSeconds) * time.Second
}

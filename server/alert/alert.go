package alert

import (
	"fmt"
	"time"
)

// Category is the kind of safety incident an alert reports.
type Category string

const (
	CategorySOS              Category = "sos"
	CategoryGeofenceBreach   Category = "geofence_breach"
	CategoryMedicalEmergency Category = "medical_emergency"
	CategoryAnomalyDetection Category = "anomaly_detection"
	CategoryMissingPerson    Category = "missing_person"
)

// Categories lists every alert category in display order.
var Categories = []Category{
	CategorySOS,
	CategoryGeofenceBreach,
	CategoryMedicalEmergency,
	CategoryAnomalyDetection,
	CategoryMissingPerson,
}

// Severity is the urgency assigned to an alert when it is created.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severities lists every severity from least to most urgent.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

// Status is the lifecycle state of an alert.
//
//	active -> assigned | investigating -> resolved
//
// Resolved is terminal.
type Status string

const (
	StatusActive        Status = "active"
	StatusAssigned      Status = "assigned"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
)

// Statuses lists every alert status in lifecycle order.
var Statuses = []Status{StatusActive, StatusAssigned, StatusInvestigating, StatusResolved}

// Location is a named point where an alert was raised.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Subject is the display summary of the tourist an alert refers to.
// The authoritative record is the Tourist looked up by ID.
type Subject struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Alert is a recorded safety incident tied to one tourist.
type Alert struct {
	// ID is the stable identifier (ALT-NNN)
	ID string `json:"id"`

	Category Category `json:"category"`

	// Tourist is a weak reference to the tourist the alert is about
	Tourist Subject `json:"tourist"`

	Location Location `json:"location"`

	// OccurredAt is when the incident happened; response time is measured from it
	OccurredAt time.Time `json:"timestamp"`

	// Severity is fixed at creation
	Severity Severity `json:"severity"`

	Status Status `json:"status"`

	// Responder is the assigned staff member, empty until assignment
	Responder string `json:"responder,omitempty"`

	// ResponseDurationMinutes is set once a responder is assigned or the alert resolves
	ResponseDurationMinutes *int `json:"responseTimeMinutes,omitempty"`

	Description string `json:"description"`

	AssignedAt *time.Time `json:"assignedAt,omitempty"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// Validate checks the creation-time invariants of an alert.
func (a Alert) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: alert id is required", ErrValidation)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("%w: alert %s has unknown category %q", ErrValidation, a.ID, a.Category)
	}
	if !a.Severity.Valid() {
		return fmt.Errorf("%w: alert %s has unknown severity %q", ErrValidation, a.ID, a.Severity)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: alert %s has unknown status %q", ErrValidation, a.ID, a.Status)
	}
	if a.Tourist.ID == "" {
		return fmt.Errorf("%w: alert %s has no tourist", ErrValidation, a.ID)
	}
	if a.OccurredAt.IsZero() {
		return fmt.Errorf("%w: alert %s has no occurrence time", ErrValidation, a.ID)
	}
	if a.Responder != "" && a.Status == StatusActive {
		return fmt.Errorf("%w: alert %s has a responder but is still active", ErrValidation, a.ID)
	}
	if a.Status == StatusResolved && a.ResponseDurationMinutes == nil {
		return fmt.Errorf("%w: alert %s is resolved without a response time", ErrValidation, a.ID)
	}
	return nil
}

// clone returns a deep copy so callers never share pointers with the registry.
func (a Alert) clone() Alert {
	c := a
	if a.ResponseDurationMinutes != nil {
		d := *a.ResponseDurationMinutes
		c.ResponseDurationMinutes = &d
	}
	if a.AssignedAt != nil {
		t := *a.AssignedAt
		c.AssignedAt = &t
	}
	if a.ResolvedAt != nil {
		t := *a.ResolvedAt
		c.ResolvedAt = &t
	}
	return c
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	for _, known := range Severities {
		if s == known {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusResolved
}

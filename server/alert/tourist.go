package alert

import (
	"strings"
	"time"
)

// TouristStatus is the monitoring state of a registered visitor.
type TouristStatus string

const (
	TouristActive     TouristStatus = "active"
	TouristAlert      TouristStatus = "alert"
	TouristSafe       TouristStatus = "safe"
	TouristMonitoring TouristStatus = "monitoring"
)

// TouristStatuses lists every tourist status.
var TouristStatuses = []TouristStatus{TouristActive, TouristAlert, TouristSafe, TouristMonitoring}

// RiskLevel grades tourists and risk zones.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskLevels lists every risk level from lowest to highest.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// Tourist is a registered visitor record. It is read, never mutated, by alert handling.
type Tourist struct {
	ID               string        `json:"id" validate:"required,notblank"`
	BlockchainID     string        `json:"blockchainId,omitempty"`
	Name             string        `json:"name" validate:"required,notblank"`
	Nationality      string        `json:"nationality" validate:"required,notblank"`
	Phone            string        `json:"phone" validate:"required,notblank"`
	EmergencyContact string        `json:"emergencyContact" validate:"required,notblank"`
	CheckIn          time.Time     `json:"checkIn"`
	CheckOut         time.Time     `json:"checkOut"`
	Location         string        `json:"location"`
	Status           TouristStatus `json:"status"`
	RiskLevel        RiskLevel     `json:"riskLevel"`
	Itinerary        []string      `json:"itinerary,omitempty"`
}

// TouristFilter selects tourists. Zero-value fields match everything.
type TouristFilter struct {
	// Search matches name, id or nationality, case-insensitively
	Search    string
	Status    TouristStatus
	RiskLevel RiskLevel
}

// Match reports whether t satisfies every set predicate of f.
func (f TouristFilter) Match(t Tourist) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.RiskLevel != "" && t.RiskLevel != f.RiskLevel {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		if !strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.ID), search) &&
			!strings.Contains(strings.ToLower(t.Nationality), search) {
			return false
		}
	}
	return true
}

// FilterTourists returns the tourists matching f in their original order.
func FilterTourists(tourists []Tourist, f TouristFilter) []Tourist {
	out := make([]Tourist, 0, len(tourists))
	for _, t := range tourists {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// FindTourist returns the tourist with the given id.
func FindTourist(tourists []Tourist, id string) (Tourist, bool) {
	for _, t := range tourists {
		if t.ID == id {
			return t, true
		}
	}
	return Tourist{}, false
}

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// RiskZone is a named area with an associated risk level.
type RiskZone struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Level  RiskLevel `json:"level"`
	Coords []Point   `json:"coords"`
}

// TouristLocation is the last reported position of a tourist.
type TouristLocation struct {
	TouristID string        `json:"touristId"`
	Name      string        `json:"name"`
	Latitude  float64       `json:"lat"`
	Longitude float64       `json:"lng"`
	Status    TouristStatus `json:"status"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

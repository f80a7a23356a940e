package firestore

import (
	"time"

	fs "cloud.google.com/go/firestore"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/store"
)

// Collection names
const (
	CollectionTourists  = "tourists"
	CollectionAlerts    = "alerts"
	CollectionRiskZones = "risk-zones"
	CollectionLocations = "tourist-locations"
)

// Document shapes. The document id is the record id.

type touristRecord struct {
	BlockchainID     string    `firestore:"blockchainId"`
	Name             string    `firestore:"name"`
	Nationality      string    `firestore:"nationality"`
	Phone            string    `firestore:"phone"`
	EmergencyContact string    `firestore:"emergencyContact"`
	CheckIn          time.Time `firestore:"checkIn"`
	CheckOut         time.Time `firestore:"checkOut"`
	Location         string    `firestore:"location"`
	Status           string    `firestore:"status"`
	RiskLevel        string    `firestore:"riskLevel"`
	Itinerary        []string  `firestore:"itinerary"`
}

func (r touristRecord) toTourist(id string) alert.Tourist {
	return alert.Tourist{
		ID:               id,
		BlockchainID:     r.BlockchainID,
		Name:             r.Name,
		Nationality:      r.Nationality,
		Phone:            r.Phone,
		EmergencyContact: r.EmergencyContact,
		CheckIn:          r.CheckIn,
		CheckOut:         r.CheckOut,
		Location:         r.Location,
		Status:           alert.TouristStatus(r.Status),
		RiskLevel:        alert.RiskLevel(r.RiskLevel),
		Itinerary:        r.Itinerary,
	}
}

type locationRecord struct {
	Name      string  `firestore:"name"`
	Latitude  float64 `firestore:"lat"`
	Longitude float64 `firestore:"lng"`
}

type alertRecord struct {
	Type                string         `firestore:"type"`
	TouristID           string         `firestore:"touristId"`
	TouristName         string         `firestore:"touristName"`
	TouristPhone        string         `firestore:"touristPhone"`
	Location            locationRecord `firestore:"location"`
	Timestamp           time.Time      `firestore:"timestamp"`
	Severity            string         `firestore:"severity"`
	Status              string         `firestore:"status"`
	ResponderID         string         `firestore:"responderId"`
	ResponseTimeMinutes *int64         `firestore:"responseTimeMinutes"`
	Description         string         `firestore:"description"`
	AssignedAt          *time.Time     `firestore:"assignedAt"`
	ResolvedAt          *time.Time     `firestore:"resolvedAt"`
}

func (r alertRecord) toAlert(id string) alert.Alert {
	a := alert.Alert{
		ID:       id,
		Category: alert.Category(r.Type),
		Tourist: alert.Subject{
			ID:    r.TouristID,
			Name:  r.TouristName,
			Phone: r.TouristPhone,
		},
		Location: alert.Location{
			Name:      r.Location.Name,
			Latitude:  r.Location.Latitude,
			Longitude: r.Location.Longitude,
		},
		OccurredAt:  r.Timestamp,
		Severity:    alert.Severity(r.Severity),
		Status:      alert.Status(r.Status),
		Responder:   r.ResponderID,
		Description: r.Description,
		AssignedAt:  r.AssignedAt,
		ResolvedAt:  r.ResolvedAt,
	}
	if r.ResponseTimeMinutes != nil {
		v := int(*r.ResponseTimeMinutes)
		a.ResponseDurationMinutes = &v
	}
	return a
}

type pointRecord struct {
	Latitude  float64 `firestore:"lat"`
	Longitude float64 `firestore:"lng"`
}

type riskZoneRecord struct {
	Name   string        `firestore:"name"`
	Level  string        `firestore:"level"`
	Coords []pointRecord `firestore:"coords"`
}

func (r riskZoneRecord) toRiskZone(id string) alert.RiskZone {
	zone := alert.RiskZone{
		ID:     id,
		Name:   r.Name,
		Level:  alert.RiskLevel(r.Level),
		Coords: make([]alert.Point, 0, len(r.Coords)),
	}
	for _, p := range r.Coords {
		zone.Coords = append(zone.Coords, alert.Point{Latitude: p.Latitude, Longitude: p.Longitude})
	}
	return zone
}

type touristLocationRecord struct {
	TouristID string    `firestore:"touristId"`
	Name      string    `firestore:"name"`
	Latitude  float64   `firestore:"lat"`
	Longitude float64   `firestore:"lng"`
	Status    string    `firestore:"status"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// toLocation falls back to the document id when the record has no tourist id.
func (r touristLocationRecord) toLocation(id string) alert.TouristLocation {
	touristID := r.TouristID
	if touristID == "" {
		touristID = id
	}
	return alert.TouristLocation{
		TouristID: touristID,
		Name:      r.Name,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Status:    alert.TouristStatus(r.Status),
		UpdatedAt: r.UpdatedAt,
	}
}

// alertUpdates lists the field writes for a lifecycle change.
func alertUpdates(delta store.StatusDelta, now time.Time) []fs.Update {
	var duration any
	if delta.ResponseDurationMinutes != nil {
		duration = int64(*delta.ResponseDurationMinutes)
	}
	var assignedAt, resolvedAt any
	if delta.AssignedAt != nil {
		assignedAt = *delta.AssignedAt
	}
	if delta.ResolvedAt != nil {
		resolvedAt = *delta.ResolvedAt
	}

	return []fs.Update{
		{Path: "status", Value: string(delta.Status)},
		{Path: "responderId", Value: delta.Responder},
		{Path: "responseTimeMinutes", Value: duration},
		{Path: "description", Value: delta.Description},
		{Path: "assignedAt", Value: assignedAt},
		{Path: "resolvedAt", Value: resolvedAt},
		{Path: "updatedAt", Value: now.UTC()},
	}
}

package firestore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/store"
)

func TestAlertRecord_toAlert(t *testing.T) {
	occurred := time.Date(2024, 1, 20, 14, 15, 0, 0, time.UTC)
	assigned := occurred.Add(5 * time.Minute)
	duration := int64(5)

	record := alertRecord{
		Type:                "geofence_breach",
		TouristID:           "TUR-002",
		TouristName:         "Mike Chen",
		Location:            locationRecord{Name: "Old City, Delhi", Latitude: 28.6139, Longitude: 77.2090},
		Timestamp:           occurred,
		Severity:            "medium",
		Status:              "assigned",
		ResponderID:         "Officer Kumar",
		ResponseTimeMinutes: &duration,
		Description:         "Tourist entered high-risk zone without authorization.",
		AssignedAt:          &assigned,
	}

	a := record.toAlert("ALT-002")
	require.NoError(t, a.Validate())
	assert.Equal(t, "ALT-002", a.ID)
	assert.Equal(t, alert.CategoryGeofenceBreach, a.Category)
	assert.Equal(t, alert.Subject{ID: "TUR-002", Name: "Mike Chen"}, a.Tourist)
	assert.Equal(t, 28.6139, a.Location.Latitude)
	assert.Equal(t, alert.StatusAssigned, a.Status)
	assert.Equal(t, "Officer Kumar", a.Responder)
	require.NotNil(t, a.ResponseDurationMinutes)
	assert.Equal(t, 5, *a.ResponseDurationMinutes)
	assert.Equal(t, assigned, *a.AssignedAt)
	assert.Nil(t, a.ResolvedAt)
}

func TestAlertRecord_toAlertWithoutDuration(t *testing.T) {
	a := alertRecord{Type: "sos", TouristID: "TUR-001", Timestamp: time.Now(), Severity: "high", Status: "active"}.toAlert("ALT-001")
	assert.Nil(t, a.ResponseDurationMinutes)
	assert.NoError(t, a.Validate())
}

func TestTouristRecord_toTourist(t *testing.T) {
	record := touristRecord{
		Name:             "Lisa Zhang",
		Nationality:      "Singapore",
		Phone:            "+65-6123-4567",
		EmergencyContact: "+65-6123-4568",
		Status:           "active",
		RiskLevel:        "low",
		Itinerary:        []string{"Bangalore", "Mysore", "Coorg"},
	}

	tourist := record.toTourist("TUR-005")
	assert.Equal(t, "TUR-005", tourist.ID)
	assert.Equal(t, alert.TouristActive, tourist.Status)
	assert.Equal(t, alert.RiskLow, tourist.RiskLevel)
	assert.Equal(t, []string{"Bangalore", "Mysore", "Coorg"}, tourist.Itinerary)
}

func TestRiskZoneRecord_toRiskZone(t *testing.T) {
	zone := riskZoneRecord{
		Name:   "Goa Beach Zone",
		Level:  "low",
		Coords: []pointRecord{{Latitude: 15.5520, Longitude: 73.7570}, {Latitude: 15.5480, Longitude: 73.7530}},
	}.toRiskZone("RZ-003")

	assert.Equal(t, "RZ-003", zone.ID)
	assert.Equal(t, alert.RiskLow, zone.Level)
	assert.Equal(t, []alert.Point{{Latitude: 15.5520, Longitude: 73.7570}, {Latitude: 15.5480, Longitude: 73.7530}}, zone.Coords)

	empty := riskZoneRecord{Name: "Empty"}.toRiskZone("RZ-9")
	assert.NotNil(t, empty.Coords)
	assert.Empty(t, empty.Coords)
}

func TestTouristLocationRecord_toLocation(t *testing.T) {
	withID := touristLocationRecord{TouristID: "TUR-001", Name: "Sarah Johnson", Status: "safe"}.toLocation("doc-1")
	assert.Equal(t, "TUR-001", withID.TouristID)
	assert.Equal(t, alert.TouristSafe, withID.Status)

	fallback := touristLocationRecord{Name: "Mike Chen"}.toLocation("TUR-002")
	assert.Equal(t, "TUR-002", fallback.TouristID)
}

func TestAlertUpdates(t *testing.T) {
	now := time.Date(2024, 1, 20, 15, 0, 0, 0, time.FixedZone("IST", 19800))
	resolved := time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)
	duration := 30

	t.Run("resolved alert", func(t *testing.T) {
		updates := alertUpdates(store.StatusDelta{
			Status:                  alert.StatusResolved,
			Responder:               "Officer Rao",
			ResponseDurationMinutes: &duration,
			Description:             "Found safe.",
			ResolvedAt:              &resolved,
		}, now)

		values := map[string]any{}
		for _, u := range updates {
			values[u.Path] = u.Value
		}
		assert.Equal(t, map[string]any{
			"status":              "resolved",
			"responderId":         "Officer Rao",
			"responseTimeMinutes": int64(30),
			"description":         "Found safe.",
			"assignedAt":          nil,
			"resolvedAt":          resolved,
			"updatedAt":           now.UTC(),
		}, values)
	})

	t.Run("unset duration clears the field", func(t *testing.T) {
		updates := alertUpdates(store.StatusDelta{Status: alert.StatusInvestigating}, now)
		for _, u := range updates {
			if u.Path == "responseTimeMinutes" {
				assert.Nil(t, u.Value)
			}
		}
	})
}

func TestMapError(t *testing.T) {
	notFound := mapError("ALT-404", status.Error(codes.NotFound, "no document to update"))
	assert.ErrorIs(t, notFound, alert.ErrNotFound)
	assert.Contains(t, notFound.Error(), "ALT-404")

	unavailable := mapError("ALT-001", status.Error(codes.Unavailable, "try again"))
	assert.False(t, errors.Is(unavailable, alert.ErrNotFound))
	assert.Contains(t, unavailable.Error(), "failed to update alert ALT-001")
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	alerts := []alert.Alert{
		{ID: "ALT-005", OccurredAt: base.Add(11 * time.Hour)},
		{ID: "ALT-002", OccurredAt: base.Add(14 * time.Hour)},
		{ID: "ALT-001", OccurredAt: base.Add(14 * time.Hour)},
		{ID: "ALT-004", OccurredAt: base.Add(12 * time.Hour)},
	}

	sortNewestFirst(alerts)

	got := make([]string, len(alerts))
	for i, a := range alerts {
		got[i] = a.ID
	}
	assert.Equal(t, []string{"ALT-001", "ALT-002", "ALT-004", "ALT-005"}, got)
}

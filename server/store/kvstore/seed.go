package kvstore

import (
	"time"

	"github.com/nisitaSoni/safR/server/alert"
)

// The demo data set served while a key has never been written.
// Every function returns a fresh copy.

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func minutes(v int) *int {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// SeedTourists returns the five demo tourists.
func SeedTourists() []alert.Tourist {
	return []alert.Tourist{
		{
			ID:               "TUR-001",
			BlockchainID:     "0x1a2b3c4d5e6f",
			Name:             "Sarah Johnson",
			Nationality:      "USA",
			Phone:            "+1-555-0123",
			EmergencyContact: "+1-555-0124",
			CheckIn:          day(15),
			CheckOut:         day(25),
			Location:         "Marine Drive, Mumbai",
			Status:           alert.TouristActive,
			RiskLevel:        alert.RiskLow,
			Itinerary:        []string{"Mumbai", "Goa", "Kerala"},
		},
		{
			ID:               "TUR-002",
			BlockchainID:     "0x2b3c4d5e6f7a",
			Name:             "Mike Chen",
			Nationality:      "Canada",
			Phone:            "+1-604-555-0156",
			EmergencyContact: "+1-604-555-0157",
			CheckIn:          day(12),
			CheckOut:         day(22),
			Location:         "Old Delhi, Delhi",
			Status:           alert.TouristAlert,
			RiskLevel:        alert.RiskMedium,
			Itinerary:        []string{"Delhi", "Agra", "Jaipur"},
		},
		{
			ID:               "TUR-003",
			BlockchainID:     "0x3c4d5e6f7a8b",
			Name:             "Emma Wilson",
			Nationality:      "UK",
			Phone:            "+44-20-7946-0958",
			EmergencyContact: "+44-20-7946-0959",
			CheckIn:          day(10),
			CheckOut:         day(20),
			Location:         "Calangute Beach, Goa",
			Status:           alert.TouristSafe,
			RiskLevel:        alert.RiskLow,
			Itinerary:        []string{"Goa", "Mumbai", "Pune"},
		},
		{
			ID:               "TUR-004",
			BlockchainID:     "0x4d5e6f7a8b9c",
			Name:             "David Kumar",
			Nationality:      "Australia",
			Phone:            "+61-2-9876-5432",
			EmergencyContact: "+61-2-9876-5433",
			CheckIn:          day(18),
			CheckOut:         day(28),
			Location:         "Taj Mahal, Agra",
			Status:           alert.TouristMonitoring,
			RiskLevel:        alert.RiskHigh,
			Itinerary:        []string{"Delhi", "Agra", "Varanasi"},
		},
		{
			ID:               "TUR-005",
			BlockchainID:     "0x5e6f7a8b9c0d",
			Name:             "Lisa Zhang",
			Nationality:      "Singapore",
			Phone:            "+65-6123-4567",
			EmergencyContact: "+65-6123-4568",
			CheckIn:          day(14),
			CheckOut:         day(24),
			Location:         "Palace Road, Mysore",
			Status:           alert.TouristActive,
			RiskLevel:        alert.RiskLow,
			Itinerary:        []string{"Bangalore", "Mysore", "Coorg"},
		},
	}
}

// SeedAlerts returns the five demo alerts, newest first.
func SeedAlerts() []alert.Alert {
	base := day(20)
	return []alert.Alert{
		{
			ID:          "ALT-001",
			Category:    alert.CategorySOS,
			Tourist:     alert.Subject{ID: "TUR-001", Name: "Sarah Johnson", Phone: "+1-555-0123"},
			Location:    alert.Location{Name: "Marine Drive, Mumbai", Latitude: 19.0760, Longitude: 72.8777},
			OccurredAt:  base.Add(14*time.Hour + 30*time.Minute),
			Severity:    alert.SeverityHigh,
			Status:      alert.StatusActive,
			Description: "Emergency button pressed on mobile device. GPS location transmitted.",
		},
		{
			ID:                      "ALT-002",
			Category:                alert.CategoryGeofenceBreach,
			Tourist:                 alert.Subject{ID: "TUR-002", Name: "Mike Chen", Phone: "+1-604-555-0156"},
			Location:                alert.Location{Name: "Old City, Delhi", Latitude: 28.6139, Longitude: 77.2090},
			OccurredAt:              base.Add(14*time.Hour + 15*time.Minute),
			Severity:                alert.SeverityMedium,
			Status:                  alert.StatusAssigned,
			Responder:               "Officer Kumar",
			ResponseDurationMinutes: minutes(5),
			AssignedAt:              timePtr(base.Add(14*time.Hour + 20*time.Minute)),
			Description:             "Tourist entered high-risk zone without authorization.",
		},
		{
			ID:                      "ALT-003",
			Category:                alert.CategoryMedicalEmergency,
			Tourist:                 alert.Subject{ID: "TUR-003", Name: "Emma Wilson", Phone: "+44-20-7946-0958"},
			Location:                alert.Location{Name: "Calangute Beach, Goa", Latitude: 15.2993, Longitude: 74.1240},
			OccurredAt:              base.Add(13*time.Hour + 45*time.Minute),
			Severity:                alert.SeverityHigh,
			Status:                  alert.StatusResolved,
			Responder:               "Dr. Patel",
			ResponseDurationMinutes: minutes(8),
			AssignedAt:              timePtr(base.Add(13*time.Hour + 53*time.Minute)),
			ResolvedAt:              timePtr(base.Add(14 * time.Hour)),
			Description:             "Tourist reported injury at beach location. Medical assistance dispatched.",
		},
		{
			ID:                      "ALT-004",
			Category:                alert.CategoryAnomalyDetection,
			Tourist:                 alert.Subject{ID: "TUR-004", Name: "David Kumar", Phone: "+61-2-9876-5432"},
			Location:                alert.Location{Name: "Taj Mahal, Agra", Latitude: 27.1751, Longitude: 78.0421},
			OccurredAt:              base.Add(12*time.Hour + 30*time.Minute),
			Severity:                alert.SeverityLow,
			Status:                  alert.StatusInvestigating,
			Responder:               "Agent Singh",
			ResponseDurationMinutes: minutes(15),
			AssignedAt:              timePtr(base.Add(12*time.Hour + 45*time.Minute)),
			Description:             "Unusual movement pattern detected. Possible device malfunction or safety concern.",
		},
		{
			ID:          "ALT-005",
			Category:    alert.CategoryMissingPerson,
			Tourist:     alert.Subject{ID: "TUR-005", Name: "Lisa Zhang", Phone: "+65-6123-4567"},
			Location:    alert.Location{Name: "Last seen: Palace Road, Mysore", Latitude: 12.2958, Longitude: 76.6394},
			OccurredAt:  base.Add(11 * time.Hour),
			Severity:    alert.SeverityHigh,
			Status:      alert.StatusActive,
			Description: "Tourist has not checked in for 6+ hours. Last known location recorded.",
		},
	}
}

// SeedRiskZones returns the three demo risk zones.
func SeedRiskZones() []alert.RiskZone {
	return []alert.RiskZone{
		{
			ID:    "RZ-001",
			Name:  "Old Delhi Market",
			Level: alert.RiskHigh,
			Coords: []alert.Point{
				{Latitude: 28.6562, Longitude: 77.2410},
				{Latitude: 28.6500, Longitude: 77.2350},
				{Latitude: 28.6520, Longitude: 77.2300},
				{Latitude: 28.6580, Longitude: 77.2360},
			},
		},
		{
			ID:    "RZ-002",
			Name:  "Mumbai Station Area",
			Level: alert.RiskMedium,
			Coords: []alert.Point{
				{Latitude: 19.0330, Longitude: 72.8290},
				{Latitude: 19.0300, Longitude: 72.8250},
				{Latitude: 19.0320, Longitude: 72.8200},
				{Latitude: 19.0350, Longitude: 72.8240},
			},
		},
		{
			ID:    "RZ-003",
			Name:  "Goa Beach Zone",
			Level: alert.RiskLow,
			Coords: []alert.Point{
				{Latitude: 15.5520, Longitude: 73.7570},
				{Latitude: 15.5480, Longitude: 73.7530},
				{Latitude: 15.5500, Longitude: 73.7480},
				{Latitude: 15.5540, Longitude: 73.7520},
			},
		},
	}
}

// SeedLocations returns the last known position of each demo tourist.
func SeedLocations() []alert.TouristLocation {
	at := day(20).Add(15 * time.Hour)
	return []alert.TouristLocation{
		{TouristID: "TUR-001", Name: "Sarah Johnson", Latitude: 19.0760, Longitude: 72.8777, Status: alert.TouristSafe, UpdatedAt: at.Add(-2 * time.Minute)},
		{TouristID: "TUR-002", Name: "Mike Chen", Latitude: 28.6139, Longitude: 77.2090, Status: alert.TouristAlert, UpdatedAt: at.Add(-5 * time.Minute)},
		{TouristID: "TUR-003", Name: "Emma Wilson", Latitude: 15.2993, Longitude: 74.1240, Status: alert.TouristSafe, UpdatedAt: at.Add(-1 * time.Minute)},
		{TouristID: "TUR-004", Name: "David Kumar", Latitude: 27.1751, Longitude: 78.0421, Status: alert.TouristMonitoring, UpdatedAt: at.Add(-10 * time.Minute)},
		{TouristID: "TUR-005", Name: "Lisa Zhang", Latitude: 12.2958, Longitude: 76.6394, Status: alert.TouristSafe, UpdatedAt: at.Add(-3 * time.Minute)},
	}
}

package hashtag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/report"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		alert    alert.Alert
		expected string
	}{
		{
			name: "category severity and location",
			alert: alert.Alert{
				Category: alert.CategorySOS,
				Severity: alert.SeverityHigh,
				Location: alert.Location{Name: "Marine Drive, Mumbai"},
			},
			expected: "🏷️ #SOSAlert, #HighSeverity, #MarineDrive, #Mumbai",
		},
		{
			name: "punctuation is dropped from labels",
			alert: alert.Alert{
				Category: alert.CategoryGeofenceBreach,
				Severity: alert.SeverityMedium,
				Location: alert.Location{Name: "Old City, Delhi"},
			},
			expected: "🏷️ #GeofenceBreach, #MediumSeverity, #OldCity, #Delhi",
		},
		{
			name: "last seen qualifier",
			alert: alert.Alert{
				Category: alert.CategoryMissingPerson,
				Severity: alert.SeverityHigh,
				Location: alert.Location{Name: "Last seen: Palace Road, Mysore"},
			},
			expected: "🏷️ #MissingPerson, #HighSeverity, #PalaceRoad, #Mysore",
		},
		{
			name: "no location",
			alert: alert.Alert{
				Category: alert.CategoryAnomalyDetection,
				Severity: alert.SeverityLow,
			},
			expected: "🏷️ #AnomalyDetection, #LowSeverity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.alert))
		})
	}
}

func TestForReport(t *testing.T) {
	c := report.NewComposer(0)
	c.SetClock(func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) })

	doc, err := c.Compose(alert.Alert{
		ID:          "ALT-005",
		Category:    alert.CategoryMissingPerson,
		Tourist:     alert.Subject{ID: "TUR-005"},
		Location:    alert.Location{Name: "Last seen: Palace Road, Mysore"},
		OccurredAt:  time.Date(2024, 1, 20, 11, 0, 0, 0, time.UTC),
		Severity:    alert.SeverityHigh,
		Status:      alert.StatusActive,
		Description: "Tourist has not checked in for 6+ hours.",
	}, &alert.Tourist{
		ID:               "TUR-005",
		Name:             "Lisa Zhang",
		Nationality:      "Singapore",
		Phone:            "+65-6123-4567",
		EmergencyContact: "+65-6123-4568",
	}, "Agent Singh")
	require.NoError(t, err)

	assert.Equal(t, "🏷️ #EFIR, #MissingPerson, #PalaceRoad, #Mysore, #Singapore", ForReport(doc))
}

func TestForReport_EmptyDocument(t *testing.T) {
	assert.Equal(t, "🏷️ #EFIR, #MissingPerson", ForReport(report.DocumentSpec{}))
}

func TestExtractLocationTags(t *testing.T) {
	tests := []struct {
		name     string
		location string
		expected []string
	}{
		{"city only", "Mumbai", []string{"#Mumbai"}},
		{"street and city", "Marine Drive, Mumbai", []string{"#MarineDrive", "#Mumbai"}},
		{"near qualifier", "near: Calangute Beach, Goa", []string{"#CalanguteBeach", "#Goa"}},
		{"street number dropped", "12 MG Road, Indiranagar, Bengaluru", []string{"#Indiranagar", "#Bengaluru"}},
		{"pin code dropped", "Taj Mahal, Agra 282001", []string{"#TajMahal"}},
		{"keeps the last three", "Gate 2, Fort Kochi, Ernakulam, Kochi, Kerala", []string{"#Ernakulam", "#Kochi", "#Kerala"}},
		{"empty parts", " , Goa, ", []string{"#Goa"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractLocationTags(tt.location))
		})
	}
}

func TestNationalityTag(t *testing.T) {
	tests := []struct {
		nationality string
		expected    string
	}{
		{"Singapore", "#Singapore"},
		{"USA", "#UnitedStates"},
		{"canada", "#Canada"},
		{"Atlantis", "#Atlantis"},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.nationality, func(t *testing.T) {
			assert.Equal(t, tt.expected, nationalityTag(tt.nationality))
		})
	}
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "SOSAlert", camelCase("SOS Alert"))
	assert.Equal(t, "GeofenceBreach", camelCase("Geo-fence Breach"))
	assert.Equal(t, "MarineDrive", camelCase("marine   drive"))
	assert.Equal(t, "", camelCase(" - "))
}

func TestDeduplicateTags(t *testing.T) {
	tags := deduplicateTags([]string{"#Goa", "#goa", "#", "#Beach", "#GOA"})
	assert.Equal(t, []string{"#Goa", "#Beach"}, tags)
}

package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/report"
)

func composedReport(t *testing.T, description string) report.DocumentSpec {
	t.Helper()

	a := alert.Alert{
		ID:          "ALT-005",
		Category:    alert.CategoryMissingPerson,
		Tourist:     alert.Subject{ID: "TUR-005", Name: "Lisa Zhang"},
		Location:    alert.Location{Name: "Last seen: Palace Road, Mysore"},
		OccurredAt:  time.Date(2024, 1, 20, 11, 0, 0, 0, time.UTC),
		Severity:    alert.SeverityHigh,
		Status:      alert.StatusActive,
		Description: description,
	}
	tourist := &alert.Tourist{
		ID:               "TUR-005",
		Name:             "Lisa Zhang",
		Nationality:      "Singapore",
		Phone:            "+65-6123-4567",
		EmergencyContact: "+65-6123-4568",
	}

	c := report.NewComposer(30)
	c.SetClock(func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) })
	doc, err := c.Compose(a, tourist, "Agent Singh")
	require.NoError(t, err)
	return doc
}

func TestFormatReport(t *testing.T) {
	doc := composedReport(t, "Tourist has not checked in for 6+ hours. Last known location recorded.")

	attachment := FormatReport(doc, "E-FIR-ALT-005-Lisa_Zhang")

	assert.Equal(t, "#### "+report.TitleLabel, attachment.Text)
	assert.Equal(t, "Report `E-FIR-ALT-005-Lisa_Zhang.pdf` filed", attachment.Pretext)
	assert.Equal(t, ColorEmergency, attachment.Color)
	assert.Equal(t, report.Disclaimer+" | 2025-03-01 09:30:00 UTC", attachment.Footer)

	// 10 key/value lines then the narrative
	require.Len(t, attachment.Fields, 11)
	assert.Equal(t, "FIR Number", attachment.Fields[0].Title)
	assert.Equal(t, "ALT-005", attachment.Fields[0].Value)
	assert.Equal(t, model.SlackCompatibleBool(true), attachment.Fields[0].Short)
	assert.Equal(t, "Reporting Officer", attachment.Fields[2].Title)
	assert.Equal(t, "Agent Singh", attachment.Fields[2].Value)
	assert.Equal(t, "Emergency Contact", attachment.Fields[7].Title)

	narrative := attachment.Fields[10]
	assert.Equal(t, report.SectionDescription, narrative.Title)
	assert.Equal(t, "Tourist has not checked in for 6+ hours. Last known location recorded.", narrative.Value)
	assert.Equal(t, model.SlackCompatibleBool(false), narrative.Short)
}

func TestFormatReport_LongNarrativeTruncated(t *testing.T) {
	doc := composedReport(t, strings.Repeat("searching ", 100))

	attachment := FormatReport(doc, "")
	assert.Empty(t, attachment.Pretext)

	narrative := attachment.Fields[len(attachment.Fields)-1]
	value, ok := narrative.Value.(string)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(value, "..."))
	assert.Equal(t, maxNarrativeLength+3, len([]rune(value)))
}

func TestFormatReport_EmptyNarrativeSkipped(t *testing.T) {
	doc := composedReport(t, "")

	attachment := FormatReport(doc, "x")
	require.Len(t, attachment.Fields, 10)
	for _, f := range attachment.Fields {
		assert.NotEqual(t, report.SectionDescription, f.Title)
	}
}

func TestFormatAlert(t *testing.T) {
	duration := 8
	a := alert.Alert{
		ID:                      "ALT-003",
		Category:                alert.CategoryMedicalEmergency,
		Tourist:                 alert.Subject{ID: "TUR-003", Name: "Emma Wilson"},
		Location:                alert.Location{Name: "Calangute Beach, Goa", Latitude: 15.2993, Longitude: 74.1240},
		OccurredAt:              time.Date(2024, 1, 20, 13, 45, 0, 0, time.UTC),
		Severity:                alert.SeverityHigh,
		Status:                  alert.StatusResolved,
		Responder:               "Dr. Patel",
		ResponseDurationMinutes: &duration,
		Description:             "Tourist reported injury at beach location.",
	}

	attachment := FormatAlert(a)

	assert.Equal(t, "#### Medical Emergency ALT-003", attachment.Text)
	assert.Equal(t, ColorSafe, attachment.Color)
	assert.Equal(t, "SafeTrip Emergency Response System | Medical Emergency", attachment.Footer)

	titles := make([]string, len(attachment.Fields))
	for i, f := range attachment.Fields {
		titles[i] = f.Title
	}
	assert.Equal(t, []string{"Status", "Severity", "Tourist", "Occurred", "Location", "Responder", "Response Time", "Description"}, titles)
	assert.Equal(t, "RESOLVED", attachment.Fields[0].Value)
	assert.Equal(t, "Emma Wilson (TUR-003)", attachment.Fields[2].Value)
	assert.Equal(t, "2024-01-20 13:45:00 UTC", attachment.Fields[3].Value)
	assert.Equal(t, "Calangute Beach, Goa (15.2993, 74.1240)", attachment.Fields[4].Value)
	assert.Equal(t, "8 min", attachment.Fields[6].Value)
}

func TestFormatAlert_MinimalAlert(t *testing.T) {
	a := alert.Alert{
		ID:         "ALT-001",
		Category:   alert.CategorySOS,
		Tourist:    alert.Subject{ID: "TUR-001"},
		OccurredAt: time.Date(2024, 1, 20, 14, 30, 0, 0, time.UTC),
		Severity:   alert.SeverityHigh,
		Status:     alert.StatusActive,
	}

	attachment := FormatAlert(a)
	assert.Equal(t, ColorEmergency, attachment.Color)
	require.Len(t, attachment.Fields, 4)
	assert.Equal(t, "TUR-001", attachment.Fields[2].Value)
}

func TestVariantColor(t *testing.T) {
	tests := []struct {
		variant  alert.Variant
		expected string
	}{
		{alert.VariantEmergency, ColorEmergency},
		{alert.VariantWarning, ColorWarning},
		{alert.VariantInfo, ColorInfo},
		{alert.VariantSafe, ColorSafe},
		{alert.VariantSecondary, ColorSecondary},
		{alert.Variant("unknown"), ColorSecondary},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			assert.Equal(t, tt.expected, variantColor(tt.variant))
		})
	}
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "exact", truncateText("exact", 5))
	assert.Equal(t, "ab...", truncateText("abcdef", 2))
	assert.Equal(t, "Úl...", truncateText("Última", 2))
}

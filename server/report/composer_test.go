package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nisitaSoni/safR/server/alert"
)

func missingPersonAlert() alert.Alert {
	return alert.Alert{
		ID:          "ALT-005",
		Category:    alert.CategoryMissingPerson,
		Tourist:     alert.Subject{ID: "TUR-005", Name: "Lisa Zhang", Phone: "+65-6123-4567"},
		Location:    alert.Location{Name: "Last seen: Palace Road, Mysore", Latitude: 12.2958, Longitude: 76.6394},
		OccurredAt:  time.Date(2024, 1, 20, 11, 0, 0, 0, time.UTC),
		Severity:    alert.SeverityHigh,
		Status:      alert.StatusActive,
		Description: "Tourist has not checked in for 6+ hours. Last known location recorded.",
	}
}

func lisaZhang() *alert.Tourist {
	return &alert.Tourist{
		ID:               "TUR-005",
		Name:             "Lisa Zhang",
		Nationality:      "Singapore",
		Phone:            "+65-6123-4567",
		EmergencyContact: "+65-6123-4568",
	}
}

func texts(blocks []Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Text
	}
	return out
}

func TestCompose_MissingPersonDetails(t *testing.T) {
	c := NewComposer(0)

	doc, err := c.Compose(missingPersonAlert(), lisaZhang(), "Agent Singh")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Name: Lisa Zhang",
		"Tourist ID: TUR-005",
		"Nationality: Singapore",
		"Contact Number: +65-6123-4567",
		"Emergency Contact: +65-6123-4568",
	}, texts(doc.Section(SectionMissingPerson)))
}

func TestCompose_SectionOrder(t *testing.T) {
	c := NewComposer(40)
	generated := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return generated })

	doc, err := c.Compose(missingPersonAlert(), lisaZhang(), "  Agent Singh ")
	require.NoError(t, err)

	expected := []Block{
		{Kind: BlockTitle, Text: TitleLabel, Subtitle: SystemName},
		{Kind: BlockSectionHeader, Text: "FIR Details"},
		{Kind: BlockKeyValueLine, Text: "FIR Number: ALT-005", Key: "FIR Number", Value: "ALT-005"},
		{Kind: BlockKeyValueLine, Text: "Date & Time: 2024-01-20T11:00:00Z", Key: "Date & Time", Value: "2024-01-20T11:00:00Z"},
		{Kind: BlockKeyValueLine, Text: "Reporting Officer: Agent Singh", Key: "Reporting Officer", Value: "Agent Singh"},
		{Kind: BlockSectionHeader, Text: "Missing Person Details"},
		{Kind: BlockKeyValueLine, Text: "Name: Lisa Zhang", Key: "Name", Value: "Lisa Zhang"},
		{Kind: BlockKeyValueLine, Text: "Tourist ID: TUR-005", Key: "Tourist ID", Value: "TUR-005"},
		{Kind: BlockKeyValueLine, Text: "Nationality: Singapore", Key: "Nationality", Value: "Singapore"},
		{Kind: BlockKeyValueLine, Text: "Contact Number: +65-6123-4567", Key: "Contact Number", Value: "+65-6123-4567"},
		{Kind: BlockKeyValueLine, Text: "Emergency Contact: +65-6123-4568", Key: "Emergency Contact", Value: "+65-6123-4568"},
		{Kind: BlockSectionHeader, Text: "Incident Information"},
		{Kind: BlockKeyValueLine, Text: "Last Known Location: Last seen: Palace Road, Mysore", Key: "Last Known Location", Value: "Last seen: Palace Road, Mysore"},
		{Kind: BlockKeyValueLine, Text: "Time of Last Contact: 2024-01-20T11:00:00Z", Key: "Time of Last Contact", Value: "2024-01-20T11:00:00Z"},
		{Kind: BlockSectionHeader, Text: "Description of Circumstances"},
		{
			Kind: BlockWrappedParagraph,
			Text: "Tourist has not checked in for 6+ hours.\nLast known location recorded.",
			Lines: []string{
				"Tourist has not checked in for 6+ hours.",
				"Last known location recorded.",
			},
		},
		{Kind: BlockFooter, Text: Disclaimer, GeneratedAt: generated},
	}

	assert.Equal(t, expected, doc.Blocks)
}

func TestCompose_DeterministicExceptFooter(t *testing.T) {
	c := NewComposer(DefaultWrapWidth)
	start := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	c.SetClock(func() time.Time { return start })
	first, err := c.Compose(missingPersonAlert(), lisaZhang(), "Agent Singh")
	require.NoError(t, err)

	c.SetClock(func() time.Time { return start.Add(time.Second) })
	second, err := c.Compose(missingPersonAlert(), lisaZhang(), "Agent Singh")
	require.NoError(t, err)

	require.Equal(t, len(first.Blocks), len(second.Blocks))
	last := len(first.Blocks) - 1
	assert.Equal(t, first.Blocks[:last], second.Blocks[:last])

	firstFooter, ok := first.Footer()
	require.True(t, ok)
	secondFooter, ok := second.Footer()
	require.True(t, ok)
	assert.Equal(t, firstFooter.Text, secondFooter.Text)
	assert.Equal(t, time.Second, secondFooter.GeneratedAt.Sub(firstFooter.GeneratedAt))
}

func TestCompose_UnsupportedCategory(t *testing.T) {
	c := NewComposer(0)

	for _, category := range alert.Categories {
		if category == alert.CategoryMissingPerson {
			continue
		}
		t.Run(string(category), func(t *testing.T) {
			a := missingPersonAlert()
			a.Category = category

			doc, err := c.Compose(a, lisaZhang(), "Agent Singh")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedCategory)
			assert.Empty(t, doc.Blocks)
		})
	}
}

func TestCompose_ValidationErrors(t *testing.T) {
	c := NewComposer(0)

	tests := []struct {
		name     string
		tourist  func() *alert.Tourist
		officer  string
		contains string
	}{
		{
			name:     "nil tourist",
			tourist:  func() *alert.Tourist { return nil },
			officer:  "Agent Singh",
			contains: "tourist is required",
		},
		{
			name: "mismatched tourist",
			tourist: func() *alert.Tourist {
				t := lisaZhang()
				t.ID = "TUR-001"
				return t
			},
			officer:  "Agent Singh",
			contains: "does not match alert subject TUR-005",
		},
		{
			name: "missing phone and emergency contact",
			tourist: func() *alert.Tourist {
				t := lisaZhang()
				t.Phone = ""
				t.EmergencyContact = ""
				return t
			},
			officer:  "Agent Singh",
			contains: "missing Phone, EmergencyContact",
		},
		{
			name: "missing nationality",
			tourist: func() *alert.Tourist {
				t := lisaZhang()
				t.Nationality = ""
				return t
			},
			officer:  "Agent Singh",
			contains: "missing Nationality",
		},
		{
			name: "whitespace name and nationality",
			tourist: func() *alert.Tourist {
				t := lisaZhang()
				t.Name = "   "
				t.Nationality = " "
				return t
			},
			officer:  "Agent Singh",
			contains: "missing Name, Nationality",
		},
		{
			name:     "blank officer",
			tourist:  lisaZhang,
			officer:  "   ",
			contains: "reporting officer is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := c.Compose(missingPersonAlert(), tt.tourist(), tt.officer)
			require.Error(t, err)
			assert.ErrorIs(t, err, alert.ErrValidation)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Empty(t, doc.Blocks)
		})
	}
}

func TestCompose_DoesNotModifyInputs(t *testing.T) {
	c := NewComposer(10)
	a := missingPersonAlert()
	tourist := lisaZhang()
	before := *tourist

	_, err := c.Compose(a, tourist, "Agent Singh")
	require.NoError(t, err)

	assert.Equal(t, missingPersonAlert(), a)
	assert.Equal(t, before, *tourist)
}

func TestCompose_EmptyDescription(t *testing.T) {
	c := NewComposer(0)
	a := missingPersonAlert()
	a.Description = "  "

	doc, err := c.Compose(a, lisaZhang(), "Agent Singh")
	require.NoError(t, err)

	paragraph := doc.Section(SectionDescription)
	require.Len(t, paragraph, 1)
	assert.Empty(t, paragraph[0].Lines)
	assert.Empty(t, paragraph[0].Text)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		tourist  string
		expected string
	}{
		{"default prefix", "", "Lisa Zhang", "E-FIR-ALT-005-Lisa_Zhang"},
		{"custom prefix", "REPORT", "Lisa Zhang", "REPORT-ALT-005-Lisa_Zhang"},
		{"whitespace runs collapse", "E-FIR", "Lisa \t  Mei   Zhang", "E-FIR-ALT-005-Lisa_Mei_Zhang"},
		{"surrounding space trimmed", "E-FIR", " Lisa Zhang ", "E-FIR-ALT-005-Lisa_Zhang"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.prefix, missingPersonAlert(), alert.Tourist{Name: tt.tourist})
			assert.Equal(t, tt.expected, got)
			assert.False(t, strings.ContainsAny(got, " \t"))
		})
	}
}

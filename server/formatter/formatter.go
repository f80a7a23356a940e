package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattermost/mattermost/server/public/model"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/report"
)

// Attachment colors by display variant
const (
	ColorEmergency = "#DC2626"
	ColorWarning   = "#F59E0B"
	ColorInfo      = "#2563EB"
	ColorSafe      = "#16A34A"
	ColorSecondary = "#808080"
)

// maxNarrativeLength caps the description field of a report summary
const maxNarrativeLength = 500

// FormatReport summarizes a composed E-FIR as a Mattermost SlackAttachment.
// Key/value lines become short fields in document order and the narrative
// becomes one full-width field.
func FormatReport(doc report.DocumentSpec, filename string) *model.SlackAttachment {
	attachment := &model.SlackAttachment{
		Color: ColorEmergency,
	}

	title := report.TitleLabel
	var fields []*model.SlackAttachmentField
	for _, b := range doc.Blocks {
		switch b.Kind {
		case report.BlockTitle:
			title = b.Text
		case report.BlockKeyValueLine:
			fields = append(fields, &model.SlackAttachmentField{
				Title: b.Key,
				Value: b.Value,
				Short: true,
			})
		case report.BlockWrappedParagraph:
			if len(b.Lines) == 0 {
				continue
			}
			fields = append(fields, &model.SlackAttachmentField{
				Title: report.SectionDescription,
				Value: truncateText(strings.Join(b.Lines, " "), maxNarrativeLength),
				Short: false,
			})
		case report.BlockFooter:
			attachment.Footer = footerText(b)
		}
	}

	attachment.Text = fmt.Sprintf("#### %s", title)
	if filename != "" {
		attachment.Pretext = fmt.Sprintf("Report `%s.pdf` filed", filename)
	}
	attachment.Fields = fields

	return attachment
}

// FormatAlert renders an alert lifecycle summary, colored by its status.
func FormatAlert(a alert.Alert) *model.SlackAttachment {
	fields := []*model.SlackAttachmentField{
		{Title: "Status", Value: strings.ToUpper(string(a.Status)), Short: true},
		{Title: "Severity", Value: strings.ToUpper(string(a.Severity)), Short: true},
		{Title: "Tourist", Value: formatSubject(a.Tourist), Short: true},
		{Title: "Occurred", Value: formatTime(a.OccurredAt), Short: true},
	}

	if a.Location.Name != "" {
		fields = append(fields, &model.SlackAttachmentField{
			Title: "Location",
			Value: formatLocation(a.Location),
			Short: false,
		})
	}
	if a.Responder != "" {
		fields = append(fields, &model.SlackAttachmentField{Title: "Responder", Value: a.Responder, Short: true})
	}
	if a.ResponseDurationMinutes != nil {
		fields = append(fields, &model.SlackAttachmentField{
			Title: "Response Time",
			Value: fmt.Sprintf("%d min", *a.ResponseDurationMinutes),
			Short: true,
		})
	}
	if a.Description != "" {
		fields = append(fields, &model.SlackAttachmentField{
			Title: "Description",
			Value: truncateText(a.Description, maxNarrativeLength),
			Short: false,
		})
	}

	return &model.SlackAttachment{
		Text:   fmt.Sprintf("#### %s %s", a.Category.Label(), a.ID),
		Color:  variantColor(a.Status.Variant()),
		Fields: fields,
		Footer: fmt.Sprintf("%s | %s", report.SystemName, a.Category.Label()),
	}
}

// variantColor returns the color code for a display variant
func variantColor(v alert.Variant) string {
	switch v {
	case alert.VariantEmergency:
		return ColorEmergency
	case alert.VariantWarning:
		return ColorWarning
	case alert.VariantInfo:
		return ColorInfo
	case alert.VariantSafe:
		return ColorSafe
	default:
		return ColorSecondary
	}
}

func footerText(b report.Block) string {
	if b.GeneratedAt.IsZero() {
		return b.Text
	}
	return fmt.Sprintf("%s | %s", b.Text, formatTime(b.GeneratedAt))
}

func formatSubject(s alert.Subject) string {
	if s.Name == "" {
		return s.ID
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.ID)
}

// formatTime formats a time.Time to a readable string
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}

// formatLocation formats a location as its name followed by coordinates
func formatLocation(loc alert.Location) string {
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return loc.Name
	}
	return fmt.Sprintf("%s (%.4f, %.4f)", loc.Name, loc.Latitude, loc.Longitude)
}

// truncateText truncates text to maxLen runes, adding "..." if truncated
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}

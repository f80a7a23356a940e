// Package hashtag builds the hashtag line attached to bot posts so staff can
// search a channel by incident type, place and nationality.
package hashtag

import (
	"strings"
	"unicode"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/report"
)

// Report keys read by ForReport
const (
	keyLastKnownLocation = "Last Known Location"
	keyNationality       = "Nationality"
)

// Generate creates formatted hashtag text for an alert update.
//
// Order of hashtags:
// 1. Category (#SOSAlert, #MissingPerson)
// 2. Severity (#HighSeverity)
// 3. Location parts (#MarineDrive, #Mumbai)
func Generate(a alert.Alert) string {
	tags := []string{
		"#" + camelCase(a.Category.Label()),
		"#" + capitalizeFirst(string(a.Severity)) + "Severity",
	}
	tags = append(tags, extractLocationTags(a.Location.Name)...)

	return formatHashtagText(deduplicateTags(tags))
}

// ForReport creates formatted hashtag text for a filed E-FIR: #EFIR,
// #MissingPerson, the last known location and the tourist's nationality.
func ForReport(doc report.DocumentSpec) string {
	tags := []string{"#EFIR", "#" + camelCase(alert.CategoryMissingPerson.Label())}

	for _, b := range doc.Blocks {
		if b.Kind != report.BlockKeyValueLine {
			continue
		}
		switch b.Key {
		case keyLastKnownLocation:
			tags = append(tags, extractLocationTags(b.Value)...)
		case keyNationality:
			if tag := nationalityTag(b.Value); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	return formatHashtagText(deduplicateTags(tags))
}

// deduplicateTags removes duplicate tags (case-insensitive) while preserving order.
func deduplicateTags(tags []string) []string {
	seen := make(map[string]bool)
	var uniqueTags []string

	for _, tag := range tags {
		if tag == "#" {
			continue
		}
		tagLower := strings.ToLower(tag)
		if !seen[tagLower] {
			uniqueTags = append(uniqueTags, tag)
			seen[tagLower] = true
		}
	}

	return uniqueTags
}

// formatHashtagText formats hashtags as comma-separated text with emoji prefix.
func formatHashtagText(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "🏷️ " + strings.Join(tags, ", ")
}

// camelCase converts text to CamelCase by capitalizing the first letter of
// each word and dropping everything that is not a letter or digit.
func camelCase(text string) string {
	var result strings.Builder

	for _, word := range strings.Fields(text) {
		first := true
		for _, r := range word {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				continue
			}
			if first {
				r = unicode.ToUpper(r)
				first = false
			}
			result.WriteRune(r)
		}
	}

	return result.String()
}

// capitalizeFirst capitalizes the first letter of a word.
func capitalizeFirst(word string) string {
	if len(word) == 0 {
		return ""
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

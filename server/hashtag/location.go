package hashtag

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/biter777/countries"
)

// locationPrefix matches the qualifier some location names start with,
// e.g. "Last seen: Palace Road, Mysore"
var locationPrefix = regexp.MustCompile(`(?i)^\s*(last seen|near)\s*:\s*`)

// maxLocationTags caps the tags taken from one location name
const maxLocationTags = 3

// extractLocationTags turns a location name into hashtags.
//
// Heuristic:
//  1. Drop a leading "Last seen:" or "Near:" qualifier
//  2. Split by commas and drop any part containing numbers (street numbers, PIN codes)
//  3. CamelCase each remaining part, keeping at most the last three
//
// Examples:
//   - "Marine Drive, Mumbai" -> #MarineDrive, #Mumbai
//   - "Last seen: Palace Road, Mysore" -> #PalaceRoad, #Mysore
//   - "12 MG Road, Indiranagar, Bengaluru" -> #Indiranagar, #Bengaluru
func extractLocationTags(name string) []string {
	name = locationPrefix.ReplaceAllString(name, "")

	var tags []string
	for _, part := range strings.Split(name, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.IndexFunc(part, unicode.IsDigit) >= 0 {
			continue
		}
		if tag := camelCase(part); tag != "" {
			tags = append(tags, "#"+tag)
		}
	}

	if len(tags) > maxLocationTags {
		tags = tags[len(tags)-maxLocationTags:]
	}
	return tags
}

// nationalityTag returns the country hashtag for a nationality given as a
// country name or ISO code. Unknown values are used as-is.
func nationalityTag(nationality string) string {
	nationality = strings.TrimSpace(nationality)
	if nationality == "" {
		return ""
	}

	// ByName handles full names and ISO codes (Alpha-2, Alpha-3), case-insensitively
	if country := countries.ByName(nationality); country != countries.Unknown {
		return "#" + camelCase(country.String())
	}
	return "#" + camelCase(nationality)
}

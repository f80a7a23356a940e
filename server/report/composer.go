package report

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/nisitaSoni/safR/server/alert"
)

// ErrUnsupportedCategory is returned when a report is requested for an alert
// category that has no report.
var ErrUnsupportedCategory = errors.New("unsupported alert category")

// Fixed report text
const (
	TitleLabel = "Electronic First Information Report (E-FIR)"
	SystemName = "SafeTrip Emergency Response System"
	Disclaimer = "This E-FIR is generated automatically by SafeTrip Emergency Response System"

	SectionFIRDetails    = "FIR Details"
	SectionMissingPerson = "Missing Person Details"
	SectionIncident      = "Incident Information"
	SectionDescription   = "Description of Circumstances"

	// DefaultFilePrefix starts every exported report name
	DefaultFilePrefix = "E-FIR"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Composer turns a missing-person alert and its tourist into a DocumentSpec.
// It never modifies its inputs.
type Composer struct {
	wrapWidth int
	validate  *validator.Validate
	now       func() time.Time
}

// NewComposer creates a composer that wraps the narrative at wrapWidth
// characters. A non-positive width selects DefaultWrapWidth.
func NewComposer(wrapWidth int) *Composer {
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}
	validate := validator.New()
	// Whitespace-only tourist fields count as missing
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &Composer{
		wrapWidth: wrapWidth,
		validate:  validate,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for the footer (useful for testing).
func (c *Composer) SetClock(now func() time.Time) {
	c.now = now
}

// WrapWidth returns the configured paragraph width.
func (c *Composer) WrapWidth() int {
	return c.wrapWidth
}

// Compose lays out the E-FIR for a missing-person alert. Sections are always
// emitted in the same order; only the footer's GeneratedAt depends on the clock.
func (c *Composer) Compose(a alert.Alert, tourist *alert.Tourist, officer string) (DocumentSpec, error) {
	if a.Category != alert.CategoryMissingPerson {
		return DocumentSpec{}, fmt.Errorf("%w: no report for %s alerts", ErrUnsupportedCategory, a.Category.Label())
	}
	if err := c.validateInputs(a, tourist, officer); err != nil {
		return DocumentSpec{}, err
	}

	occurred := formatTimestamp(a.OccurredAt)
	officer = strings.TrimSpace(officer)

	blocks := make([]Block, 0, 20)
	blocks = append(blocks, Block{Kind: BlockTitle, Text: TitleLabel, Subtitle: SystemName})

	blocks = append(blocks,
		header(SectionFIRDetails),
		keyValue("FIR Number", a.ID),
		keyValue("Date & Time", occurred),
		keyValue("Reporting Officer", officer),
	)

	blocks = append(blocks,
		header(SectionMissingPerson),
		keyValue("Name", tourist.Name),
		keyValue("Tourist ID", tourist.ID),
		keyValue("Nationality", tourist.Nationality),
		keyValue("Contact Number", tourist.Phone),
		keyValue("Emergency Contact", tourist.EmergencyContact),
	)

	blocks = append(blocks,
		header(SectionIncident),
		keyValue("Last Known Location", a.Location.Name),
		keyValue("Time of Last Contact", occurred),
	)

	lines := Wrap(a.Description, c.wrapWidth)
	blocks = append(blocks,
		header(SectionDescription),
		Block{Kind: BlockWrappedParagraph, Text: strings.Join(lines, "\n"), Lines: lines},
	)

	blocks = append(blocks, Block{Kind: BlockFooter, Text: Disclaimer, GeneratedAt: c.now().UTC()})

	return DocumentSpec{Blocks: blocks}, nil
}

func (c *Composer) validateInputs(a alert.Alert, tourist *alert.Tourist, officer string) error {
	if tourist == nil {
		return fmt.Errorf("%w: tourist is required", alert.ErrValidation)
	}
	if tourist.ID != a.Tourist.ID {
		return fmt.Errorf("%w: tourist %s does not match alert subject %s", alert.ErrValidation, tourist.ID, a.Tourist.ID)
	}
	if err := c.validate.Struct(tourist); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			missing := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				missing = append(missing, fe.Field())
			}
			return fmt.Errorf("%w: tourist %s is missing %s", alert.ErrValidation, tourist.ID, strings.Join(missing, ", "))
		}
		return fmt.Errorf("%w: %s", alert.ErrValidation, err.Error())
	}
	if strings.TrimSpace(officer) == "" {
		return fmt.Errorf("%w: reporting officer is required", alert.ErrValidation)
	}
	return nil
}

// Filename builds the export name <prefix>-<alertId>-<touristName> with
// whitespace runs in the name replaced by underscores.
func Filename(prefix string, a alert.Alert, tourist alert.Tourist) string {
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(tourist.Name), "_")
	return fmt.Sprintf("%s-%s-%s", prefix, a.ID, name)
}

// formatTimestamp renders t as RFC 3339 in UTC, independent of locale.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func header(text string) Block {
	return Block{Kind: BlockSectionHeader, Text: text}
}

func keyValue(key, value string) Block {
	return Block{
		Kind:  BlockKeyValueLine,
		Text:  fmt.Sprintf("%s: %s", key, value),
		Key:   key,
		Value: value,
	}
}

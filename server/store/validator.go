package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SupportedTypes lists the store types this plugin supports
var SupportedTypes = map[string]bool{
	TypeKVStore:   true,
	TypeFirestore: true,
}

var configValidator = validator.New()

// ValidateConfig checks a store configuration before it is used.
func ValidateConfig(config Config) error {
	// Step 1: Structural checks from the struct tags
	if err := configValidator.Struct(config); err != nil {
		return describeValidationError(err)
	}

	// Step 2: Type support
	if !SupportedTypes[config.Type] {
		return fmt.Errorf("unsupported store type '%s' (supported: %s, %s)", config.Type, TypeKVStore, TypeFirestore)
	}

	// Step 3: Poll interval minimum, zero selects the default
	if config.LocationPollIntervalSeconds != 0 && config.LocationPollIntervalSeconds < MinLocationPollIntervalSeconds {
		return fmt.Errorf("location poll interval must be at least %d seconds (got %d)",
			MinLocationPollIntervalSeconds, config.LocationPollIntervalSeconds)
	}

	return nil
}

func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid store configuration: %w", err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "required_if":
			problems = append(problems, fmt.Sprintf("missing required field '%s'", fe.Field()))
		case "json":
			problems = append(problems, fmt.Sprintf("field '%s' must be valid JSON", fe.Field()))
		default:
			problems = append(problems, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid store configuration: %s", strings.Join(problems, "; "))
}

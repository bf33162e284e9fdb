package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// This function uses go-playground/validator for declarative validation
// via struct tags, with additional custom validation for rules that cannot
// be expressed in tags.
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
//
// Returns an error describing validation failures.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// The increment range must be well ordered
	if cfg.Upload.MaxIncrement < cfg.Upload.MinIncrement {
		return fmt.Errorf("upload: max_increment (%d) must be >= min_increment (%d)",
			cfg.Upload.MaxIncrement, cfg.Upload.MinIncrement)
	}

	// BadgerDB needs a path unless running in memory
	if cfg.Storage.Type == "badger" {
		path, _ := cfg.Storage.Badger["path"].(string)
		inMemory, _ := cfg.Storage.Badger["in_memory"].(bool)
		if path == "" && !inMemory {
			return fmt.Errorf("storage: badger requires a path unless in_memory is true")
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}

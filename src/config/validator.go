package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/elee1766/convo/src/session"
	"github.com/go-playground/validator/v10"
)

// Validator validates configuration values using go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("provider", validateProvider)
	v.RegisterValidation("theme", validateTheme)
	v.RegisterValidation("log_format", validateLogFormat)
	v.RegisterValidation("log_level", validateLogLevel)
	v.RegisterValidation("abort_format", validateAbortFormat)

	return &Validator{
		validate: v,
	}
}

// Validate validates a complete configuration
func (v *Validator) Validate(config *Config) error {
	if config.Version == "" {
		config.Version = "1.0"
	}

	if err := v.validate.Struct(config); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]
			return ValidationError{
				Field:   e.Namespace(),
				Message: fmt.Sprintf("validation failed on tag '%s' with value '%v'", e.Tag(), e.Value()),
				Value:   e.Value(),
			}
		}
		return err
	}

	return nil
}

// validateProvider validates API provider values
func validateProvider(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Allow empty, will be filled by defaults
	}
	_, ok := providers[value]
	return ok
}

// validateTheme validates theme values
func validateTheme(fl validator.FieldLevel) bool {
	return slices.Contains([]string{"light", "dark"}, fl.Field().String())
}

// validateLogFormat validates log format values
func validateLogFormat(fl validator.FieldLevel) bool {
	return slices.Contains([]string{"json", "text"}, fl.Field().String())
}

// validateLogLevel validates log level values
func validateLogLevel(fl validator.FieldLevel) bool {
	return slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(fl.Field().String()))
}

func validateAbortFormat(fl validator.FieldLevel) bool {
	return session.ValidAbortFormat(fl.Field().String())
}

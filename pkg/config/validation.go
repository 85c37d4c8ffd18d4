package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	// Generate custom message based on tag
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "min":
		return fmt.Sprintf("%s is below the allowed minimum", e.Field)
	case "gte":
		return fmt.Sprintf("%s must not be negative", e.Field)
	default:
		return fmt.Sprintf("%s failed validation", e.Field)
	}
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks a config struct against its declared constraints plus the
// cross-field rules the tags cannot express. The returned error carries the
// InvalidConfig code and names every offending field.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.InvalidConfig, "config is nil")
	}

	var validationErrors ValidationErrors

	if err := validatorInstance().Struct(cfg); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.Wrap(err, errors.ValidationFailed, "config validation")
		}
		for _, e := range errs {
			validationErrors = append(validationErrors, ValidationError{
				Field: e.Field(),
				Tag:   e.Tag(),
				Value: e.Value(),
			})
		}
	}

	validationErrors = append(validationErrors, customRules(cfg)...)

	if len(validationErrors) > 0 {
		return errors.Wrap(validationErrors, errors.InvalidConfig, "invalid config")
	}
	return nil
}

// customRules covers constraints spanning more than one field.
func customRules(cfg *Config) ValidationErrors {
	var errs ValidationErrors

	if cfg.Run.NDiscard >= cfg.Run.NSamples && cfg.Run.NDiscard != 0 {
		errs = append(errs, ValidationError{
			Field:   "NDiscard",
			Tag:     "ltfield",
			Value:   cfg.Run.NDiscard,
			Message: fmt.Sprintf("n_discard (%d) must be smaller than n_samples (%d)", cfg.Run.NDiscard, cfg.Run.NSamples),
		})
	}

	seen := make(map[float64]bool, len(cfg.Sampler.LocalStates))
	for _, s := range cfg.Sampler.LocalStates {
		if seen[s] {
			errs = append(errs, ValidationError{
				Field:   "LocalStates",
				Tag:     "unique",
				Value:   s,
				Message: fmt.Sprintf("local_states contains duplicate value %v", s),
			})
			break
		}
		seen[s] = true
	}

	return errs
}

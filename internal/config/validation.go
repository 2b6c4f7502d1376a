package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/generator"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return generator.IsSupported(fl.Field().String())
	})
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(cfg, err)
	}
	return nil
}

// validateSettings checks everything but the language, which a command-line
// flag may still replace.
func validateSettings(cfg *Config) error {
	if err := validate.StructExcept(cfg, "Language"); err != nil {
		return formatValidationError(cfg, err)
	}
	return nil
}

// formatValidationError reports the first failing field. An unknown language
// becomes an UnsupportedLanguageError so callers can match it.
func formatValidationError(cfg *Config, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return errors.NewConfigError("invalid configuration", err)
	}

	e := validationErrs[0]
	if e.Tag() == "language" {
		return errors.NewConfigError("invalid language",
			errors.NewUnsupportedLanguage(cfg.Language, generator.Languages()))
	}
	return errors.NewConfigError(
		fmt.Sprintf("%s: validation failed on '%s' tag (value: %v)", e.Namespace(), e.Tag(), e.Value()),
		nil,
	)
}

package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	sections := []struct {
		name  string
		value interface{}
		isNil bool
	}{
		{name: "paths", value: c.Paths, isNil: c.Paths == nil},
		{name: "discovery", value: c.Discovery, isNil: c.Discovery == nil},
		{name: "signing", value: c.Signing, isNil: c.Signing == nil},
		{name: "server", value: c.Server, isNil: c.Server == nil},
	}

	for _, section := range sections {
		if section.isNil {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: section.name,
				Message:   "configuration must contain '" + section.name + "' section",
			})
			continue
		}
		if err := validate.Struct(section.value); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, section.name)...)
		}
	}

	if c.Discovery != nil && c.Discovery.Backend == BackendSystem && len(c.Discovery.Nameservers) > 0 {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "discovery.nameservers",
			Message:   "nameservers are only used by the 'dns' and 'auto' backends",
		})
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func convertValidatorErrors(err error, fieldPrefix string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// e.Field() returns the TOML tag name because we registered TagNameFunc
				fieldPath = fieldPrefix + "." + e.Field()
			}

			validationErrors = append(validationErrors, ValidationError{
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

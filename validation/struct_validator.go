package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/handoff/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})
	})
	return validate
}

// Validate validates a struct using struct tags such as
// `validate:"required,gte=1"`. Failures are reported as one AppError whose
// "fields" detail lists every offending field by its dotted json path. The
// code is MISSING_FIELD when every failure is a missing required value and
// INVALID_CONFIG otherwise.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed").WithCause(err)
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	allRequired := true

	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{Field: fieldPath(e), Message: formatValidationError(e)})
		if !strings.HasPrefix(e.Tag(), "required") {
			allRequired = false
		}
	}

	if allRequired {
		return errors.MissingField(fieldErrors[0].Field).WithDetail("fields", fieldErrors)
	}
	return invalid(fieldErrors)
}

// fieldPath strips the root type name from the namespace, so a nested field
// reads "produce_jitter.max".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if", "required_with":
		return "is required"
	case "min", "gte":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max", "lte":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gtefield":
		return "must not be less than " + toSnakeCase(e.Param())
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

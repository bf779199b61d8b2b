package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/handoff/errors"
)

// FieldError is one failed check, keyed by the config path of the field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates checks on values that do not live in one tagged
// struct, such as CLI settings layered over a loaded file. Checks chain:
//
//	err := validation.New().Min("items", n, 0).OptionalUUID("run_id", id).Err()
type Validator struct {
	fields []FieldError
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Errors returns the failed checks in the order they ran.
func (v *Validator) Errors() []FieldError {
	return v.fields
}

// Err returns nil when every check passed, otherwise an INVALID_CONFIG error
// naming each failed field.
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return invalid(v.fields)
}

// Min fails when value is below minVal.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	return v.Check(value >= minVal, field, fmt.Sprintf("must be at least %d", minVal))
}

// OptionalUUID fails when value is set but is not a UUID.
func (v *Validator) OptionalUUID(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v
	}
	_, err := uuid.Parse(value)
	return v.Check(err == nil, field, "must be a valid UUID")
}

// Check records message for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.fields = append(v.fields, FieldError{Field: field, Message: message})
	}
	return v
}

// invalid builds the INVALID_CONFIG error shared by tag and programmatic
// validation.
func invalid(fields []FieldError) *errors.AppError {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return errors.Validation("Invalid configuration: "+strings.Join(parts, "; ")).
		WithDetail("fields", fields)
}

// ParseUUID parses an optional UUID setting. An empty value yields uuid.Nil
// and no error.
func ParseUUID(field, value string) (uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.InvalidConfig(field, field+" must be a valid UUID").WithCause(err)
	}
	return id, nil
}

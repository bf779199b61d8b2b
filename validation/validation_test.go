package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/handoff/errors"
)

type span struct {
	Min time.Duration `json:"min" validate:"gte=0"`
	Max time.Duration `json:"max" validate:"gte=0,gtefield=Min"`
}

type runConfig struct {
	Capacity int    `json:"capacity" validate:"gte=1"`
	Mode     string `json:"mode" validate:"omitempty,oneof=fast slow"`
	Jitter   span   `json:"jitter"`
}

type named struct {
	Name string `json:"name" validate:"required"`
}

func TestValidate_Valid(t *testing.T) {
	cfg := runConfig{Capacity: 5, Jitter: span{Min: time.Millisecond, Max: 2 * time.Millisecond}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_CapacityBelowOne(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		err := Validate(runConfig{Capacity: capacity})
		if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
			t.Fatalf("capacity %d: expected %s, got %v", capacity, errors.ErrCodeInvalidConfig, err)
		}
		if !strings.Contains(err.Error(), "capacity: must be at least 1") {
			t.Errorf("unexpected message: %s", err.Error())
		}
	}
}

func TestValidate_NestedFieldPath(t *testing.T) {
	err := Validate(runConfig{
		Capacity: 1,
		Jitter:   span{Min: 10 * time.Millisecond, Max: time.Millisecond},
	})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 1 {
		t.Fatalf("expected one field error, got %#v", appErr.Details["fields"])
	}
	if fields[0].Field != "jitter.max" {
		t.Errorf("expected field jitter.max, got %s", fields[0].Field)
	}
	if fields[0].Message != "must not be less than min" {
		t.Errorf("unexpected message %q", fields[0].Message)
	}
}

func TestValidate_MultipleFailures(t *testing.T) {
	err := Validate(runConfig{Capacity: 0, Mode: "turbo"})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if fields := appErr.Details["fields"].([]FieldError); len(fields) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(fields))
	}
	if !strings.Contains(appErr.Message, "mode: must be one of: fast slow") {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(named{})
	if !errors.IsCode(err, errors.ErrCodeMissingField) {
		t.Fatalf("expected %s, got %v", errors.ErrCodeMissingField, err)
	}
	if appErr, _ := errors.AsAppError(err); appErr.Details["field"] != "name" {
		t.Errorf("expected field detail name, got %v", appErr.Details["field"])
	}
}

func TestValidatorCollectsErrors(t *testing.T) {
	v := New().
		Min("items", -1, 0).
		OptionalUUID("run_id", "not-a-uuid").
		Check(false, "pipeline.capacity", "must be at least 1")
	if len(v.Errors()) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(v.Errors()), v.Errors())
	}

	appErr, ok := errors.AsAppError(v.Err())
	if !ok {
		t.Fatalf("expected AppError, got %v", v.Err())
	}
	if appErr.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("expected %s, got %s", errors.ErrCodeInvalidConfig, appErr.Code)
	}
	if appErr.ExitCode != errors.ExitConfig {
		t.Errorf("expected exit %d, got %d", errors.ExitConfig, appErr.ExitCode)
	}
	for _, want := range []string{"items: must be at least 0", "run_id: must be a valid UUID"} {
		if !strings.Contains(appErr.Message, want) {
			t.Errorf("expected message to contain %q, got %q", want, appErr.Message)
		}
	}
	if fields := appErr.Details["fields"].([]FieldError); fields[0].Field != "items" {
		t.Errorf("expected checks in order, got %v", fields)
	}
}

func TestValidatorNoErrors(t *testing.T) {
	v := New().
		Min("items", 0, 0).
		Check(true, "x", "never").
		OptionalUUID("run_id", "").
		OptionalUUID("run_id", uuid.NewString())
	if len(v.Errors()) != 0 {
		t.Errorf("expected no errors, got %v", v.Errors())
	}
	if err := v.Err(); err != nil {
		t.Errorf("expected nil from Err, got %v", err)
	}
}

func TestParseUUID(t *testing.T) {
	want := uuid.New()
	got, err := ParseUUID("run_id", want.String())
	if err != nil || got != want {
		t.Fatalf("ParseUUID = %v, %v; want %v", got, err, want)
	}

	got, err = ParseUUID("run_id", "")
	if err != nil || got != uuid.Nil {
		t.Fatalf("empty value: got %v, %v; want Nil, nil", got, err)
	}

	if _, err := ParseUUID("run_id", "nope"); !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected %s, got %v", errors.ErrCodeInvalidConfig, err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Min":           "min",
		"ProduceJitter": "produce_jitter",
		"Capacity":      "capacity",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

// Package validation checks configuration before a run starts.
//
// Struct tag validation covers single-field bounds and is backed by
// go-playground/validator. The Validator type collects errors for checks that
// span values tags cannot see, such as flags that override a loaded file.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Capacity int `json:"capacity" validate:"gte=1"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Min("items", n, 0).
//	    OptionalUUID("run_id", id).
//	    Err()
package validation

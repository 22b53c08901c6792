// Package validation provides configuration validation for chimney.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    BaseURL string        `validate:"omitempty,absurl"`
//	    Timeout time.Duration `validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("auth.token", cfg.Token)
//	err := v.Err()
package validation

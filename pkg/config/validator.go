package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks a Config against the struct tags plus the custom rules
// below. It is the single validation entry point; the engine trusts a
// validated Config except for the per-stage invariants it re-checks itself.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := RegisterCustomValidators(v); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}
	if err := v.Struct(cfg); err != nil {
		return err
	}
	return validateGeometry(&cfg.Analysis)
}

// RegisterCustomValidators registers the analysis-specific validation
// functions on a validator instance.
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("odd_window", validateOddWindow)
}

// validateOddWindow enforces an odd smoothing window of at least 3 samples.
func validateOddWindow(fl validator.FieldLevel) bool {
	window := fl.Field().Int()
	return window >= 3 && window%2 == 1
}

// validateGeometry enforces the cross-field rule that the selected model's
// geometry parameter is positive. The unused parameter may stay zero.
func validateGeometry(a *AnalysisConfig) error {
	switch a.ModelType {
	case "spherical":
		if a.Radius <= 0 {
			return fmt.Errorf("spherical model requires radius > 0, got %g", a.Radius)
		}
	case "conical":
		if a.HalfAngleDeg <= 0 {
			return fmt.Errorf("conical model requires alpha > 0, got %g", a.HalfAngleDeg)
		}
	}
	return nil
}

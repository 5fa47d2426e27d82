package config

// Config is the complete, immutable configuration for one analysis run.
// Stages receive it (or the relevant sub-struct) by value and never mutate
// it, so a single Config can serve any number of concurrent curve analyses.
type Config struct {
	Analysis AnalysisConfig `koanf:"analysis" validate:"required"`
	Batch    BatchConfig    `koanf:"batch"`
}

// AnalysisConfig carries the per-curve processing options.
type AnalysisConfig struct {
	// SpringConstant is the cantilever spring constant k in N/m.
	SpringConstant float64 `koanf:"k_cantilever" validate:"gt=0"`
	// ModelType selects the contact-mechanics model.
	ModelType string `koanf:"model_type" validate:"oneof=spherical conical"`
	// Radius is the indenter tip radius in meters (spherical model).
	Radius float64 `koanf:"radius" validate:"gte=0"`
	// HalfAngleDeg is the cone half-angle in degrees (conical model).
	HalfAngleDeg float64 `koanf:"alpha" validate:"gte=0,lt=90"`
	// PoissonRatio is the sample Poisson ratio, fixed (not fitted).
	PoissonRatio float64 `koanf:"nu" validate:"gt=0,lte=0.5"`
	// SmoothingWindow is the Savitzky-Golay window length, odd and >= 3.
	SmoothingWindow int `koanf:"smoothing_window" validate:"odd_window"`
	// SmoothingOrder is the local polynomial order, strictly below the window.
	SmoothingOrder int `koanf:"smoothing_order" validate:"min=1,ltfield=SmoothingWindow"`
	// ContactThreshold is the noise-sigma multiplier for contact detection.
	ContactThreshold float64 `koanf:"contact_threshold" validate:"gt=0"`
	// ContactRun is the number of consecutive above-threshold samples
	// required before a crossing counts as contact.
	ContactRun int `koanf:"contact_run" validate:"min=1"`
	// TailFraction is the fraction of leading samples treated as the
	// no-contact tail for baseline fitting and noise estimation.
	TailFraction float64 `koanf:"tail_fraction" validate:"gt=0,lt=1"`
	// FitMaxIterations bounds the nonlinear fit loop.
	FitMaxIterations int `koanf:"fit_max_iterations" validate:"min=1"`
	// FitTolerance is the relative parameter-change convergence threshold.
	FitTolerance float64 `koanf:"fit_tolerance" validate:"gt=0"`
}

// BatchConfig controls directory runs.
type BatchConfig struct {
	// Workers is the number of curves analyzed in parallel.
	Workers int `koanf:"workers" validate:"min=1"`
	// Pattern is the glob matched against file names in the input directory.
	Pattern string `koanf:"pattern" validate:"required"`
}

// Default returns the built-in configuration. Geometry defaults describe a
// common colloidal-probe setup; real runs override k_cantilever and the
// geometry from a config file or environment.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			SpringConstant:   0.1,
			ModelType:        "spherical",
			Radius:           2.5e-6,
			HalfAngleDeg:     35,
			PoissonRatio:     0.5,
			SmoothingWindow:  11,
			SmoothingOrder:   3,
			ContactThreshold: 5,
			ContactRun:       5,
			TailFraction:     0.3,
			FitMaxIterations: 100,
			FitTolerance:     1e-8,
		},
		Batch: BatchConfig{
			Workers: 4,
			Pattern: "*.csv",
		},
	}
}

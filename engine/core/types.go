package core

// -----------------------------------------------------------------------------
// Pipeline Stages
// -----------------------------------------------------------------------------

// Stage identifies one step of the curve-analysis pipeline.
type Stage string

const (
	StageSmoothing   Stage = "smoothing"
	StageBaseline    Stage = "baseline"
	StageContact     Stage = "contact"
	StageIndentation Stage = "indentation"
	StageFit         Stage = "fit"
	StageHysteresis  Stage = "hysteresis"
	StageUnknown     Stage = "unknown"
)

func (s Stage) String() string {
	return string(s)
}

// -----------------------------------------------------------------------------
// Quality Flags
// -----------------------------------------------------------------------------

// QualityFlag marks a suspicious but non-fatal condition on a result. Flags
// are recorded for the consumer to filter or review; they never abort an
// analysis.
type QualityFlag string

const (
	// QualityNegativeModulus marks a converged fit with E < 0, which usually
	// signals an upstream contact-point or baseline error.
	QualityNegativeModulus QualityFlag = "negative_modulus"
	// QualityLowRSquared marks a fit explaining too little of the variance.
	QualityLowRSquared QualityFlag = "low_r_squared"
	// QualityDegenerateHysteresis marks a retract sweep whose enclosed area
	// is non-positive or whose indentation overlap with the approach is too
	// small to integrate.
	QualityDegenerateHysteresis QualityFlag = "degenerate_hysteresis"
)

// HasFlag reports whether flags contains flag.
func HasFlag(flags []QualityFlag, flag QualityFlag) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

package curve

import "errors"

var (
	ErrLengthMismatch = errors.New("displacement and force must have equal length")
	ErrEmptyCurve     = errors.New("curve has no samples")
)

// RawCurve is one sweep of a force-versus-displacement measurement:
// index-aligned displacement and force sequences of equal length, with
// displacement monotonically ordered within the sweep. The piezo
// displacement axis decreases during approach (more negative toward the
// sample); loaders recording the opposite direction must negate before
// constructing a RawCurve.
type RawCurve struct {
	Displacement []float64
	Force        []float64
}

// NewRawCurve copies the input sequences into a new RawCurve so later
// stages can never alias the caller's slices.
func NewRawCurve(displacement, force []float64) (RawCurve, error) {
	if len(displacement) != len(force) {
		return RawCurve{}, ErrLengthMismatch
	}
	if len(displacement) == 0 {
		return RawCurve{}, ErrEmptyCurve
	}
	z := make([]float64, len(displacement))
	f := make([]float64, len(force))
	copy(z, displacement)
	copy(f, force)
	return RawCurve{Displacement: z, Force: f}, nil
}

func (c RawCurve) Len() int {
	return len(c.Force)
}

// Clone returns a deep copy with freshly allocated sample slices.
func (c RawCurve) Clone() RawCurve {
	z := make([]float64, len(c.Displacement))
	f := make([]float64, len(c.Force))
	copy(z, c.Displacement)
	copy(f, c.Force)
	return RawCurve{Displacement: z, Force: f}
}

// ProcessedCurve is a RawCurve plus its smoothed and baseline-corrected
// force sequences. Smoothing and baseline correction never change the
// number or ordering of samples, only force values, so all three force
// sequences stay index-aligned with the displacement axis.
type ProcessedCurve struct {
	Raw       RawCurve
	Smoothed  []float64
	Corrected []float64
	// TailSigma is the noise standard deviation estimated from the
	// baseline-fit residuals over the no-contact tail.
	TailSigma float64
	// TailLen is the number of leading samples used as the tail.
	TailLen int
	// BaselineIntercept and BaselineSlope are the fitted baseline
	// coefficients, kept so a paired retract sweep can be corrected with
	// the same line.
	BaselineIntercept float64
	BaselineSlope     float64
}

// ApplyBaseline subtracts the curve's fitted baseline from a force sequence
// sampled at the given displacements, returning a new sequence.
func (c ProcessedCurve) ApplyBaseline(displacement, force []float64) []float64 {
	out := make([]float64, len(force))
	for i := range force {
		out[i] = force[i] - (c.BaselineIntercept + c.BaselineSlope*displacement[i])
	}
	return out
}

func (c ProcessedCurve) Len() int {
	return c.Raw.Len()
}

// ContactPoint marks the sample of first mechanical contact.
type ContactPoint struct {
	// Index into the curve's sample sequences; 0 <= Index < Len.
	Index int `json:"index"`
	// Z0 is the displacement value at the contact sample.
	Z0 float64 `json:"z0"`
}

// IndentationSeries holds (indentation depth, force) pairs for samples at
// or beyond the contact point. Pre-contact samples are excluded, not
// clamped, so Depth is non-negative throughout.
type IndentationSeries struct {
	Depth []float64
	Force []float64
}

func (s IndentationSeries) Len() int {
	return len(s.Depth)
}

// MaxDepth returns the largest indentation reached, or 0 for an empty series.
func (s IndentationSeries) MaxDepth() float64 {
	maxDepth := 0.0
	for _, d := range s.Depth {
		if d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// Package baseline removes linear drift from a smoothed force curve using
// the pre-contact tail region, and estimates the tail noise level that the
// contact detector thresholds against.
package baseline

import (
	"gonum.org/v1/gonum/stat"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/core"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
)

// Corrector fits a straight line (offset + slope) to force versus
// displacement over the leading TailFraction of samples and subtracts it
// from the whole force sequence.
type Corrector struct {
	TailFraction float64
}

func New(tailFraction float64) Corrector {
	return Corrector{TailFraction: tailFraction}
}

// Correct produces a ProcessedCurve whose Corrected sequence has zero-mean,
// zero-drift behavior in the no-contact region. The noise sigma is taken
// from the raw-force residuals against the fitted line, not the smoothed
// ones, so smoothing cannot shrink the threshold the detector uses.
func (c Corrector) Correct(raw curve.RawCurve, smoothed []float64) (curve.ProcessedCurve, error) {
	n := raw.Len()
	tailLen := int(c.TailFraction * float64(n))
	if tailLen < core.MinTailPoints {
		return curve.ProcessedCurve{}, core.NewInsufficientTailDataError(tailLen)
	}

	z := raw.Displacement
	alpha, beta := stat.LinearRegression(z[:tailLen], smoothed[:tailLen], nil, false)

	corrected := make([]float64, n)
	for i := 0; i < n; i++ {
		corrected[i] = smoothed[i] - (alpha + beta*z[i])
	}

	residuals := make([]float64, tailLen)
	for i := 0; i < tailLen; i++ {
		residuals[i] = raw.Force[i] - (alpha + beta*z[i])
	}
	sigma := stat.StdDev(residuals, nil)

	return curve.ProcessedCurve{
		Raw:               raw.Clone(),
		Smoothed:          append([]float64(nil), smoothed...),
		Corrected:         corrected,
		TailSigma:         sigma,
		TailLen:           tailLen,
		BaselineIntercept: alpha,
		BaselineSlope:     beta,
	}, nil
}

// TailResiduals returns the raw-force residuals over the tail of an already
// corrected curve, for noise diagnostics.
func TailResiduals(pc curve.ProcessedCurve) []float64 {
	res := make([]float64, pc.TailLen)
	for i := 0; i < pc.TailLen; i++ {
		// corrected smoothed force plus the raw-vs-smoothed difference is
		// the raw force with the baseline removed
		res[i] = pc.Corrected[i] + (pc.Raw.Force[i] - pc.Smoothed[i])
	}
	return res
}

package fit

import (
	"math"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/core"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
)

// LowRSquaredThreshold is the R-squared value below which a fit is flagged
// for review.
const LowRSquaredThreshold = 0.9

// Damping schedule for the Levenberg-Marquardt loop.
const (
	initialLambda = 1e-3
	lambdaShrink  = 0.3
	lambdaGrow    = 10.0
	minLambda     = 1e-12
	maxLambda     = 1e12
)

// Result is the immutable outcome of one fit attempt.
type Result struct {
	Params Parameters `json:"params"`
	// StdErr is the standard error of the fitted modulus, from the
	// parameter covariance under Gaussian residual noise.
	StdErr float64 `json:"std_err"`
	// RSquared is the coefficient of determination over the fitted range.
	RSquared float64 `json:"r_squared"`
	// Residuals are measured minus predicted forces, index-aligned with
	// the input series.
	Residuals []float64 `json:"residuals,omitempty"`
	// Iterations is the number of accepted Levenberg-Marquardt steps.
	Iterations int `json:"iterations"`
	// Flags carries quality warnings; a flagged result is still a result.
	Flags []core.QualityFlag `json:"flags,omitempty"`
}

// Fitter fits the free modulus of a Model to an indentation series by
// damped Gauss-Newton (Levenberg-Marquardt) iteration. The loop is bounded
// by MaxIterations and converges when the relative parameter change drops
// below Tolerance.
type Fitter struct {
	Model         Model
	MaxIterations int
	Tolerance     float64
}

func NewFitter(model Model, maxIterations int, tolerance float64) Fitter {
	return Fitter{Model: model, MaxIterations: maxIterations, Tolerance: tolerance}
}

// Fit returns the fitted result or FitDivergedError. A negative converged
// modulus is returned with a quality flag, not rejected: it signals a
// likely upstream contact-point or baseline error rather than a numerical
// failure.
func (f Fitter) Fit(series curve.IndentationSeries) (*Result, error) {
	n := series.Len()
	if n < 2 {
		return nil, core.NewFitDivergedError(0, "fewer than 2 indentation samples")
	}

	modulus := f.Model.InitialGuess(series)
	if !isFinite(modulus) {
		modulus = 0
	}
	ssr := f.sumSquaredResiduals(series, modulus)
	lambda := initialLambda
	converged := false
	iterations := 0

	for iter := 0; iter < f.MaxIterations; iter++ {
		jtj, jtr := f.normalEquations(series, modulus)
		if jtj == 0 {
			return nil, core.NewFitDivergedError(iterations, "singular Jacobian: all depths are zero")
		}

		step := jtr / (jtj * (1 + lambda))
		candidate := modulus + step
		if !isFinite(candidate) {
			return nil, core.NewFitDivergedError(iterations, "modulus resolved to a non-finite value")
		}

		candSSR := f.sumSquaredResiduals(series, candidate)
		if candSSR <= ssr {
			iterations++
			modulus, ssr = candidate, candSSR
			lambda = math.Max(lambda*lambdaShrink, minLambda)
			if math.Abs(step) <= f.Tolerance*math.Max(math.Abs(modulus), math.SmallestNonzeroFloat64) {
				converged = true
				break
			}
		} else {
			lambda *= lambdaGrow
			if lambda > maxLambda {
				return nil, core.NewFitDivergedError(iterations, "damping exhausted without reducing residuals")
			}
		}
	}
	if !converged {
		return nil, core.NewFitDivergedError(iterations, "iteration bound reached before convergence")
	}
	if !isFinite(modulus) {
		return nil, core.NewFitDivergedError(iterations, "modulus resolved to a non-finite value")
	}

	return f.assemble(series, modulus, ssr, iterations), nil
}

// normalEquations accumulates J^T J and J^T r for the scalar parameter.
func (f Fitter) normalEquations(series curve.IndentationSeries, modulus float64) (jtj, jtr float64) {
	h := math.Max(math.Abs(modulus), 1) * 1e-6
	for i := range series.Depth {
		d := series.Depth[i]
		predicted := f.Model.Force(d, modulus)
		grad := (f.Model.Force(d, modulus+h) - predicted) / h
		r := series.Force[i] - predicted
		jtj += grad * grad
		jtr += grad * r
	}
	return jtj, jtr
}

func (f Fitter) sumSquaredResiduals(series curve.IndentationSeries, modulus float64) float64 {
	ssr := 0.0
	for i := range series.Depth {
		r := series.Force[i] - f.Model.Force(series.Depth[i], modulus)
		ssr += r * r
	}
	return ssr
}

func (f Fitter) assemble(series curve.IndentationSeries, modulus, ssr float64, iterations int) *Result {
	n := series.Len()
	residuals := make([]float64, n)
	mean := 0.0
	for i := range series.Force {
		residuals[i] = series.Force[i] - f.Model.Force(series.Depth[i], modulus)
		mean += series.Force[i]
	}
	mean /= float64(n)

	ssTot := 0.0
	for _, v := range series.Force {
		ssTot += (v - mean) * (v - mean)
	}
	rSquared := 1.0
	if ssTot > 0 {
		rSquared = 1 - ssr/ssTot
	}

	// var(E) = s^2 / (J^T J) with s^2 = SSR / (n - 1) for one parameter
	jtj, _ := f.normalEquations(series, modulus)
	stdErr := 0.0
	if n > 1 && jtj > 0 {
		stdErr = math.Sqrt(ssr / float64(n-1) / jtj)
	}

	var flags []core.QualityFlag
	if modulus < 0 {
		flags = append(flags, core.QualityNegativeModulus)
	}
	if rSquared < LowRSquaredThreshold {
		flags = append(flags, core.QualityLowRSquared)
	}

	return &Result{
		Params:     f.Model.Params(modulus),
		StdErr:     stdErr,
		RSquared:   rSquared,
		Residuals:  residuals,
		Iterations: iterations,
		Flags:      flags,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

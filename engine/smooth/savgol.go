// Package smooth implements Savitzky-Golay smoothing: a sliding local
// polynomial least-squares fit that attenuates sample noise while
// preserving low-order derivative information, so downstream contact and
// stiffness estimates are not distorted.
package smooth

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/core"
)

// Smoother smooths a force sequence with an odd sliding window and a
// polynomial order strictly below the window length.
type Smoother struct {
	Window int
	Order  int
}

func New(window, order int) Smoother {
	return Smoother{Window: window, Order: order}
}

// Smooth returns a smoothed sequence of identical length. Samples within
// half a window of either end are fitted over the nearest full window and
// evaluated at their own position instead of being dropped.
func (s Smoother) Smooth(force []float64) ([]float64, error) {
	n := len(force)
	if s.Window <= 0 || s.Window%2 == 0 || s.Window > n {
		return nil, core.NewInvalidWindowError(s.Window, n)
	}
	if s.Order < 0 || s.Order >= s.Window {
		return nil, core.NewInvalidOrderError(s.Order, s.Window)
	}

	w := s.Window
	half := w / 2
	out := make([]float64, n)

	// Central samples: fit over the window centered on i, evaluate at the
	// center. The design matrix over offsets -half..half is shared, so it
	// is factorized once.
	center := newWindowFit(centeredOffsets(w), s.Order)
	for i := half; i < n-half; i++ {
		coeffs, err := center.solve(force[i-half : i+half+1])
		if err != nil {
			return nil, fmt.Errorf("window fit at sample %d: %w", i, err)
		}
		out[i] = coeffs[0]
	}

	// Edge samples: fit once over the first (or last) full window and
	// evaluate the polynomial at each edge position.
	edge := newWindowFit(leadingOffsets(w), s.Order)
	left, err := edge.solve(force[:w])
	if err != nil {
		return nil, fmt.Errorf("leading edge fit: %w", err)
	}
	right, err := edge.solve(force[n-w:])
	if err != nil {
		return nil, fmt.Errorf("trailing edge fit: %w", err)
	}
	for i := 0; i < half; i++ {
		out[i] = polyEval(left, float64(i))
		j := n - half + i
		out[j] = polyEval(right, float64(j-(n-w)))
	}

	return out, nil
}

// windowFit is a factorized least-squares problem over fixed sample
// offsets, reusable for every window with the same shape.
type windowFit struct {
	qr   *mat.QR
	cols int
}

func newWindowFit(offsets []float64, order int) *windowFit {
	rows := len(offsets)
	cols := order + 1
	a := mat.NewDense(rows, cols, nil)
	for i, t := range offsets {
		p := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, p)
			p *= t
		}
	}
	var qr mat.QR
	qr.Factorize(a)
	return &windowFit{qr: &qr, cols: cols}
}

func (f *windowFit) solve(values []float64) ([]float64, error) {
	b := mat.NewDense(len(values), 1, nil)
	for i, v := range values {
		b.Set(i, 0, v)
	}
	var sol mat.Dense
	if err := f.qr.SolveTo(&sol, false, b); err != nil {
		return nil, err
	}
	coeffs := make([]float64, f.cols)
	for j := range coeffs {
		coeffs[j] = sol.At(j, 0)
	}
	return coeffs, nil
}

func centeredOffsets(window int) []float64 {
	half := window / 2
	offsets := make([]float64, window)
	for i := range offsets {
		offsets[i] = float64(i - half)
	}
	return offsets
}

func leadingOffsets(window int) []float64 {
	offsets := make([]float64, window)
	for i := range offsets {
		offsets[i] = float64(i)
	}
	return offsets
}

// polyEval evaluates the polynomial with the given coefficients at t using
// Horner's scheme.
func polyEval(coeffs []float64, t float64) float64 {
	v := 0.0
	for j := len(coeffs) - 1; j >= 0; j-- {
		v = v*t + coeffs[j]
	}
	return v
}

// Package hysteresis quantifies viscoelastic energy dissipation from paired
// approach and retract indentation series.
package hysteresis

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
)

// Result describes one loading/unloading cycle. For a dissipative material
// the approach curve lies above the retract curve and Area is positive.
type Result struct {
	// Area is the enclosed area between the force-indentation curves in
	// joules, the energy dissipated per cycle.
	Area float64 `json:"area"`
	// LossRatio is the dissipated-to-stored energy ratio, a loss-to-storage
	// proxy. Only meaningful when Degenerate is false.
	LossRatio float64 `json:"loss_ratio"`
	// Degenerate marks a cycle whose indentation overlap was too small to
	// integrate, or whose energy bookkeeping came out non-physical.
	Degenerate bool `json:"degenerate"`
}

// Analyzer integrates the approach/retract difference over the overlap of
// their indentation ranges, interpolating the retract curve onto the
// approach grid.
type Analyzer struct{}

func New() Analyzer {
	return Analyzer{}
}

// Analyze returns nil when no retract data is supplied: hysteresis is
// supplementary output, never a failure.
func (a Analyzer) Analyze(approach curve.IndentationSeries, retract *curve.IndentationSeries) *Result {
	if retract == nil || retract.Len() == 0 {
		return nil
	}

	appDepth, appForce := sortedByDepth(approach)
	retDepth, retForce := sortedByDepth(*retract)
	if len(appDepth) < 2 || len(retDepth) < 2 {
		return &Result{Degenerate: true}
	}

	lo := appDepth[0]
	if retDepth[0] > lo {
		lo = retDepth[0]
	}
	hi := appDepth[len(appDepth)-1]
	if last := retDepth[len(retDepth)-1]; last < hi {
		hi = last
	}
	if hi <= lo {
		return &Result{Degenerate: true}
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(retDepth, retForce); err != nil {
		return &Result{Degenerate: true}
	}

	grid := make([]float64, 0, len(appDepth))
	diff := make([]float64, 0, len(appDepth))
	loading := make([]float64, 0, len(appDepth))
	for i, d := range appDepth {
		if d < lo || d > hi {
			continue
		}
		grid = append(grid, d)
		loading = append(loading, appForce[i])
		diff = append(diff, appForce[i]-pl.Predict(d))
	}
	if len(grid) < 2 {
		return &Result{Degenerate: true}
	}

	area := integrate.Trapezoidal(grid, diff)
	loadingEnergy := integrate.Trapezoidal(grid, loading)
	stored := loadingEnergy - area

	result := &Result{Area: area}
	if area <= 0 || stored <= 0 {
		result.Degenerate = true
		return result
	}
	result.LossRatio = area / stored
	return result
}

// sortedByDepth returns depth-ascending copies with duplicate depths
// collapsed, as PiecewiseLinear requires strictly increasing abscissae.
// Retract sweeps are commonly recorded deepest-first, so ordering is not
// assumed.
func sortedByDepth(s curve.IndentationSeries) ([]float64, []float64) {
	n := s.Len()
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return s.Depth[idx[a]] < s.Depth[idx[b]]
	})

	depth := make([]float64, 0, n)
	force := make([]float64, 0, n)
	for _, i := range idx {
		if len(depth) > 0 && s.Depth[i] == depth[len(depth)-1] {
			continue
		}
		depth = append(depth, s.Depth[i])
		force = append(force, s.Force[i])
	}
	return depth, force
}

// Package indent converts displacement and force beyond the contact point
// into true sample indentation depth.
package indent

import (
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/core"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
)

// Calculator computes per-sample indentation depth
//
//	delta = -(z - z0) - F/k
//
// subtracting the cantilever deflection F/k from the piezo travel beyond
// contact to recover the sample deformation. The displacement axis
// decreases during approach, per the RawCurve contract.
type Calculator struct {
	// SpringConstant is the cantilever spring constant k in N/m.
	SpringConstant float64
}

func New(springConstant float64) Calculator {
	return Calculator{SpringConstant: springConstant}
}

// Series builds the indentation series from the corrected curve and the
// contact point. Samples before the contact index are excluded, and samples
// whose computed depth is negative (the contact neighborhood, where
// deflection still exceeds travel) are excluded rather than clamped.
func (c Calculator) Series(pc curve.ProcessedCurve, cp curve.ContactPoint) (curve.IndentationSeries, error) {
	if c.SpringConstant <= 0 {
		return curve.IndentationSeries{}, core.NewZeroStiffnessError(c.SpringConstant)
	}

	n := pc.Len()
	depth := make([]float64, 0, n-cp.Index)
	force := make([]float64, 0, n-cp.Index)
	for i := cp.Index; i < n; i++ {
		f := pc.Corrected[i]
		d := -(pc.Raw.Displacement[i] - cp.Z0) - f/c.SpringConstant
		if d < 0 {
			continue
		}
		depth = append(depth, d)
		force = append(force, f)
	}
	return curve.IndentationSeries{Depth: depth, Force: force}, nil
}

// SeriesAt computes the indentation series over arbitrary index-aligned
// displacement and corrected-force sequences, keeping every sample with a
// non-negative depth. Used for retract sweeps, where the post-contact
// samples are not a suffix of the sweep.
func (c Calculator) SeriesAt(displacement, corrected []float64, z0 float64) (curve.IndentationSeries, error) {
	if c.SpringConstant <= 0 {
		return curve.IndentationSeries{}, core.NewZeroStiffnessError(c.SpringConstant)
	}

	depth := make([]float64, 0, len(displacement))
	force := make([]float64, 0, len(displacement))
	for i := range displacement {
		f := corrected[i]
		d := -(displacement[i] - z0) - f/c.SpringConstant
		if d < 0 {
			continue
		}
		depth = append(depth, d)
		force = append(force, f)
	}
	return curve.IndentationSeries{Depth: depth, Force: force}, nil
}

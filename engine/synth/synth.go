// Package synth generates force curves with known ground truth, for
// validating an analysis configuration end to end before trusting it on
// instrument data.
package synth

import (
	"fmt"
	"math/rand"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/fit"
)

// Params describes one synthetic indentation cycle.
type Params struct {
	// Samples is the number of samples in the approach sweep.
	Samples int
	// ZStart and ZEnd bound the displacement ramp; the ramp decreases, so
	// ZStart > ZEnd per the RawCurve axis contract.
	ZStart float64
	ZEnd   float64
	// ContactIndex is the ground-truth contact sample.
	ContactIndex int
	// Model and Modulus define the post-contact response.
	Model   fit.Model
	Modulus float64
	// SpringConstant couples force back into cantilever deflection.
	SpringConstant float64
	// NoiseSigma is the Gaussian force noise level; zero for exact curves.
	NoiseSigma float64
	// BaselineOffset and BaselineSlope add instrument drift to the force.
	BaselineOffset float64
	BaselineSlope  float64
	// RetractDissipation in [0, 1) scales the retract force below the
	// approach force; zero produces no retract sweep.
	RetractDissipation float64
	// Seed makes the noise reproducible.
	Seed int64
}

// Curve is a generated cycle plus its ground truth.
type Curve struct {
	Approach curve.RawCurve
	Retract  *curve.RawCurve
	// Z0 is the true contact displacement, Approach.Displacement[ContactIndex].
	Z0           float64
	ContactIndex int
}

// Generate builds the cycle. The post-contact force honors the cantilever
// coupling: at each piezo position the indentation depth solves
// delta + F(delta)/k = -(z - z0), so the generated curve is exactly
// consistent with the engine's indentation formula.
func Generate(p Params) (*Curve, error) {
	if p.Samples < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", p.Samples)
	}
	if p.ContactIndex < 0 || p.ContactIndex >= p.Samples {
		return nil, fmt.Errorf("contact index %d out of range [0, %d)", p.ContactIndex, p.Samples)
	}
	if p.ZStart <= p.ZEnd {
		return nil, fmt.Errorf("displacement must decrease during approach: start %g, end %g", p.ZStart, p.ZEnd)
	}
	if p.SpringConstant <= 0 {
		return nil, fmt.Errorf("spring constant must be positive, got %g", p.SpringConstant)
	}
	if p.Model == nil {
		return nil, fmt.Errorf("model is required")
	}

	rng := rand.New(rand.NewSource(p.Seed))
	n := p.Samples
	z := make([]float64, n)
	step := (p.ZStart - p.ZEnd) / float64(n-1)
	for i := range z {
		z[i] = p.ZStart - float64(i)*step
	}
	z0 := z[p.ContactIndex]

	force := make([]float64, n)
	for i := range force {
		f := 0.0
		if i > p.ContactIndex {
			travel := -(z[i] - z0)
			delta := solveDepth(p.Model, p.Modulus, p.SpringConstant, travel)
			f = p.Model.Force(delta, p.Modulus)
		}
		force[i] = f + p.BaselineOffset + p.BaselineSlope*z[i] + rng.NormFloat64()*p.NoiseSigma
	}

	approach, err := curve.NewRawCurve(z, force)
	if err != nil {
		return nil, err
	}
	result := &Curve{Approach: approach, Z0: z0, ContactIndex: p.ContactIndex}

	if p.RetractDissipation > 0 {
		retZ := make([]float64, n)
		retF := make([]float64, n)
		for i := range retZ {
			j := n - 1 - i
			retZ[i] = z[j]
			f := 0.0
			if j > p.ContactIndex {
				travel := -(z[j] - z0)
				delta := solveDepth(p.Model, p.Modulus, p.SpringConstant, travel)
				f = p.Model.Force(delta, p.Modulus) * (1 - p.RetractDissipation)
			}
			retF[i] = f + p.BaselineOffset + p.BaselineSlope*retZ[i] + rng.NormFloat64()*p.NoiseSigma
		}
		retract, err := curve.NewRawCurve(retZ, retF)
		if err != nil {
			return nil, err
		}
		result.Retract = &retract
	}

	return result, nil
}

// solveDepth finds delta with delta + F(delta)/k = travel by bisection.
// The left side is strictly increasing in delta, so the root is unique and
// bracketed by [0, travel].
func solveDepth(model fit.Model, modulus, k, travel float64) float64 {
	if travel <= 0 {
		return 0
	}
	lo, hi := 0.0, travel
	for iter := 0; iter < 200; iter++ {
		mid := (lo + hi) / 2
		if mid+model.Force(mid, modulus)/k < travel {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= 1e-15*travel {
			break
		}
	}
	return (lo + hi) / 2
}

// Package fit estimates the elastic modulus by fitting a contact-mechanics
// model to an indentation series.
package fit

import (
	"fmt"
	"math"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
)

// Kind selects a contact-mechanics model.
type Kind string

const (
	Spherical Kind = "spherical"
	Conical   Kind = "conical"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Spherical, Conical:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown model kind %q", s)
	}
}

// Model is the capability interface a contact model implements. New models
// are added by supplying a new variant with this pair of operations plus a
// parameter description; no hierarchy is involved.
type Model interface {
	Kind() Kind
	// Force returns the predicted force at the given indentation depth for
	// a candidate modulus.
	Force(depth, modulus float64) float64
	// InitialGuess estimates the modulus from the series to seed the
	// nonlinear fit, typically by inverting the model at max indentation.
	InitialGuess(series curve.IndentationSeries) float64
	// Params assembles the parameter record for a fitted modulus.
	Params(modulus float64) Parameters
}

// Parameters describes one fitted model: the kind, the fitted modulus E in
// Pa, the fixed geometry parameter (radius in meters for spherical,
// half-angle in degrees for conical) and the fixed Poisson ratio.
type Parameters struct {
	Kind     Kind    `json:"kind"`
	Modulus  float64 `json:"modulus_pa"`
	Geometry float64 `json:"geometry"`
	Poisson  float64 `json:"poisson"`
}

// hertzSphere is the spherical Hertz model
//
//	F(delta) = (4/3) (E / (1 - nu^2)) sqrt(R) delta^(3/2)
type hertzSphere struct {
	radius  float64
	poisson float64
	coeff   float64
}

// NewHertzSphere builds the spherical model for a tip radius in meters.
func NewHertzSphere(radius, poisson float64) (Model, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("spherical model requires radius > 0, got %g", radius)
	}
	if err := checkPoisson(poisson); err != nil {
		return nil, err
	}
	return &hertzSphere{
		radius:  radius,
		poisson: poisson,
		coeff:   (4.0 / 3.0) * math.Sqrt(radius) / (1 - poisson*poisson),
	}, nil
}

func (m *hertzSphere) Kind() Kind {
	return Spherical
}

func (m *hertzSphere) Force(depth, modulus float64) float64 {
	if depth <= 0 {
		return 0
	}
	return m.coeff * modulus * depth * math.Sqrt(depth)
}

func (m *hertzSphere) InitialGuess(series curve.IndentationSeries) float64 {
	return invertAtMaxDepth(series, func(depth float64) float64 {
		return m.coeff * depth * math.Sqrt(depth)
	})
}

func (m *hertzSphere) Params(modulus float64) Parameters {
	return Parameters{Kind: Spherical, Modulus: modulus, Geometry: m.radius, Poisson: m.poisson}
}

// sneddonCone is the conical Sneddon model
//
//	F(delta) = (2/pi) (E / (1 - nu^2)) tan(alpha) delta^2
type sneddonCone struct {
	halfAngleDeg float64
	poisson      float64
	coeff        float64
}

// NewSneddonCone builds the conical model for a half-angle in degrees.
func NewSneddonCone(halfAngleDeg, poisson float64) (Model, error) {
	if halfAngleDeg <= 0 || halfAngleDeg >= 90 {
		return nil, fmt.Errorf("conical model requires half-angle in (0, 90) degrees, got %g", halfAngleDeg)
	}
	if err := checkPoisson(poisson); err != nil {
		return nil, err
	}
	return &sneddonCone{
		halfAngleDeg: halfAngleDeg,
		poisson:      poisson,
		coeff:        (2.0 / math.Pi) * math.Tan(halfAngleDeg*math.Pi/180) / (1 - poisson*poisson),
	}, nil
}

func (m *sneddonCone) Kind() Kind {
	return Conical
}

func (m *sneddonCone) Force(depth, modulus float64) float64 {
	if depth <= 0 {
		return 0
	}
	return m.coeff * modulus * depth * depth
}

func (m *sneddonCone) InitialGuess(series curve.IndentationSeries) float64 {
	return invertAtMaxDepth(series, func(depth float64) float64 {
		return m.coeff * depth * depth
	})
}

func (m *sneddonCone) Params(modulus float64) Parameters {
	return Parameters{Kind: Conical, Modulus: modulus, Geometry: m.halfAngleDeg, Poisson: m.poisson}
}

// NewModel builds the model selected by kind. The unused geometry parameter
// is ignored.
func NewModel(kind Kind, radius, halfAngleDeg, poisson float64) (Model, error) {
	switch kind {
	case Spherical:
		return NewHertzSphere(radius, poisson)
	case Conical:
		return NewSneddonCone(halfAngleDeg, poisson)
	default:
		return nil, fmt.Errorf("unknown model kind %q", kind)
	}
}

func checkPoisson(poisson float64) error {
	if poisson <= 0 || poisson > 0.5 {
		return fmt.Errorf("poisson ratio must be in (0, 0.5], got %g", poisson)
	}
	return nil
}

// invertAtMaxDepth linearizes E = F / shape(delta) at the deepest sample.
func invertAtMaxDepth(series curve.IndentationSeries, shape func(float64) float64) float64 {
	maxDepth := 0.0
	forceAtMax := 0.0
	for i, d := range series.Depth {
		if d > maxDepth {
			maxDepth = d
			forceAtMax = series.Force[i]
		}
	}
	if maxDepth <= 0 {
		return 0
	}
	denom := shape(maxDepth)
	if denom == 0 {
		return 0
	}
	return forceAtMax / denom
}

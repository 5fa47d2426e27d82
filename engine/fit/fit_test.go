package fit

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/core"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
)

// modelSeries generates an exact series for the given model and modulus.
func modelSeries(t *testing.T, m Model, modulus float64, n int, maxDepth float64) curve.IndentationSeries {
	t.Helper()
	depth := make([]float64, n)
	force := make([]float64, n)
	for i := range depth {
		depth[i] = maxDepth * float64(i) / float64(n-1)
		force[i] = m.Force(depth[i], modulus)
	}
	return curve.IndentationSeries{Depth: depth, Force: force}
}

func TestParseKind(t *testing.T) {
	t.Run("Should accept the two built-in kinds", func(t *testing.T) {
		for _, s := range []string{"spherical", "conical"} {
			k, err := ParseKind(s)
			require.NoError(t, err)
			assert.Equal(t, Kind(s), k)
		}
	})

	t.Run("Should reject anything else", func(t *testing.T) {
		_, err := ParseKind("pyramidal")
		require.Error(t, err)
	})
}

func TestModels(t *testing.T) {
	t.Run("Should follow the Hertz relation", func(t *testing.T) {
		m, err := NewHertzSphere(2.5e-6, 0.5)
		require.NoError(t, err)

		// F = (4/3)(E/(1-nu^2)) sqrt(R) delta^1.5
		expected := (4.0 / 3.0) * (5000 / 0.75) * math.Sqrt(2.5e-6) * math.Pow(1e-6, 1.5)
		assert.InEpsilon(t, expected, m.Force(1e-6, 5000), 1e-12)
	})

	t.Run("Should follow the Sneddon relation", func(t *testing.T) {
		m, err := NewSneddonCone(35, 0.3)
		require.NoError(t, err)

		alpha := 35 * math.Pi / 180
		expected := (2.0 / math.Pi) * (2000 / (1 - 0.09)) * math.Tan(alpha) * 1e-12
		assert.InEpsilon(t, expected, m.Force(1e-6, 2000), 1e-12)
	})

	t.Run("Should return zero force at non-positive depth", func(t *testing.T) {
		m, err := NewHertzSphere(1e-6, 0.5)
		require.NoError(t, err)

		assert.Zero(t, m.Force(0, 5000))
		assert.Zero(t, m.Force(-1e-9, 5000))
	})

	t.Run("Should recover the modulus from the initial guess on exact data", func(t *testing.T) {
		m, err := NewHertzSphere(2.5e-6, 0.5)
		require.NoError(t, err)
		series := modelSeries(t, m, 5000, 50, 1e-6)

		assert.InEpsilon(t, 5000, m.InitialGuess(series), 1e-9)
	})

	t.Run("Should reject invalid geometry and poisson", func(t *testing.T) {
		_, err := NewHertzSphere(0, 0.5)
		require.Error(t, err)

		_, err = NewSneddonCone(0, 0.5)
		require.Error(t, err)

		_, err = NewSneddonCone(95, 0.5)
		require.Error(t, err)

		_, err = NewHertzSphere(1e-6, 0.6)
		require.Error(t, err)

		_, err = NewHertzSphere(1e-6, 0)
		require.Error(t, err)
	})

	t.Run("Should dispatch by kind", func(t *testing.T) {
		m, err := NewModel(Conical, 0, 35, 0.5)
		require.NoError(t, err)
		assert.Equal(t, Conical, m.Kind())

		_, err = NewModel(Kind("cube"), 1e-6, 35, 0.5)
		require.Error(t, err)
	})
}

func TestFitter_Fit(t *testing.T) {
	t.Run("Should report R squared of one on noiseless model-consistent data", func(t *testing.T) {
		m, err := NewHertzSphere(2.5e-6, 0.5)
		require.NoError(t, err)
		series := modelSeries(t, m, 5000, 100, 1.2e-6)

		res, err := NewFitter(m, 100, 1e-8).Fit(series)

		require.NoError(t, err)
		assert.InEpsilon(t, 5000, res.Params.Modulus, 1e-6)
		assert.InDelta(t, 1.0, res.RSquared, 1e-12)
		assert.InDelta(t, 0.0, res.StdErr, 1e-6)
		assert.Empty(t, res.Flags)
		assert.Len(t, res.Residuals, 100)
	})

	t.Run("Should fit the conical model within tolerance under noise", func(t *testing.T) {
		m, err := NewSneddonCone(35, 0.5)
		require.NoError(t, err)
		series := modelSeries(t, m, 2000, 200, 1e-6)
		rng := rand.New(rand.NewSource(21))
		scale := series.Force[len(series.Force)-1]
		for i := range series.Force {
			series.Force[i] += rng.NormFloat64() * scale * 0.01
		}

		res, err := NewFitter(m, 100, 1e-8).Fit(series)

		require.NoError(t, err)
		assert.InEpsilon(t, 2000, res.Params.Modulus, 0.05)
		assert.Greater(t, res.RSquared, 0.98)
		assert.Greater(t, res.StdErr, 0.0)
	})

	t.Run("Should flag a negative modulus instead of rejecting it", func(t *testing.T) {
		m, err := NewHertzSphere(2.5e-6, 0.5)
		require.NoError(t, err)
		series := modelSeries(t, m, 5000, 50, 1e-6)
		// a sign-flipped curve, as a badly corrected baseline would produce
		for i := range series.Force {
			series.Force[i] = -series.Force[i]
		}

		res, err := NewFitter(m, 100, 1e-8).Fit(series)

		require.NoError(t, err)
		assert.Less(t, res.Params.Modulus, 0.0)
		assert.True(t, core.HasFlag(res.Flags, core.QualityNegativeModulus))
	})

	t.Run("Should flag a low R squared", func(t *testing.T) {
		m, err := NewHertzSphere(2.5e-6, 0.5)
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(17))
		n := 100
		depth := make([]float64, n)
		force := make([]float64, n)
		for i := range depth {
			depth[i] = 1e-6 * float64(i) / float64(n-1)
			force[i] = rng.NormFloat64() * 1e-9
		}

		res, err := NewFitter(m, 200, 1e-8).Fit(curve.IndentationSeries{Depth: depth, Force: force})

		require.NoError(t, err)
		assert.True(t, core.HasFlag(res.Flags, core.QualityLowRSquared))
	})

	t.Run("Should diverge on an all-zero-depth series", func(t *testing.T) {
		m, err := NewHertzSphere(2.5e-6, 0.5)
		require.NoError(t, err)
		series := curve.IndentationSeries{Depth: []float64{0, 0, 0}, Force: []float64{1, 2, 3}}

		_, err = NewFitter(m, 100, 1e-8).Fit(series)

		var target *core.FitDivergedError
		require.ErrorAs(t, err, &target)
	})

	t.Run("Should fail on a series with fewer than two samples", func(t *testing.T) {
		m, err := NewHertzSphere(2.5e-6, 0.5)
		require.NoError(t, err)

		_, err = NewFitter(m, 100, 1e-8).Fit(curve.IndentationSeries{Depth: []float64{1e-9}, Force: []float64{1e-12}})

		var target *core.FitDivergedError
		require.ErrorAs(t, err, &target)
	})

	t.Run("Should record geometry and poisson on the parameters", func(t *testing.T) {
		m, err := NewSneddonCone(35, 0.4)
		require.NoError(t, err)
		series := modelSeries(t, m, 1000, 50, 1e-6)

		res, err := NewFitter(m, 100, 1e-8).Fit(series)

		require.NoError(t, err)
		assert.Equal(t, Conical, res.Params.Kind)
		assert.Equal(t, 35.0, res.Params.Geometry)
		assert.Equal(t, 0.4, res.Params.Poisson)
	})
}

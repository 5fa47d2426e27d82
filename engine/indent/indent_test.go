package indent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/core"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
)

func makeProcessed(t *testing.T, z, f []float64) curve.ProcessedCurve {
	t.Helper()
	raw, err := curve.NewRawCurve(z, f)
	require.NoError(t, err)
	return curve.ProcessedCurve{Raw: raw, Smoothed: f, Corrected: f}
}

func TestCalculator_Series(t *testing.T) {
	t.Run("Should subtract cantilever deflection from piezo travel", func(t *testing.T) {
		// beyond contact at z0=0: travel 10nm, force 0.2nN, k=0.1 N/m
		// deflection = 0.2e-9/0.1 = 2e-9, so delta = 10e-9 - 2e-9 = 8e-9
		z := []float64{20e-9, 10e-9, 0, -10e-9}
		f := []float64{0, 0, 0, 0.2e-9}
		pc := makeProcessed(t, z, f)

		series, err := New(0.1).Series(pc, curve.ContactPoint{Index: 2, Z0: 0})

		require.NoError(t, err)
		require.Equal(t, 2, series.Len())
		assert.InDelta(t, 0.0, series.Depth[0], 1e-18)
		assert.InDelta(t, 8e-9, series.Depth[1], 1e-18)
		assert.Equal(t, 0.2e-9, series.Force[1])
	})

	t.Run("Should exclude pre-contact samples", func(t *testing.T) {
		z := []float64{30e-9, 20e-9, 10e-9, 0}
		f := []float64{0, 0, 0, 0}
		pc := makeProcessed(t, z, f)

		series, err := New(1).Series(pc, curve.ContactPoint{Index: 2, Z0: 10e-9})

		require.NoError(t, err)
		assert.Equal(t, 2, series.Len())
	})

	t.Run("Should exclude negative depths instead of clamping", func(t *testing.T) {
		// huge force right at contact makes deflection exceed travel
		z := []float64{10e-9, 0, -1e-9}
		f := []float64{0, 1e-9, 1e-9}
		pc := makeProcessed(t, z, f)

		series, err := New(0.1).Series(pc, curve.ContactPoint{Index: 1, Z0: 0})

		require.NoError(t, err)
		for _, d := range series.Depth {
			assert.GreaterOrEqual(t, d, 0.0)
		}
	})

	t.Run("Should produce weakly increasing depth for a monotonic approach", func(t *testing.T) {
		n := 100
		z := make([]float64, n)
		f := make([]float64, n)
		for i := range z {
			z[i] = -float64(i) * 2e-9
			if i >= 40 {
				// force growing slowly so deflection never outpaces travel
				f[i] = float64(i-40) * 1e-12
			}
		}
		pc := makeProcessed(t, z, f)

		series, err := New(0.1).Series(pc, curve.ContactPoint{Index: 40, Z0: z[40]})

		require.NoError(t, err)
		require.NotZero(t, series.Len())
		for i := 1; i < series.Len(); i++ {
			assert.GreaterOrEqual(t, series.Depth[i], series.Depth[i-1], "sample %d", i)
		}
	})

	t.Run("Should fail for non-positive spring constant", func(t *testing.T) {
		pc := makeProcessed(t, []float64{0, -1e-9}, []float64{0, 0})

		_, err := New(0).Series(pc, curve.ContactPoint{})

		var target *core.ZeroStiffnessError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 0.0, target.SpringConstant)
	})
}

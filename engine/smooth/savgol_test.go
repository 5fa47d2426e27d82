package smooth

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/core"
)

func cubic(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i)
		out[i] = 0.5 + 0.1*x - 0.002*x*x + 1e-5*x*x*x
	}
	return out
}

func TestSmoother_Smooth(t *testing.T) {
	t.Run("Should preserve sequence length", func(t *testing.T) {
		s := New(11, 3)

		out, err := s.Smooth(make([]float64, 100))

		require.NoError(t, err)
		assert.Len(t, out, 100)
	})

	t.Run("Should reproduce a polynomial of degree at most the order", func(t *testing.T) {
		s := New(11, 3)
		in := cubic(80)

		out, err := s.Smooth(in)

		require.NoError(t, err)
		for i := range in {
			assert.InDelta(t, in[i], out[i], 1e-9, "sample %d", i)
		}
	})

	t.Run("Should be near-idempotent on polynomial-preserving regions", func(t *testing.T) {
		s := New(11, 3)
		in := cubic(80)

		once, err := s.Smooth(in)
		require.NoError(t, err)
		twice, err := s.Smooth(once)
		require.NoError(t, err)

		for i := range once {
			assert.InDelta(t, once[i], twice[i], 1e-9, "sample %d", i)
		}
	})

	t.Run("Should attenuate noise around a smooth signal", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		n := 500
		clean := make([]float64, n)
		noisy := make([]float64, n)
		for i := range clean {
			clean[i] = math.Sin(float64(i) / 50)
			noisy[i] = clean[i] + rng.NormFloat64()*0.05
		}

		out, err := New(21, 3).Smooth(noisy)
		require.NoError(t, err)

		var rawErr, smoothErr float64
		for i := range clean {
			rawErr += (noisy[i] - clean[i]) * (noisy[i] - clean[i])
			smoothErr += (out[i] - clean[i]) * (out[i] - clean[i])
		}
		assert.Less(t, smoothErr, rawErr/2)
	})

	t.Run("Should reject an even window", func(t *testing.T) {
		_, err := New(4, 2).Smooth(make([]float64, 100))

		var target *core.InvalidWindowError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 4, target.Window)
	})

	t.Run("Should reject a non-positive window", func(t *testing.T) {
		_, err := New(0, 0).Smooth(make([]float64, 10))

		var target *core.InvalidWindowError
		require.ErrorAs(t, err, &target)
	})

	t.Run("Should reject a window longer than the sequence", func(t *testing.T) {
		_, err := New(11, 3).Smooth(make([]float64, 5))

		var target *core.InvalidWindowError
		require.ErrorAs(t, err, &target)
	})

	t.Run("Should reject order not below the window", func(t *testing.T) {
		_, err := New(5, 5).Smooth(make([]float64, 100))

		var target *core.InvalidOrderError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 5, target.Order)
	})
}

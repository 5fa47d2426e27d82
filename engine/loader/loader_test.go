package loader

import (
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func rampCSV(sep string, n int, withRetract bool) string {
	var sb strings.Builder
	sb.WriteString("z" + sep + "force\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%g%s%g\n", 1e-6-float64(i)*1e-8, sep, float64(i)*1e-12)
	}
	if withRetract {
		for i := n - 2; i >= 0; i-- {
			fmt.Fprintf(&sb, "%g%s%g\n", 1e-6-float64(i)*1e-8, sep, float64(i)*0.5e-12)
		}
	}
	return sb.String()
}

func TestLoad(t *testing.T) {
	t.Run("Should load a comma separated approach sweep", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "curve.csv", rampCSV(",", 50, false))

		cy, err := New(fs, 10).Load("curve.csv")

		require.NoError(t, err)
		assert.Equal(t, "curve.csv", cy.Source)
		assert.Equal(t, 50, cy.Approach.Len())
		assert.Nil(t, cy.Retract)
		assert.Equal(t, 1e-6, cy.Approach.Displacement[0])
	})

	t.Run("Should split approach and retract at the turnaround", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "cycle.csv", rampCSV(",", 50, true))

		cy, err := New(fs, 10).Load("cycle.csv")

		require.NoError(t, err)
		assert.Equal(t, 50, cy.Approach.Len())
		require.NotNil(t, cy.Retract)
		assert.Equal(t, 50, cy.Retract.Len())
		// turnaround sample is shared and is the deepest point of both sweeps
		assert.Equal(t, cy.Approach.Displacement[49], cy.Retract.Displacement[0])
	})

	t.Run("Should tolerate semicolons tabs and malformed rows", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		content := "# exported 2026-08-12\n" +
			"displacement;force\n" +
			"3e-7;1e-12\n" +
			"2e-7\t2e-12\n" +
			"not,numeric\n" +
			"1e-7 3e-12\n"
		writeFile(t, fs, "messy.csv", content)

		cy, err := New(fs, 2).Load("messy.csv")

		require.NoError(t, err)
		assert.Equal(t, 3, cy.Approach.Len())
		assert.Equal(t, []float64{1e-12, 2e-12, 3e-12}, cy.Approach.Force)
	})

	t.Run("Should reject files with too few usable rows", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "short.csv", "z,f\n1e-7,0\n9e-8,0\n")

		_, err := New(fs, 10).Load("short.csv")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "usable rows")
	})

	t.Run("Should reject a missing file", func(t *testing.T) {
		_, err := New(afero.NewMemMapFs(), 2).Load("absent.csv")

		require.Error(t, err)
	})

	t.Run("Should reject a file that starts at the turnaround", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		// displacement increases from row one, so the approach is one sample
		content := "1e-8,0\n2e-8,0\n3e-8,0\n4e-8,0\n"
		writeFile(t, fs, "backwards.csv", content)

		_, err := New(fs, 3).Load("backwards.csv")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "approach sweep")
	})
}

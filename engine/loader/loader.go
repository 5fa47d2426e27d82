// Package loader reads force curves from two-column CSV files. Parsing is
// deliberately tolerant: instrument exports differ in delimiters and carry
// header lines, so any row that does not parse as two numbers is skipped.
package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
)

// Cycle is one loaded indentation cycle. Retract is nil when the file holds
// only the approach sweep.
type Cycle struct {
	Source   string
	Approach curve.RawCurve
	Retract  *curve.RawCurve
}

// Loader reads curves from a filesystem. The zero value is not usable; build
// it with New.
type Loader struct {
	fs afero.Fs
	// MinSamples rejects files too short to analyze; callers usually set it
	// to twice the smoothing window. Values below 2 behave as 2.
	MinSamples int
}

// New returns a Loader over the given filesystem. A nil fs means the OS
// filesystem.
func New(fs afero.Fs, minSamples int) Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return Loader{fs: fs, MinSamples: minSamples}
}

// Load reads one CSV file as a full cycle. Displacement must decrease during
// the approach; the cycle is split at the displacement minimum, and the part
// beyond it becomes the retract sweep when it is long enough to matter.
func (l Loader) Load(path string) (*Cycle, error) {
	raw, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	displacement, force := parseColumns(string(raw))
	minSamples := l.MinSamples
	if minSamples < 2 {
		minSamples = 2
	}
	if len(displacement) < minSamples {
		return nil, fmt.Errorf("%s: %d usable rows, need at least %d", path, len(displacement), minSamples)
	}

	turn := turnaround(displacement)
	if turn < minSamples-1 {
		return nil, fmt.Errorf("%s: approach sweep has %d rows, need at least %d", path, turn+1, minSamples)
	}

	approach, err := curve.NewRawCurve(displacement[:turn+1], force[:turn+1])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cy := &Cycle{Source: path, Approach: approach}

	// the retract sweep shares the turnaround sample
	if len(displacement)-turn >= minSamples {
		retract, err := curve.NewRawCurve(displacement[turn:], force[turn:])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cy.Retract = &retract
	}
	return cy, nil
}

// parseColumns extracts the first two numeric columns, skipping headers and
// malformed rows. Commas, semicolons and whitespace all delimit.
func parseColumns(raw string) (displacement, force []float64) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	displacement = make([]float64, 0, len(lines))
	force = make([]float64, 0, len(lines))
	replacer := strings.NewReplacer(",", " ", ";", " ", "\t", " ")

	for _, line := range lines {
		fields := strings.Fields(replacer.Replace(line))
		if len(fields) < 2 {
			continue
		}
		z, err1 := strconv.ParseFloat(fields[0], 64)
		f, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 == nil && err2 == nil {
			displacement = append(displacement, z)
			force = append(force, f)
		}
	}
	return displacement, force
}

// turnaround returns the index of the deepest sample, the last one of the
// approach sweep. Ties resolve to the first occurrence so a flat dwell
// segment lands on the retract side.
func turnaround(displacement []float64) int {
	turn := 0
	for i, z := range displacement {
		if z < displacement[turn] {
			turn = i
		}
	}
	return turn
}

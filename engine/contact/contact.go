// Package contact locates the first mechanical contact in a baseline-
// corrected force curve.
package contact

import (
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/core"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
)

// Detector scans the corrected force sequence for the first sample where
// the force exceeds Threshold times the tail noise sigma and stays above it
// for Run consecutive samples. The run-length requirement suppresses
// single-sample spikes that would otherwise produce a silently wrong
// contact point.
type Detector struct {
	// Threshold is the noise-sigma multiplier.
	Threshold float64
	// Run is the number of consecutive samples required above threshold.
	Run int
}

func New(threshold float64, run int) Detector {
	return Detector{Threshold: threshold, Run: run}
}

// Detect returns the contact point, or NoContactFoundError when no
// sustained crossing exists anywhere in the sequence.
func (d Detector) Detect(pc curve.ProcessedCurve) (curve.ContactPoint, error) {
	limit := d.Threshold * pc.TailSigma
	force := pc.Corrected
	n := len(force)

	run := 0
	for i := 0; i < n; i++ {
		if force[i] > limit {
			run++
			if run >= d.Run {
				idx := i - d.Run + 1
				return curve.ContactPoint{Index: idx, Z0: pc.Raw.Displacement[idx]}, nil
			}
		} else {
			run = 0
		}
	}
	return curve.ContactPoint{}, core.NewNoContactFoundError(d.Threshold, pc.TailSigma, d.Run)
}

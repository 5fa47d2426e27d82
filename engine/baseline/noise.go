package baseline

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// NoiseDiagnostic summarizes the power spectrum of the tail residuals.
// White instrument noise shows a flat spectrum; a dominant bin points at
// periodic interference (mains pickup, piezo resonance) that smoothing
// alone will not remove.
type NoiseDiagnostic struct {
	// DominantBin is the non-DC frequency bin with the most power, as a
	// fraction of the Nyquist range in [0, 1].
	DominantBin float64 `json:"dominant_bin"`
	// DominantFraction is the share of total non-DC power in that bin.
	DominantFraction float64 `json:"dominant_fraction"`
	// Flatness is the spectral flatness (geometric over arithmetic mean of
	// the non-DC power bins), 1 for white noise, near 0 for a pure tone.
	Flatness float64 `json:"flatness"`
}

// minNoiseSamples is the smallest tail worth a spectrum estimate.
const minNoiseSamples = 16

// DiagnoseNoise computes a NoiseDiagnostic from tail residuals, or nil when
// the tail is too short to say anything.
func DiagnoseNoise(residuals []float64) *NoiseDiagnostic {
	n := len(residuals)
	if n < minNoiseSamples {
		return nil
	}

	spectrum := fft.FFTReal(residuals)
	halfN := n/2 + 1

	power := make([]float64, 0, halfN-1)
	total := 0.0
	maxPower := 0.0
	maxBin := 0
	for i := 1; i < halfN; i++ {
		p := cmplx.Abs(spectrum[i])
		p *= p
		power = append(power, p)
		total += p
		if p > maxPower {
			maxPower = p
			maxBin = i
		}
	}
	if total == 0 {
		return &NoiseDiagnostic{Flatness: 1}
	}

	logSum := 0.0
	for _, p := range power {
		logSum += math.Log(p + 1e-300)
	}
	geoMean := math.Exp(logSum / float64(len(power)))
	ariMean := total / float64(len(power))

	return &NoiseDiagnostic{
		DominantBin:      float64(maxBin) / float64(halfN-1),
		DominantFraction: maxPower / total,
		Flatness:         geoMean / ariMean,
	}
}

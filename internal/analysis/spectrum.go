// Package analysis extracts frequency content from evolution records,
// chiefly Rabi oscillation rates from population time series.
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/qpulse/internal/quantum"
)

// Spectrum holds the one-sided power spectrum of a uniformly sampled
// series: Freqs[i] in cycles per time unit with Power[i] its magnitude.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum transforms a real series sampled at interval dt. The DC
// bin is kept; the caller can skip index 0 when hunting oscillations.
func PowerSpectrum(series []float64, dt float64) Spectrum {
	bins := fft.FFTReal(series)
	n := len(series)
	half := n/2 + 1

	s := Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for i := 0; i < half; i++ {
		s.Freqs[i] = float64(i) / (float64(n) * dt)
		s.Power[i] = cmplx.Abs(bins[i])
	}
	return s
}

// SignalSpectrum samples a control envelope's magnitude at n uniform
// points over [0, T) and transforms the samples.
func SignalSpectrum(sig quantum.Signal, T float64, n int) Spectrum {
	if n < 2 || T <= 0 {
		return Spectrum{}
	}
	dt := T / float64(n)
	series := make([]float64, n)
	for i := range series {
		series[i] = cmplx.Abs(sig.Evaluate(float64(i) * dt))
	}
	return PowerSpectrum(series, dt)
}

// Dominant returns the frequency of the strongest non-DC bin, or 0 for a
// series too short to carry one.
func (s Spectrum) Dominant() float64 {
	best, peak := 0, 0.0
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > peak {
			best, peak = i, s.Power[i]
		}
	}
	if best == 0 {
		return 0
	}
	return s.Freqs[best]
}

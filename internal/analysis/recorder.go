package analysis

import (
	"github.com/san-kum/qpulse/internal/quantum"
)

// Recorder captures the population of a single product-state index after
// every evolution step, ready for spectral analysis.
type Recorder struct {
	Index  int
	Times  []float64
	Series []float64
}

func NewRecorder(index int) *Recorder {
	return &Recorder{Index: index}
}

// Observe appends the population at the recorder's index. It satisfies
// the evolution observer signature.
func (r *Recorder) Observe(step int, t float64, psi quantum.State) {
	if r.Index >= len(psi) {
		return
	}
	v := psi[r.Index]
	r.Times = append(r.Times, t)
	r.Series = append(r.Series, real(v)*real(v)+imag(v)*imag(v))
}

// Spectrum analyzes the recorded series. It needs at least two samples
// to recover the sampling interval.
func (r *Recorder) Spectrum() Spectrum {
	if len(r.Times) < 2 {
		return Spectrum{}
	}
	dt := r.Times[1] - r.Times[0]
	return PowerSpectrum(r.Series, dt)
}

func (r *Recorder) Reset() {
	r.Times = r.Times[:0]
	r.Series = r.Series[:0]
}

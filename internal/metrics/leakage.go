package metrics

import (
	"math"

	"github.com/san-kum/qpulse/internal/algebra"
	"github.com/san-kum/qpulse/internal/quantum"
)

// Leakage tracks the peak population outside the computational subspace:
// the total probability of product states where any qubit occupies level
// 2 or above.
type Leakage struct {
	name    string
	strides []int
	levels  []int
	max     float64
}

func NewLeakage(levels []int) *Leakage {
	return &Leakage{
		name:    "leakage",
		strides: algebra.Strides(levels),
		levels:  append([]int(nil), levels...),
	}
}

func (l *Leakage) Name() string { return l.name }

func (l *Leakage) Observe(step int, t float64, psi quantum.State) {
	leaked := 0.0
	for idx, v := range psi {
		if l.outside(idx) {
			leaked += real(v)*real(v) + imag(v)*imag(v)
		}
	}
	l.max = math.Max(l.max, leaked)
}

func (l *Leakage) outside(idx int) bool {
	for q, s := range l.strides {
		if (idx/s)%l.levels[q] >= 2 {
			return true
		}
	}
	return false
}

func (l *Leakage) Value() float64 { return l.max }

func (l *Leakage) Reset() { l.max = 0 }

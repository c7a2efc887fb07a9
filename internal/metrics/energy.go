package metrics

import (
	"math"

	"github.com/san-kum/qpulse/internal/linalg"
	"github.com/san-kum/qpulse/internal/quantum"
)

// Energy averages the expectation of a fixed Hermitian operator over the
// observed steps. The operator must be expressed in the same basis as
// the states handed to Observe.
type Energy struct {
	name    string
	op      linalg.Matrix
	sum     float64
	samples int
}

func NewEnergy(op linalg.Matrix) *Energy {
	return &Energy{name: "energy", op: op}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(step int, t float64, psi quantum.State) {
	if e.op.N != len(psi) {
		return
	}
	e.sum += real(psi.Dot(quantum.State(e.op.MulVec(psi))))
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Energy) Reset() {
	e.sum = 0
	e.samples = 0
}

// NormDrift tracks the worst deviation of the state norm from unity, a
// direct readout of accumulated propagator rounding.
type NormDrift struct {
	name     string
	maxDrift float64
}

func NewNormDrift() *NormDrift {
	return &NormDrift{name: "norm_drift"}
}

func (n *NormDrift) Name() string { return n.name }

func (n *NormDrift) Observe(step int, t float64, psi quantum.State) {
	drift := math.Abs(psi.Norm() - 1)
	n.maxDrift = math.Max(n.maxDrift, drift)
}

func (n *NormDrift) Value() float64 { return n.maxDrift }

func (n *NormDrift) Reset() { n.maxDrift = 0 }

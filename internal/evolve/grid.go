// Package evolve advances quantum states across a fixed time grid with
// symmetric Trotter splitting and computes analytic gradient signals for
// all control parameters in a single backward pass.
package evolve

import "fmt"

// Grid is the trapezoidal time discretization of a total duration T into
// r equal steps: step size τ, quadrature weights τ̄ (τ/2 at the two
// endpoints, τ inside), and the r+1 grid times t̄. A negative T reverses
// the time axis through the sign of τ; there is no separate code path.
type Grid struct {
	Tau     float64
	Weights []float64
	Times   []float64
}

func NewGrid(T float64, r int) (Grid, error) {
	if r < 1 {
		return Grid{}, fmt.Errorf("evolve: step count %d < 1", r)
	}
	if T == 0 {
		return Grid{}, fmt.Errorf("evolve: zero duration")
	}

	tau := T / float64(r)
	g := Grid{
		Tau:     tau,
		Weights: make([]float64, r+1),
		Times:   make([]float64, r+1),
	}
	for i := 0; i <= r; i++ {
		g.Weights[i] = tau
		g.Times[i] = tau * float64(i)
	}
	g.Weights[0] /= 2
	g.Weights[r] /= 2
	return g, nil
}

// Steps returns the number of Trotter steps r.
func (g Grid) Steps() int { return len(g.Times) - 1 }

// Index maps a grid time back to its index. Times are generated from the
// grid itself, so rounding recovers the exact index.
func (g Grid) Index(t float64) int {
	i := int((t-g.Times[0])/g.Tau + 0.5)
	if i < 0 {
		return 0
	}
	if i > g.Steps() {
		return g.Steps()
	}
	return i
}

// Package optim tunes control parameters against a final-state objective
// using the analytic adjoint gradient.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/qpulse/internal/basis"
	"github.com/san-kum/qpulse/internal/device"
	"github.com/san-kum/qpulse/internal/evolve"
	"github.com/san-kum/qpulse/internal/linalg"
	"github.com/san-kum/qpulse/internal/quantum"
)

// Descent minimizes ⟨ψ(T)|O|ψ(T)⟩ over every bound parameter of the
// device, including carrier frequencies, by plain gradient descent with
// backtracking. Flip the sign of O to maximize an expectation.
type Descent struct {
	Rate       float64 // initial step size
	Iterations int
	Tolerance  float64 // stop when the gradient norm falls below this
}

func NewDescent() *Descent {
	return &Descent{Rate: 0.1, Iterations: 100, Tolerance: 1e-6}
}

// Trace records one accepted descent step.
type Trace struct {
	Iteration int
	Value     float64
	GradNorm  float64
}

// Run descends from the device's current binding and leaves the best
// parameters bound. The returned traces hold one entry per iteration.
func (d *Descent) Run(ctx context.Context, dev *device.Transmon, tr *evolve.Trotter,
	b basis.Basis, T float64, r int, psi0 quantum.State, objective linalg.Matrix) ([]Trace, error) {

	value := func() (float64, error) {
		psi, err := tr.Evolve(b, T, r, psi0)
		if err != nil {
			return 0, err
		}
		return real(psi.Dot(quantum.State(objective.MulVec(psi)))), nil
	}

	params := dev.Values()
	current, err := value()
	if err != nil {
		return nil, err
	}

	traces := make([]Trace, 0, d.Iterations)
	rate := d.Rate
	for iter := 0; iter < d.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return traces, err
		}

		grad, err := tr.Gradient(b, T, r, psi0, objective)
		if err != nil {
			return traces, err
		}
		norm := 0.0
		for _, g := range grad {
			norm += g * g
		}
		norm = math.Sqrt(norm)

		traces = append(traces, Trace{Iteration: iter, Value: current, GradNorm: norm})
		if norm < d.Tolerance {
			break
		}

		accepted := false
		for try := 0; try < 20; try++ {
			next := make([]float64, len(params))
			for i := range params {
				next[i] = params[i] - rate*grad[i]
			}
			if err := dev.Bind(next); err != nil {
				return traces, err
			}
			trial, err := value()
			if err != nil {
				return traces, err
			}
			if trial < current {
				params, current = next, trial
				rate *= 1.2
				accepted = true
				break
			}
			rate /= 2
		}
		if !accepted {
			// Re-bind the best point and stop: the step shrank to nothing.
			if err := dev.Bind(params); err != nil {
				return traces, err
			}
			break
		}
	}

	if err := dev.Bind(params); err != nil {
		return traces, err
	}
	if len(traces) == 0 {
		return traces, fmt.Errorf("optim: no iterations ran")
	}
	return traces, nil
}

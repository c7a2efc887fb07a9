package evolve

import (
	"github.com/san-kum/qpulse/internal/basis"
	"github.com/san-kum/qpulse/internal/operator"
	"github.com/san-kum/qpulse/internal/propagate"
	"github.com/san-kum/qpulse/internal/quantum"
)

// Trotter advances states with the symmetric (Strang) splitting: each
// step applies a half-step drive propagator at the left grid time, a
// full-step static propagator, and a half-step drive propagator at the
// right grid time. The splitting is second-order accurate in τ and keeps
// drive operators evaluated at grid points.
//
// Work happens in the occupation basis; the caller's basis is converted
// once at entry and exit. Observers see the working-basis state.
type Trotter struct {
	engine    *propagate.Engine
	observers []quantum.Observer
}

func NewTrotter(engine *propagate.Engine) *Trotter {
	return &Trotter{engine: engine}
}

func (tr *Trotter) Engine() *propagate.Engine { return tr.engine }

// AddObserver registers a per-step callback. Observers must not mutate
// the state they are handed.
func (tr *Trotter) AddObserver(o quantum.Observer) {
	tr.observers = append(tr.observers, o)
}

func (tr *Trotter) notify(step int, t float64, psi quantum.State) {
	for _, o := range tr.observers {
		o(step, t, psi)
	}
}

// Evolve returns ψ(T) given ψ0 expressed in basis b.
func (tr *Trotter) Evolve(b basis.Basis, T float64, r int, psi0 quantum.State) (quantum.State, error) {
	psi := psi0.Clone()
	if err := tr.EvolveInPlace(b, T, r, psi); err != nil {
		return nil, err
	}
	return psi, nil
}

// EvolveInPlace advances ψ across the full grid, mutating it.
func (tr *Trotter) EvolveInPlace(b basis.Basis, T float64, r int, psi quantum.State) error {
	grid, err := NewGrid(T, r)
	if err != nil {
		return err
	}

	frame := tr.engine.Frame()
	work, err := frame.RotateState(basis.Occupation, b, psi)
	if err != nil {
		return err
	}

	if err := tr.sweep(grid, work); err != nil {
		return err
	}

	out, err := frame.RotateState(b, basis.Occupation, work)
	if err != nil {
		return err
	}
	copy(psi, out)
	return nil
}

// sweep runs the splitting forward over every step of the grid.
func (tr *Trotter) sweep(grid Grid, psi quantum.State) error {
	for i := 0; i < grid.Steps(); i++ {
		if err := step(tr.engine, grid.Times[i], grid.Times[i+1], grid.Tau, psi); err != nil {
			return err
		}
		tr.notify(i, grid.Times[i+1], psi)
	}
	return nil
}

// step applies one symmetric split from the grid time `left` to `right`:
// half drive at left, full static, half drive at right. Passing the times
// swapped with a negated τ applies the exact inverse.
func step(engine *propagate.Engine, left, right, tau float64, psi quantum.State) error {
	if err := engine.Propagate(operator.DriveTerm(left), basis.Occupation, tau/2, psi); err != nil {
		return err
	}
	if err := engine.Propagate(operator.StaticTerm(), basis.Occupation, tau, psi); err != nil {
		return err
	}
	return engine.Propagate(operator.DriveTerm(right), basis.Occupation, tau/2, psi)
}

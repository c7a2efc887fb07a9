package evolve

import (
	"fmt"

	"github.com/san-kum/qpulse/internal/basis"
	"github.com/san-kum/qpulse/internal/linalg"
	"github.com/san-kum/qpulse/internal/quantum"
)

// Signals holds the gradient-signal array φ produced by one backward
// pass: Phi[i][j][k] is the signal at grid point i for gradient generator
// (grade) j and observable k. Grades pair up two per drive channel, the
// real quadrature on even indices and the imaginary on odd.
type Signals struct {
	Grid Grid
	Phi  [][][]float64
}

// Quadratures returns the φ series of channel c for observable k folded
// into one complex series, real quadrature in the real part.
func (s *Signals) Quadratures(c, k int) []complex128 {
	out := make([]complex128, len(s.Phi))
	for i := range s.Phi {
		out[i] = complex(s.Phi[i][2*c][k], s.Phi[i][2*c+1][k])
	}
	return out
}

// GradientSignals runs the forward evolution once and a single backward
// co-state pass, producing gradient signals for every control parameter
// and every observable at once: one forward plus one backward evolution
// regardless of parameter count.
//
// The co-state of observable k starts at λ_k(T) = O_k·ψ(T), which keeps
// ⟨λ_k(t)|ψ(t)⟩ equal to the final expectation at every grid time. ψ and
// all λ_k step backward through the same symmetric splitting as the
// forward pass, with the duration sign reversed, and stay synchronized at
// every stage. Each recorded entry is φ = −i⟨λ|A_j|ψ⟩ + i⟨λ|A_j|ψ⟩*, the
// derivative of ⟨O_k⟩ with respect to the coefficient of generator A_j at
// that grid time.
//
// ψ0 and the observables are expressed in basis b; gradient generators
// live in the occupation basis, so everything is rotated there once
// before the backward pass. The observer, when non-nil, is invoked after
// each backward step, before that grid point's signals are recorded.
func (tr *Trotter) GradientSignals(b basis.Basis, T float64, r int, psi0 quantum.State,
	observables []linalg.Matrix, observer quantum.Observer) (*Signals, error) {

	if len(observables) == 0 {
		return nil, fmt.Errorf("evolve: no observables")
	}
	for k, o := range observables {
		if o.N != len(psi0) {
			return nil, fmt.Errorf("evolve: observable %d has dim %d, state has %d: %w",
				k, o.N, len(psi0), quantum.ErrDimensionMismatch)
		}
	}
	grid, err := NewGrid(T, r)
	if err != nil {
		return nil, err
	}

	psiT, err := tr.Evolve(b, T, r, psi0)
	if err != nil {
		return nil, err
	}

	frame := tr.engine.Frame()
	psi, err := frame.RotateState(basis.Occupation, b, psiT)
	if err != nil {
		return nil, err
	}
	lambdas := make([]quantum.State, len(observables))
	for k, o := range observables {
		lam := quantum.State(o.MulVec(psiT))
		if lambdas[k], err = frame.RotateState(basis.Occupation, b, lam); err != nil {
			return nil, err
		}
	}

	table := tr.engine.Frame().Table()
	grades := table.Grades()
	sig := &Signals{Grid: grid, Phi: make([][][]float64, r+1)}
	for i := range sig.Phi {
		sig.Phi[i] = make([][]float64, grades)
		for j := range sig.Phi[i] {
			sig.Phi[i][j] = make([]float64, len(observables))
		}
	}

	record := func(i int) error {
		t := grid.Times[i]
		buf := make(quantum.State, len(psi))
		for j := 0; j < grades; j++ {
			local, q, err := table.LocalGradient(j, t)
			if err != nil {
				return err
			}
			copy(buf, psi)
			if err := tr.engine.MulLocal(local, q, buf); err != nil {
				return err
			}
			for k := range lambdas {
				w := lambdas[k].Dot(buf)
				sig.Phi[i][j][k] = 2 * imag(w)
			}
		}
		return nil
	}

	if err := record(r); err != nil {
		return nil, err
	}
	for i := r - 1; i >= 0; i-- {
		// Inverse splitting from t̄[i+1] down to t̄[i].
		if err := step(tr.engine, grid.Times[i+1], grid.Times[i], -grid.Tau, psi); err != nil {
			return nil, err
		}
		for k := range lambdas {
			if err := step(tr.engine, grid.Times[i+1], grid.Times[i], -grid.Tau, lambdas[k]); err != nil {
				return nil, err
			}
		}
		if observer != nil {
			observer(i, grid.Times[i], psi)
		}
		if err := record(i); err != nil {
			return nil, err
		}
	}
	return sig, nil
}

// Gradient folds the gradient signals of a single observable through each
// channel signal's quadrature integration, producing the full parameter
// gradient in the device's canonical order: signal parameters channel by
// channel, then one carrier frequency per channel.
//
// The frequency derivative is the closed-form time-weighted integral of
// the envelope against the channel's quadrature pair.
func (tr *Trotter) Gradient(b basis.Basis, T float64, r int, psi0 quantum.State,
	observable linalg.Matrix) ([]float64, error) {

	sig, err := tr.GradientSignals(b, T, r, psi0, []linalg.Matrix{observable}, nil)
	if err != nil {
		return nil, err
	}

	dev := tr.engine.Frame().Table().Device()
	grid := sig.Grid
	grads := make([]float64, 0, dev.Count())
	freqGrads := make([]float64, 0, len(dev.Channels()))

	for c, ch := range dev.Channels() {
		quad := sig.Quadratures(c, 0)
		mod := func(t float64) complex128 {
			return quad[grid.Index(t)]
		}
		grads = append(grads, ch.Signal.IntegratePartials(grid.Weights, grid.Times, mod)...)

		// d⟨O⟩/dν = Σ_i τ̄_i·t̄_i·Im(conj(Ω)·(φ_α+iφ_β)), expressed through
		// the Re-convention integral by folding −i·t into the modulation.
		freqGrads = append(freqGrads, ch.Signal.IntegrateSignal(grid.Weights, grid.Times,
			func(t float64) complex128 {
				return complex(0, -t) * quad[grid.Index(t)]
			}))
	}
	return append(grads, freqGrads...), nil
}

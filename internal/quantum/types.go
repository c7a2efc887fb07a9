package quantum

import (
	"math"
	"math/cmplx"
)

type State []complex128

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}

func (s State) Normalize() State {
	n := s.Norm()
	if n == 0 {
		return s
	}
	inv := complex(1/n, 0)
	for i := range s {
		s[i] *= inv
	}
	return s
}

// Dot returns ⟨s|other⟩, conjugating the receiver.
func (s State) Dot(other State) complex128 {
	var sum complex128
	for i := range s {
		sum += cmplx.Conj(s[i]) * other[i]
	}
	return sum
}

// Ground returns the |0...0⟩ state of dimension n.
func Ground(n int) State {
	s := make(State, n)
	s[0] = 1
	return s
}

// Signal is a parameterized complex control envelope Ω(t).
//
// Count, Names, Values, and Bind expose the free parameters in a fixed
// order; Bind must consume exactly Count values. The two integration
// methods accumulate against the trapezoidal weights τ̄ at grid points t̄,
// so signal gradients share the quadrature of the evolution that produced
// the modulation series.
type Signal interface {
	Count() int
	Names() []string
	Values() []float64
	Bind(values []float64) error

	Evaluate(t float64) complex128

	// IntegratePartials returns, for each parameter p, the quadrature sum
	// Σ_i τ̄_i · Re(conj(mod(t̄_i)) · ∂Ω/∂p(t̄_i)).
	IntegratePartials(taubar, tbar []float64, mod func(t float64) complex128) []float64

	// IntegrateSignal returns the scalar Σ_i τ̄_i · Re(conj(Ω(t̄_i)) · mod(t̄_i)).
	IntegrateSignal(taubar, tbar []float64, mod func(t float64) complex128) float64
}

// Observer receives (step index, time, state) after each completed
// evolution step. It must not mutate the state or alter control flow.
type Observer func(step int, t float64, psi State)

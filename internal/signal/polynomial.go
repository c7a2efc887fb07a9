package signal

import (
	"fmt"
	"math"

	"github.com/san-kum/qpulse/internal/quantum"
)

// Polynomial is a real envelope Ω(t) = Σ c_k t^k.
type Polynomial struct {
	Coeffs []float64
}

func NewPolynomial(coeffs []float64) *Polynomial {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return &Polynomial{Coeffs: c}
}

func (p *Polynomial) Count() int { return len(p.Coeffs) }

func (p *Polynomial) Names() []string {
	names := make([]string, len(p.Coeffs))
	for k := range names {
		names[k] = fmt.Sprintf("c%d", k)
	}
	return names
}

func (p *Polynomial) Values() []float64 {
	v := make([]float64, len(p.Coeffs))
	copy(v, p.Coeffs)
	return v
}

func (p *Polynomial) Bind(values []float64) error {
	if len(values) != len(p.Coeffs) {
		return fmt.Errorf("%w: got %d, want %d", quantum.ErrBadParameterCount, len(values), len(p.Coeffs))
	}
	copy(p.Coeffs, values)
	return nil
}

func (p *Polynomial) Evaluate(t float64) complex128 {
	// Horner evaluation.
	sum := 0.0
	for k := len(p.Coeffs) - 1; k >= 0; k-- {
		sum = sum*t + p.Coeffs[k]
	}
	return complex(sum, 0)
}

func (p *Polynomial) IntegratePartials(taubar, tbar []float64, mod func(float64) complex128) []float64 {
	return quadrature(len(p.Coeffs), taubar, tbar, mod, func(k int, t float64) complex128 {
		return complex(math.Pow(t, float64(k)), 0)
	})
}

func (p *Polynomial) IntegrateSignal(taubar, tbar []float64, mod func(float64) complex128) float64 {
	return quadratureSignal(taubar, tbar, mod, p.Evaluate)
}

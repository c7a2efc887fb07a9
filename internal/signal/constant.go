package signal

import (
	"fmt"

	"github.com/san-kum/qpulse/internal/quantum"
)

// Constant is a complex envelope with no time dependence.
type Constant struct {
	Re, Im float64
}

func NewConstant(re, im float64) *Constant {
	return &Constant{Re: re, Im: im}
}

func (c *Constant) Count() int { return 2 }

func (c *Constant) Names() []string { return []string{"re_amp", "im_amp"} }

func (c *Constant) Values() []float64 { return []float64{c.Re, c.Im} }

func (c *Constant) Bind(values []float64) error {
	if len(values) != 2 {
		return fmt.Errorf("%w: got %d, want 2", quantum.ErrBadParameterCount, len(values))
	}
	c.Re, c.Im = values[0], values[1]
	return nil
}

func (c *Constant) Evaluate(t float64) complex128 {
	return complex(c.Re, c.Im)
}

func (c *Constant) IntegratePartials(taubar, tbar []float64, mod func(float64) complex128) []float64 {
	return quadrature(2, taubar, tbar, mod, func(k int, t float64) complex128 {
		if k == 0 {
			return 1
		}
		return 1i
	})
}

func (c *Constant) IntegrateSignal(taubar, tbar []float64, mod func(float64) complex128) float64 {
	return quadratureSignal(taubar, tbar, mod, c.Evaluate)
}

package signal

import (
	"fmt"

	"github.com/san-kum/qpulse/internal/quantum"
)

// Windowed is a piecewise-constant complex envelope over uniform windows
// spanning [0, Duration). Times outside the span evaluate to the nearest
// window.
type Windowed struct {
	Duration float64
	Re, Im   []float64
}

func NewWindowed(duration float64, windows int) *Windowed {
	return &Windowed{
		Duration: duration,
		Re:       make([]float64, windows),
		Im:       make([]float64, windows),
	}
}

func (w *Windowed) windows() int { return len(w.Re) }

func (w *Windowed) window(t float64) int {
	n := w.windows()
	i := int(t / w.Duration * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (w *Windowed) Count() int { return 2 * w.windows() }

func (w *Windowed) Names() []string {
	names := make([]string, 0, w.Count())
	for i := 0; i < w.windows(); i++ {
		names = append(names, fmt.Sprintf("w%d_re", i), fmt.Sprintf("w%d_im", i))
	}
	return names
}

func (w *Windowed) Values() []float64 {
	v := make([]float64, 0, w.Count())
	for i := 0; i < w.windows(); i++ {
		v = append(v, w.Re[i], w.Im[i])
	}
	return v
}

func (w *Windowed) Bind(values []float64) error {
	if len(values) != w.Count() {
		return fmt.Errorf("%w: got %d, want %d", quantum.ErrBadParameterCount, len(values), w.Count())
	}
	for i := 0; i < w.windows(); i++ {
		w.Re[i] = values[2*i]
		w.Im[i] = values[2*i+1]
	}
	return nil
}

func (w *Windowed) Evaluate(t float64) complex128 {
	i := w.window(t)
	return complex(w.Re[i], w.Im[i])
}

func (w *Windowed) IntegratePartials(taubar, tbar []float64, mod func(float64) complex128) []float64 {
	return quadrature(w.Count(), taubar, tbar, mod, func(k int, t float64) complex128 {
		if k/2 != w.window(t) {
			return 0
		}
		if k%2 == 0 {
			return 1
		}
		return 1i
	})
}

func (w *Windowed) IntegrateSignal(taubar, tbar []float64, mod func(float64) complex128) float64 {
	return quadratureSignal(taubar, tbar, mod, w.Evaluate)
}

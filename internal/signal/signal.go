package signal

import (
	"math/cmplx"
)

// quadrature folds a modulation series against per-parameter envelope
// partials under the trapezoidal weights τ̄.
func quadrature(count int, taubar, tbar []float64, mod func(float64) complex128,
	partial func(k int, t float64) complex128) []float64 {

	grads := make([]float64, count)
	for i, t := range tbar {
		m := cmplx.Conj(mod(t))
		for k := 0; k < count; k++ {
			grads[k] += taubar[i] * real(m*partial(k, t))
		}
	}
	return grads
}

func quadratureSignal(taubar, tbar []float64, mod, eval func(float64) complex128) float64 {
	sum := 0.0
	for i, t := range tbar {
		sum += taubar[i] * real(cmplx.Conj(eval(t))*mod(t))
	}
	return sum
}

package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/qpulse/internal/quantum"
)

func uniformGrid(T float64, r int) (taubar, tbar []float64) {
	tau := T / float64(r)
	taubar = make([]float64, r+1)
	tbar = make([]float64, r+1)
	for i := 0; i <= r; i++ {
		taubar[i] = tau
		tbar[i] = tau * float64(i)
	}
	taubar[0] /= 2
	taubar[r] /= 2
	return taubar, tbar
}

func TestConstantBinding(t *testing.T) {
	c := NewConstant(1.5, -0.5)
	if c.Count() != 2 {
		t.Fatalf("count = %d, want 2", c.Count())
	}
	if err := c.Bind([]float64{2, 3}); err != nil {
		t.Fatal(err)
	}
	if c.Evaluate(7.0) != complex(2, 3) {
		t.Errorf("evaluate = %v, want (2+3i)", c.Evaluate(7.0))
	}
	if err := c.Bind([]float64{1}); !errors.Is(err, quantum.ErrBadParameterCount) {
		t.Errorf("expected ErrBadParameterCount, got %v", err)
	}
}

func TestPolynomialEvaluate(t *testing.T) {
	p := NewPolynomial([]float64{1, 2, 3}) // 1 + 2t + 3t²
	got := real(p.Evaluate(2))
	if math.Abs(got-17) > 1e-14 {
		t.Errorf("p(2) = %v, want 17", got)
	}
}

func TestWindowedEvaluate(t *testing.T) {
	w := NewWindowed(10, 2)
	if err := w.Bind([]float64{1, 0, 0, 2}); err != nil {
		t.Fatal(err)
	}
	if w.Evaluate(2.5) != 1 {
		t.Errorf("first window = %v, want 1", w.Evaluate(2.5))
	}
	if w.Evaluate(7.5) != 2i {
		t.Errorf("second window = %v, want 2i", w.Evaluate(7.5))
	}
	// Endpoint clamps to the last window.
	if w.Evaluate(10) != 2i {
		t.Errorf("endpoint = %v, want 2i", w.Evaluate(10))
	}
}

func TestIntegrateSignalTrapezoid(t *testing.T) {
	// ∫₀¹ t·1 dt = 1/2 with Ω ≡ 1 and mod(t) = t.
	c := NewConstant(1, 0)
	taubar, tbar := uniformGrid(1, 100)
	got := c.IntegrateSignal(taubar, tbar, func(t float64) complex128 {
		return complex(t, 0)
	})
	if math.Abs(got-0.5) > 1e-10 {
		t.Errorf("integral = %v, want 0.5", got)
	}
}

func TestIntegratePartialsQuadratures(t *testing.T) {
	// With mod ≡ 1+i the real partial integrates Re(mod), the imaginary
	// partial integrates Im(mod), each over a unit interval.
	c := NewConstant(0.3, 0.7)
	taubar, tbar := uniformGrid(1, 50)
	grads := c.IntegratePartials(taubar, tbar, func(t float64) complex128 {
		return 1 + 1i
	})
	if math.Abs(grads[0]-1) > 1e-12 {
		t.Errorf("re partial = %v, want 1", grads[0])
	}
	if math.Abs(grads[1]-1) > 1e-12 {
		t.Errorf("im partial = %v, want 1", grads[1])
	}
}

func TestPolynomialPartials(t *testing.T) {
	// ∂Ω/∂c_k = t^k, so against mod ≡ 1 the partials integrate to 1/(k+1).
	p := NewPolynomial([]float64{0, 0, 0})
	taubar, tbar := uniformGrid(1, 400)
	grads := p.IntegratePartials(taubar, tbar, func(t float64) complex128 { return 1 })
	for k, g := range grads {
		want := 1 / float64(k+1)
		if math.Abs(g-want) > 1e-4 {
			t.Errorf("partial c%d = %v, want %v", k, g, want)
		}
	}
}

func TestWindowedPartialsLocalized(t *testing.T) {
	w := NewWindowed(1, 2)
	taubar, tbar := uniformGrid(1, 200)
	grads := w.IntegratePartials(taubar, tbar, func(t float64) complex128 { return 1 })
	// Each window's real partial covers half the interval.
	if math.Abs(grads[0]-0.5) > 1e-2 || math.Abs(grads[2]-0.5) > 1e-2 {
		t.Errorf("window partials = %v, want ≈0.5 each", []float64{grads[0], grads[2]})
	}
	// mod ≡ 1 has no imaginary part, so imaginary partials vanish.
	if grads[1] != 0 || grads[3] != 0 {
		t.Errorf("imaginary partials = %v %v, want 0", grads[1], grads[3])
	}
}

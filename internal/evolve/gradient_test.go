package evolve

import (
	"math"
	"testing"

	"github.com/san-kum/qpulse/internal/algebra"
	"github.com/san-kum/qpulse/internal/basis"
	"github.com/san-kum/qpulse/internal/device"
	"github.com/san-kum/qpulse/internal/linalg"
	"github.com/san-kum/qpulse/internal/operator"
	"github.com/san-kum/qpulse/internal/propagate"
	"github.com/san-kum/qpulse/internal/quantum"
	"github.com/san-kum/qpulse/internal/signal"
)

func expectation(o linalg.Matrix, psi quantum.State) float64 {
	return real(psi.Dot(quantum.State(o.MulVec(psi))))
}

func numberObservable(dev *device.Transmon, q int) linalg.Matrix {
	return algebra.Globalize(algebra.Number(dev.Levels()), q, dev.LevelCounts())
}

func TestGradientSignalsShape(t *testing.T) {
	dev, tr := newDrivenPair(t)
	obs := []linalg.Matrix{numberObservable(dev, 0), numberObservable(dev, 1)}

	sig, err := tr.GradientSignals(basis.Occupation, 2.0, 10, quantum.Ground(dev.NStates()), obs, nil)
	if err != nil {
		t.Fatalf("GradientSignals: %v", err)
	}
	if len(sig.Phi) != 11 {
		t.Fatalf("got %d grid points, want 11", len(sig.Phi))
	}
	grades := 2 * len(dev.Channels())
	for i := range sig.Phi {
		if len(sig.Phi[i]) != grades {
			t.Fatalf("point %d has %d grades, want %d", i, len(sig.Phi[i]), grades)
		}
		for j := range sig.Phi[i] {
			if len(sig.Phi[i][j]) != 2 {
				t.Fatalf("point %d grade %d has %d entries, want 2", i, j, len(sig.Phi[i][j]))
			}
		}
	}
	quad := sig.Quadratures(0, 1)
	if len(quad) != 11 {
		t.Fatalf("Quadratures length %d, want 11", len(quad))
	}
	for i := range quad {
		if real(quad[i]) != sig.Phi[i][0][1] || imag(quad[i]) != sig.Phi[i][1][1] {
			t.Errorf("Quadratures[%d] does not fold grades 0 and 1", i)
		}
	}
}

func TestGradientSignalsRecoverInitialState(t *testing.T) {
	// The backward pass undoes the forward splitting step by step, so the
	// state handed to the observer at the first grid point must be the
	// initial state again.
	dev, tr := newDrivenPair(t)
	psi0 := quantum.Ground(dev.NStates())
	obs := []linalg.Matrix{numberObservable(dev, 0)}

	var at0 quantum.State
	observer := func(step int, at float64, psi quantum.State) {
		if step == 0 {
			at0 = psi.Clone()
		}
	}
	if _, err := tr.GradientSignals(basis.Occupation, 2.0, 40, psi0, obs, observer); err != nil {
		t.Fatalf("GradientSignals: %v", err)
	}
	if at0 == nil {
		t.Fatal("observer never saw step 0")
	}
	if d := stateDistance(at0, psi0); d > 1e-9 {
		t.Errorf("backward pass missed the initial state by %v", d)
	}
}

func TestGradientMatchesFiniteDifference(t *testing.T) {
	dev, tr := newSingleQubit(t, signal.NewConstant(0.3, -0.15), 4.7)
	psi0 := quantum.Ground(dev.NStates())
	obs := numberObservable(dev, 0)
	const (
		T = 1.0
		r = 256
		h = 1e-4
	)

	grad, err := tr.Gradient(basis.Occupation, T, r, psi0, obs)
	if err != nil {
		t.Fatalf("Gradient: %v", err)
	}
	if len(grad) != dev.Count() {
		t.Fatalf("gradient has %d entries, want %d", len(grad), dev.Count())
	}

	vals := dev.Values()
	energy := func(v []float64) float64 {
		if err := dev.Bind(v); err != nil {
			t.Fatalf("Bind: %v", err)
		}
		psi, err := tr.Evolve(basis.Occupation, T, r, psi0)
		if err != nil {
			t.Fatalf("Evolve: %v", err)
		}
		return expectation(obs, psi)
	}
	names := dev.Names()
	for p := range vals {
		up := append([]float64(nil), vals...)
		dn := append([]float64(nil), vals...)
		up[p] += h
		dn[p] -= h
		fd := (energy(up) - energy(dn)) / (2 * h)
		if d := math.Abs(grad[p] - fd); d > 5e-3+5e-2*math.Abs(fd) {
			t.Errorf("%s: adjoint %v vs finite difference %v", names[p], grad[p], fd)
		}
	}
	if err := dev.Bind(vals); err != nil {
		t.Fatalf("Bind: %v", err)
	}
}

func TestGradientWindowedFiniteDifference(t *testing.T) {
	const (
		T = 1.0
		r = 256
		h = 1e-4
	)
	sig := signal.NewWindowed(T, 2)
	if err := sig.Bind([]float64{0.4, 0.0, -0.1, 0.25}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	dev, tr := newSingleQubit(t, sig, 4.9)
	psi0 := quantum.Ground(dev.NStates())
	obs := numberObservable(dev, 0)

	grad, err := tr.Gradient(basis.Occupation, T, r, psi0, obs)
	if err != nil {
		t.Fatalf("Gradient: %v", err)
	}

	vals := dev.Values()
	energy := func(v []float64) float64 {
		if err := dev.Bind(v); err != nil {
			t.Fatalf("Bind: %v", err)
		}
		psi, err := tr.Evolve(basis.Occupation, T, r, psi0)
		if err != nil {
			t.Fatalf("Evolve: %v", err)
		}
		return expectation(obs, psi)
	}
	names := dev.Names()
	for p := range vals {
		up := append([]float64(nil), vals...)
		dn := append([]float64(nil), vals...)
		up[p] += h
		dn[p] -= h
		fd := (energy(up) - energy(dn)) / (2 * h)
		if d := math.Abs(grad[p] - fd); d > 5e-3+5e-2*math.Abs(fd) {
			t.Errorf("%s: adjoint %v vs finite difference %v", names[p], grad[p], fd)
		}
	}
	if err := dev.Bind(vals); err != nil {
		t.Fatalf("Bind: %v", err)
	}
}

func TestGradientCoupledPairFiniteDifference(t *testing.T) {
	// Full end-to-end run: two qubits at three levels, one exchange
	// coupling, and an independent constant drive on each qubit. Exercises
	// the grade indices of the second channel and the canonical cross-channel
	// folding order (both channels' signal parameters, then both carriers).
	dev, err := device.NewTransmon(
		[]float64{4.8, 4.9},
		[]float64{-0.3, -0.31},
		[]device.Coupling{{Pair: device.NewQuple(0, 1), G: 0.05}},
		[]device.Channel{
			{Qubit: 0, Freq: 4.8, Signal: signal.NewConstant(0.2, 0.1)},
			{Qubit: 1, Freq: 4.9, Signal: signal.NewConstant(-0.1, 0.15)},
		},
		3,
	)
	if err != nil {
		t.Fatalf("NewTransmon: %v", err)
	}
	tr := NewTrotter(propagate.NewEngine(basis.NewFrame(operator.NewTable(dev))))
	psi0 := quantum.Ground(dev.NStates())
	obs := numberObservable(dev, 0).Add(numberObservable(dev, 1))
	const (
		T = 10.0
		r = 1000
		h = 1e-4
	)

	grad, err := tr.Gradient(basis.Occupation, T, r, psi0, obs)
	if err != nil {
		t.Fatalf("Gradient: %v", err)
	}
	if len(grad) != dev.Count() {
		t.Fatalf("gradient has %d entries, want %d", len(grad), dev.Count())
	}

	vals := dev.Values()
	energy := func(v []float64) float64 {
		if err := dev.Bind(v); err != nil {
			t.Fatalf("Bind: %v", err)
		}
		psi, err := tr.Evolve(basis.Occupation, T, r, psi0)
		if err != nil {
			t.Fatalf("Evolve: %v", err)
		}
		return expectation(obs, psi)
	}

	// The total excitation number of a bounded closed system stays inside
	// its spectrum.
	e := energy(vals)
	if e < 0 || e > 4 {
		t.Fatalf("energy %v outside the observable spectrum [0, 4]", e)
	}

	names := dev.Names()
	for p := range vals {
		up := append([]float64(nil), vals...)
		dn := append([]float64(nil), vals...)
		up[p] += h
		dn[p] -= h
		fd := (energy(up) - energy(dn)) / (2 * h)
		if d := math.Abs(grad[p] - fd); d > 5e-3+5e-2*math.Abs(fd) {
			t.Errorf("%s: adjoint %v vs finite difference %v", names[p], grad[p], fd)
		}
	}
	if err := dev.Bind(vals); err != nil {
		t.Fatalf("Bind: %v", err)
	}
}

func TestGradientSilentDriveFrequency(t *testing.T) {
	// A zero envelope cannot couple the carrier frequency to the state, so
	// its gradient entry vanishes identically.
	dev, tr := newSingleQubit(t, signal.NewConstant(0, 0), 5.1)
	grad, err := tr.Gradient(basis.Occupation, 1.5, 30, quantum.Ground(dev.NStates()), numberObservable(dev, 0))
	if err != nil {
		t.Fatalf("Gradient: %v", err)
	}
	freq := grad[len(grad)-1]
	if freq != 0 {
		t.Errorf("frequency gradient %v for silent drive, want 0", freq)
	}
}

func TestGradientSignalsRejectBadObservable(t *testing.T) {
	dev, tr := newDrivenPair(t)
	bad := linalg.Identity(dev.NStates() + 1)
	if _, err := tr.GradientSignals(basis.Occupation, 1.0, 4, quantum.Ground(dev.NStates()),
		[]linalg.Matrix{bad}, nil); err == nil {
		t.Error("expected dimension mismatch error")
	}
	if _, err := tr.GradientSignals(basis.Occupation, 1.0, 4, quantum.Ground(dev.NStates()), nil, nil); err == nil {
		t.Error("expected error for empty observable list")
	}
}

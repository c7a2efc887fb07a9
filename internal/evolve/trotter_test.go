package evolve

import (
	"math"
	"testing"

	"github.com/san-kum/qpulse/internal/algebra"
	"github.com/san-kum/qpulse/internal/basis"
	"github.com/san-kum/qpulse/internal/device"
	"github.com/san-kum/qpulse/internal/operator"
	"github.com/san-kum/qpulse/internal/propagate"
	"github.com/san-kum/qpulse/internal/quantum"
	"github.com/san-kum/qpulse/internal/signal"
)

func newDrivenPair(t *testing.T) (*device.Transmon, *Trotter) {
	t.Helper()
	dev, err := device.NewTransmon(
		[]float64{5.0, 5.3},
		[]float64{-0.3, -0.31},
		[]device.Coupling{{Pair: device.NewQuple(0, 1), G: 0.05}},
		[]device.Channel{{Qubit: 0, Freq: 5.0, Signal: signal.NewConstant(0.2, 0.1)}},
		3,
	)
	if err != nil {
		t.Fatalf("NewTransmon: %v", err)
	}
	engine := propagate.NewEngine(basis.NewFrame(operator.NewTable(dev)))
	return dev, NewTrotter(engine)
}

func newSingleQubit(t *testing.T, sig quantum.Signal, freq float64) (*device.Transmon, *Trotter) {
	t.Helper()
	dev, err := device.NewTransmon(
		[]float64{4.8}, []float64{-0.25}, nil,
		[]device.Channel{{Qubit: 0, Freq: freq, Signal: sig}},
		2,
	)
	if err != nil {
		t.Fatalf("NewTransmon: %v", err)
	}
	engine := propagate.NewEngine(basis.NewFrame(operator.NewTable(dev)))
	return dev, NewTrotter(engine)
}

func stateDistance(a, b quantum.State) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += real(d)*real(d) + imag(d)*imag(d)
	}
	return math.Sqrt(sum)
}

func TestGridWeights(t *testing.T) {
	g, err := NewGrid(2.0, 4)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if g.Steps() != 4 {
		t.Fatalf("Steps() = %d, want 4", g.Steps())
	}
	if g.Tau != 0.5 {
		t.Errorf("Tau = %v, want 0.5", g.Tau)
	}
	total := 0.0
	for _, w := range g.Weights {
		total += w
	}
	if math.Abs(total-2.0) > 1e-12 {
		t.Errorf("weights sum to %v, want 2", total)
	}
	if g.Weights[0] != 0.25 || g.Weights[4] != 0.25 {
		t.Errorf("endpoint weights %v, %v, want 0.25", g.Weights[0], g.Weights[4])
	}
	for i, ti := range g.Times {
		if g.Index(ti) != i {
			t.Errorf("Index(%v) = %d, want %d", ti, g.Index(ti), i)
		}
	}
}

func TestGridRejects(t *testing.T) {
	if _, err := NewGrid(1.0, 0); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := NewGrid(0, 10); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestEvolvePreservesNorm(t *testing.T) {
	dev, tr := newDrivenPair(t)
	psi0 := quantum.Ground(dev.NStates())
	psi, err := tr.Evolve(basis.Occupation, 3.0, 60, psi0)
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	if d := math.Abs(psi.Norm() - 1); d > 1e-9 {
		t.Errorf("norm drifted by %v", d)
	}
	if d := math.Abs(psi0.Norm() - 1); d > 1e-12 {
		t.Errorf("input state mutated, norm %v", psi0.Norm())
	}
}

func TestEvolveStaticOnlyIsExact(t *testing.T) {
	// With a silent drive the splitting collapses to the static
	// propagator, so a handful of steps should reproduce the exact
	// exponential to rounding.
	dev, tr := newSingleQubit(t, signal.NewConstant(0, 0), 4.8)
	psi0 := make(quantum.State, dev.NStates())
	psi0[0] = complex(math.Sqrt(0.5), 0)
	psi0[1] = complex(0, math.Sqrt(0.5))

	got, err := tr.Evolve(basis.Occupation, 1.7, 5, psi0)
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	want := psi0.Clone()
	if err := tr.Engine().Propagate(operator.StaticTerm(), basis.Occupation, 1.7, want); err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if d := stateDistance(got, want); d > 1e-9 {
		t.Errorf("static evolution off by %v", d)
	}
}

func TestEvolveObserver(t *testing.T) {
	dev, tr := newDrivenPair(t)
	var steps []int
	var last float64
	tr.AddObserver(func(step int, at float64, psi quantum.State) {
		steps = append(steps, step)
		last = at
	})
	if _, err := tr.Evolve(basis.Occupation, 2.0, 8, quantum.Ground(dev.NStates())); err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	if len(steps) != 8 {
		t.Fatalf("observer called %d times, want 8", len(steps))
	}
	for i, s := range steps {
		if s != i {
			t.Errorf("step %d reported as %d", i, s)
		}
	}
	if math.Abs(last-2.0) > 1e-12 {
		t.Errorf("final observed time %v, want 2", last)
	}
}

func TestEvolveSecondOrderConvergence(t *testing.T) {
	dev, tr := newSingleQubit(t, signal.NewConstant(0.4, 0.2), 4.6)
	psi0 := quantum.Ground(dev.NStates())
	const T = 1.0

	ref, err := tr.Evolve(basis.Occupation, T, 4096, psi0)
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	coarse, err := tr.Evolve(basis.Occupation, T, 16, psi0)
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	fine, err := tr.Evolve(basis.Occupation, T, 32, psi0)
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}

	errCoarse := stateDistance(coarse, ref)
	errFine := stateDistance(fine, ref)
	if errCoarse < 1e-12 {
		t.Skip("coarse grid already exact, nothing to measure")
	}
	// Strang splitting halves τ into a quarter of the error.
	if ratio := errCoarse / errFine; ratio < 3.0 {
		t.Errorf("error ratio %v under doubling, want >= 3 for second order", ratio)
	}
}

func TestEvolveBasisConsistency(t *testing.T) {
	dev, tr := newDrivenPair(t)
	frame := tr.Engine().Frame()

	psi0 := quantum.Ground(dev.NStates())
	inOcc, err := tr.Evolve(basis.Occupation, 1.2, 40, psi0)
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}

	psi0d, err := frame.RotateState(basis.Dressed, basis.Occupation, psi0)
	if err != nil {
		t.Fatalf("RotateState: %v", err)
	}
	inDressed, err := tr.Evolve(basis.Dressed, 1.2, 40, psi0d)
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	back, err := frame.RotateState(basis.Occupation, basis.Dressed, inDressed)
	if err != nil {
		t.Fatalf("RotateState: %v", err)
	}
	if d := stateDistance(inOcc, back); d > 1e-9 {
		t.Errorf("dressed-basis evolution disagrees with occupation by %v", d)
	}
}

func TestEvolveLeavesExcitationInPlace(t *testing.T) {
	// Without coupling and with drives silent, an occupation eigenstate
	// only picks up phase.
	dev, err := device.NewTransmon(
		[]float64{5.0, 5.2}, []float64{-0.3, -0.3}, nil,
		[]device.Channel{{Qubit: 1, Freq: 5.2, Signal: signal.NewConstant(0, 0)}},
		3,
	)
	if err != nil {
		t.Fatalf("NewTransmon: %v", err)
	}
	tr := NewTrotter(propagate.NewEngine(basis.NewFrame(operator.NewTable(dev))))

	strides := algebra.Strides(dev.LevelCounts())
	psi0 := make(quantum.State, dev.NStates())
	psi0[strides[0]] = 1 // |1,0⟩

	psi, err := tr.Evolve(basis.Occupation, 2.5, 25, psi0)
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	for i, v := range psi {
		mag := real(v)*real(v) + imag(v)*imag(v)
		if i == strides[0] {
			if math.Abs(mag-1) > 1e-9 {
				t.Errorf("population left |1,0⟩: %v", mag)
			}
		} else if mag > 1e-18 {
			t.Errorf("population %v leaked into index %d", mag, i)
		}
	}
}

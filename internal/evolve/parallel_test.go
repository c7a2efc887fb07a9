package evolve

import (
	"context"
	"testing"

	"github.com/san-kum/qpulse/internal/basis"
	"github.com/san-kum/qpulse/internal/quantum"
)

func TestEnsembleMatchesSerial(t *testing.T) {
	dev, tr := newDrivenPair(t)
	n := dev.NStates()

	states := make([]quantum.State, n)
	for i := range states {
		states[i] = make(quantum.State, n)
		states[i][i] = 1
	}

	got, err := NewEnsemble(tr).Run(context.Background(), basis.Occupation, 1.8, 36, states)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := range states {
		want, err := tr.Evolve(basis.Occupation, 1.8, 36, states[i])
		if err != nil {
			t.Fatalf("Evolve: %v", err)
		}
		if d := stateDistance(got[i], want); d > 1e-12 {
			t.Errorf("state %d differs from serial evolution by %v", i, d)
		}
	}
}

func TestEnsembleCancellation(t *testing.T) {
	dev, tr := newDrivenPair(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	states := []quantum.State{quantum.Ground(dev.NStates())}
	if _, err := NewEnsemble(tr).Run(ctx, basis.Occupation, 1.0, 10, states); err == nil {
		t.Error("expected context error after cancellation")
	}
}

package evolve

import (
	"context"
	"sync"

	"github.com/san-kum/qpulse/internal/basis"
	"github.com/san-kum/qpulse/internal/quantum"
)

// Ensemble evolves a batch of initial states under the same device and
// grid, one goroutine per state. Workers share the engine and all of its
// caches; the first worker to need a propagator builds it and the rest
// reuse it.
type Ensemble struct {
	base *Trotter
}

func NewEnsemble(base *Trotter) *Ensemble {
	return &Ensemble{base: base}
}

// Run evolves every state of the batch across the same grid and returns
// the final states in input order. Cancellation is checked per worker;
// the first error wins.
func (e *Ensemble) Run(ctx context.Context, b basis.Basis, T float64, r int, states []quantum.State) ([]quantum.State, error) {
	results := make([]quantum.State, len(states))
	errs := make([]error, len(states))

	var wg sync.WaitGroup
	for i := range states {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			default:
			}

			tr := NewTrotter(e.base.engine)
			results[idx], errs[idx] = tr.Evolve(b, T, r, states[idx])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

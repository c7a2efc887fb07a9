package device

import (
	"fmt"
)

// Transmon is the concrete device type: per-qubit resonance frequencies
// and anharmonicities, a coupling list, a drive channel list, and a
// uniform per-qubit level count. Static parameters are fixed after
// construction; only channel signals and carrier frequencies are mutable,
// through the binding interface.
type Transmon struct {
	freqs     []float64
	anharms   []float64
	couplings []Coupling
	channels  []Channel
	levels    int
}

func NewTransmon(freqs, anharms []float64, couplings []Coupling, channels []Channel, levels int) (*Transmon, error) {
	n := len(freqs)
	if n == 0 {
		return nil, fmt.Errorf("device: need at least one qubit")
	}
	if len(anharms) != n {
		return nil, fmt.Errorf("device: %d frequencies but %d anharmonicities", n, len(anharms))
	}
	if levels < 2 {
		return nil, fmt.Errorf("device: level count %d < 2", levels)
	}
	for _, c := range couplings {
		if c.Pair.P < 0 || c.Pair.P >= n || c.Pair.Q < 0 || c.Pair.Q >= n {
			return nil, fmt.Errorf("device: coupling %s out of range for %d qubits", c.Pair, n)
		}
		if c.Pair.P == c.Pair.Q {
			return nil, fmt.Errorf("device: coupling %s joins a qubit to itself", c.Pair)
		}
	}
	for i, ch := range channels {
		if ch.Qubit < 0 || ch.Qubit >= n {
			return nil, fmt.Errorf("device: channel %d targets qubit %d of %d", i, ch.Qubit, n)
		}
		if ch.Signal == nil {
			return nil, fmt.Errorf("device: channel %d has no signal", i)
		}
	}

	t := &Transmon{
		freqs:     append([]float64(nil), freqs...),
		anharms:   append([]float64(nil), anharms...),
		couplings: append([]Coupling(nil), couplings...),
		channels:  append([]Channel(nil), channels...),
		levels:    levels,
	}
	return t, nil
}

func (t *Transmon) NQubits() int                { return len(t.freqs) }
func (t *Transmon) Levels() int                 { return t.levels }
func (t *Transmon) Frequency(q int) float64     { return t.freqs[q] }
func (t *Transmon) Anharmonicity(q int) float64 { return t.anharms[q] }
func (t *Transmon) Couplings() []Coupling       { return t.couplings }
func (t *Transmon) Channels() []Channel         { return t.channels }

// NStates returns the full product-space dimension.
func (t *Transmon) NStates() int {
	d := 1
	for range t.freqs {
		d *= t.levels
	}
	return d
}

// LevelCounts returns the per-qubit truncations as a slice.
func (t *Transmon) LevelCounts() []int {
	levels := make([]int, len(t.freqs))
	for i := range levels {
		levels[i] = t.levels
	}
	return levels
}

var _ Device = (*Transmon)(nil)

package device

import (
	"fmt"

	"github.com/san-kum/qpulse/internal/quantum"
)

// The binding interface exposes every free control parameter in a fixed
// canonical order: all signal parameters channel by channel, then one
// carrier frequency per channel. This is the sole contract consumed by an
// external optimizer.

// Count returns the total number of free parameters.
func (t *Transmon) Count() int {
	n := 0
	for _, ch := range t.channels {
		n += ch.Signal.Count()
	}
	return n + len(t.channels)
}

// Names returns human-readable labels in canonical order, annotated with
// channel and target qubit.
func (t *Transmon) Names() []string {
	names := make([]string, 0, t.Count())
	for i, ch := range t.channels {
		for _, base := range ch.Signal.Names() {
			names = append(names, fmt.Sprintf("ch%d[q%d] %s", i, ch.Qubit, base))
		}
	}
	for i, ch := range t.channels {
		names = append(names, fmt.Sprintf("ch%d[q%d] freq", i, ch.Qubit))
	}
	return names
}

// Values returns the current parameter vector in canonical order.
func (t *Transmon) Values() []float64 {
	values := make([]float64, 0, t.Count())
	for _, ch := range t.channels {
		values = append(values, ch.Signal.Values()...)
	}
	for _, ch := range t.channels {
		values = append(values, ch.Freq)
	}
	return values
}

// Bind writes a parameter vector back into each channel's signal and
// carrier frequency, consuming it in canonical order. If any signal
// rejects its slice the channels bound so far are restored, so a failed
// call leaves the device unchanged.
func (t *Transmon) Bind(values []float64) error {
	if len(values) != t.Count() {
		return fmt.Errorf("%w: got %d, want %d", quantum.ErrBadParameterCount, len(values), t.Count())
	}
	prev := t.Values()
	off := 0
	for i, ch := range t.channels {
		n := ch.Signal.Count()
		if err := ch.Signal.Bind(values[off : off+n]); err != nil {
			roff := 0
			for j := 0; j < i; j++ {
				m := t.channels[j].Signal.Count()
				t.channels[j].Signal.Bind(prev[roff : roff+m])
				roff += m
			}
			return err
		}
		off += n
	}
	for i := range t.channels {
		t.channels[i].Freq = values[off]
		off++
	}
	return nil
}

// Package metrics accumulates scalar diagnostics over an evolution by
// observing the state after every step.
package metrics

import (
	"github.com/san-kum/qpulse/internal/quantum"
)

type Metric interface {
	Name() string
	Observe(step int, t float64, psi quantum.State)
	Value() float64
	Reset()
}

// AsObserver adapts a metric to the evolution observer signature.
func AsObserver(m Metric) quantum.Observer {
	return m.Observe
}

// Package device models networks of driven multi-level transmon
// oscillators and exposes their free control parameters.
package device

import (
	"github.com/san-kum/qpulse/internal/quantum"
)

// Coupling is a static exchange interaction of strength G between the
// qubits of an unordered pair.
type Coupling struct {
	Pair Quple
	G    float64
}

// Channel is one drive line: a target qubit, a carrier frequency, and a
// parameterized envelope. The channel owns its Signal.
type Channel struct {
	Qubit  int
	Freq   float64
	Signal quantum.Signal
}

// Device is the capability set every device variant must provide. New
// variants embed [Unimplemented] and override deliberately; an omitted
// capability surfaces as ErrNotImplemented instead of a silent default.
type Device interface {
	NQubits() int
	Levels() int
	Frequency(q int) float64
	Anharmonicity(q int) float64
	Couplings() []Coupling
	Channels() []Channel
	NStates() int
}

// Unimplemented is the embeddable base for partial device variants.
type Unimplemented struct{}

func (Unimplemented) NQubits() int                { panic(quantum.ErrNotImplemented) }
func (Unimplemented) Levels() int                 { panic(quantum.ErrNotImplemented) }
func (Unimplemented) Frequency(q int) float64     { panic(quantum.ErrNotImplemented) }
func (Unimplemented) Anharmonicity(q int) float64 { panic(quantum.ErrNotImplemented) }
func (Unimplemented) Couplings() []Coupling       { panic(quantum.ErrNotImplemented) }
func (Unimplemented) Channels() []Channel         { panic(quantum.ErrNotImplemented) }
func (Unimplemented) NStates() int                { panic(quantum.ErrNotImplemented) }

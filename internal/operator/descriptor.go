// Package operator assembles device Hamiltonian terms as tagged
// descriptors resolved to occupation-basis matrices, with caching
// restricted to time-independent operators.
package operator

import "fmt"

// Kind tags the closed set of physical operators the engine can build.
type Kind int

const (
	// KindQubit is the static term of a single qubit.
	KindQubit Kind = iota
	// KindCoupling is the total static coupling over all edges.
	KindCoupling
	// KindUncoupled is the sum of all per-qubit terms.
	KindUncoupled
	// KindStatic is Uncoupled + Coupling, the full drive-free Hamiltonian.
	KindStatic
	// KindChannel is one drive line's term at an absolute time.
	KindChannel
	// KindDrive is the total drive term at an absolute time.
	KindDrive
	// KindGradient is one quadrature gradient generator at an absolute time.
	KindGradient
	// KindHamiltonian is Static + Drive at an absolute time.
	KindHamiltonian
)

func (k Kind) String() string {
	switch k {
	case KindQubit:
		return "qubit"
	case KindCoupling:
		return "coupling"
	case KindUncoupled:
		return "uncoupled"
	case KindStatic:
		return "static"
	case KindChannel:
		return "channel"
	case KindDrive:
		return "drive"
	case KindGradient:
		return "gradient"
	case KindHamiltonian:
		return "hamiltonian"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Descriptor identifies which operator to build. Index is the qubit for
// KindQubit, the channel for KindChannel, and the grade for KindGradient;
// Time applies to the four time-dependent kinds only.
type Descriptor struct {
	Kind  Kind
	Index int
	Time  float64
}

func QubitTerm(q int) Descriptor { return Descriptor{Kind: KindQubit, Index: q} }
func CouplingTerm() Descriptor   { return Descriptor{Kind: KindCoupling} }
func UncoupledTerm() Descriptor  { return Descriptor{Kind: KindUncoupled} }
func StaticTerm() Descriptor     { return Descriptor{Kind: KindStatic} }
func ChannelTerm(i int, t float64) Descriptor {
	return Descriptor{Kind: KindChannel, Index: i, Time: t}
}
func DriveTerm(t float64) Descriptor { return Descriptor{Kind: KindDrive, Time: t} }
func GradientTerm(j int, t float64) Descriptor {
	return Descriptor{Kind: KindGradient, Index: j, Time: t}
}
func HamiltonianTerm(t float64) Descriptor {
	return Descriptor{Kind: KindHamiltonian, Time: t}
}

// TimeDependent reports whether the descriptor carries an absolute time.
// Time-dependent operators are never cached: the set of possible times is
// unbounded and signal parameters change between evaluations.
func (d Descriptor) TimeDependent() bool {
	switch d.Kind {
	case KindChannel, KindDrive, KindGradient, KindHamiltonian:
		return true
	}
	return false
}

func (d Descriptor) String() string {
	if d.TimeDependent() {
		return fmt.Sprintf("%s[%d]@%g", d.Kind, d.Index, d.Time)
	}
	return fmt.Sprintf("%s[%d]", d.Kind, d.Index)
}

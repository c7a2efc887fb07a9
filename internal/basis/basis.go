// Package basis defines the basis variants of the product Hilbert space
// and caches their diagonalizing unitaries and inter-basis rotations.
//
// Occupation is the canonical reference frame; every other basis is the
// eigenbasis of a defining Hermitian operator: the position quadrature
// (Coordinate), the momentum quadrature (Momentum), or the full static
// Hamiltonian (Dressed).
package basis

import "fmt"

type Basis int

const (
	Occupation Basis = iota
	Coordinate
	Momentum
	Dressed
)

// Local reports whether the basis factorizes per qubit. Dressed does not:
// its defining operator couples qubits.
func (b Basis) Local() bool { return b != Dressed }

func (b Basis) String() string {
	switch b {
	case Occupation:
		return "occupation"
	case Coordinate:
		return "coordinate"
	case Momentum:
		return "momentum"
	case Dressed:
		return "dressed"
	}
	return fmt.Sprintf("basis(%d)", int(b))
}

// Parse maps a config/CLI name to a basis tag.
func Parse(name string) (Basis, error) {
	switch name {
	case "occupation", "":
		return Occupation, nil
	case "coordinate":
		return Coordinate, nil
	case "momentum":
		return Momentum, nil
	case "dressed":
		return Dressed, nil
	}
	return Occupation, fmt.Errorf("basis: unknown basis %q", name)
}

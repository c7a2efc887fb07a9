package basis

import (
	"fmt"
	"math/cmplx"
	"sync"

	"github.com/san-kum/qpulse/internal/algebra"
	"github.com/san-kum/qpulse/internal/linalg"
	"github.com/san-kum/qpulse/internal/operator"
	"github.com/san-kum/qpulse/internal/quantum"
)

// Frame resolves bases against one device, caching diagonalizations and
// rotations for the frame's lifetime. Static device parameters are
// immutable after construction; Invalidate exists for future variants
// that relax this.
type Frame struct {
	table *operator.Table

	mu        sync.Mutex
	locals    map[localKey]linalg.Eig
	fulls     map[Basis]linalg.Eig
	rotations map[rotKey]linalg.Matrix
}

type localKey struct {
	basis Basis
	qubit int
}

type rotKey struct {
	target, source Basis
}

func NewFrame(table *operator.Table) *Frame {
	return &Frame{
		table:     table,
		locals:    make(map[localKey]linalg.Eig),
		fulls:     make(map[Basis]linalg.Eig),
		rotations: make(map[rotKey]linalg.Matrix),
	}
}

func (f *Frame) Table() *operator.Table { return f.table }

// Invalidate discards all cached diagonalizations and rotations, along
// with the operator table's entries.
func (f *Frame) Invalidate() {
	f.mu.Lock()
	f.locals = make(map[localKey]linalg.Eig)
	f.fulls = make(map[Basis]linalg.Eig)
	f.rotations = make(map[rotKey]linalg.Matrix)
	f.mu.Unlock()
	f.table.Invalidate()
}

// DiagonalizeLocal returns the eigensystem of the basis-defining operator
// restricted to one qubit. Dressed has no local restriction.
func (f *Frame) DiagonalizeLocal(b Basis, q int) (linalg.Eig, error) {
	if !b.Local() {
		return linalg.Eig{}, fmt.Errorf("basis: %v does not factorize per qubit", b)
	}
	f.mu.Lock()
	if e, ok := f.locals[localKey{b, q}]; ok {
		f.mu.Unlock()
		return e, nil
	}
	f.mu.Unlock()

	m := f.table.Device().Levels()
	var op linalg.Matrix
	switch b {
	case Occupation:
		op = linalg.Identity(m)
	case Coordinate:
		op = algebra.Position(m)
	case Momentum:
		op = algebra.Momentum(m)
	}
	e, err := linalg.Eigh(op)
	if err != nil {
		return linalg.Eig{}, err
	}
	if b == Occupation {
		// Canonical frame: keep the identity ordering, not a sorted one.
		e = linalg.Eig{Values: e.Values, Vectors: linalg.Identity(m)}
	}

	f.mu.Lock()
	f.locals[localKey{b, q}] = e
	f.mu.Unlock()
	return e, nil
}

// Diagonalize returns the full-space eigensystem of the basis-defining
// operator: identity for Occupation, Kronecker products of local
// quadrature frames for Coordinate/Momentum, and the static Hamiltonian
// for Dressed under the canonical assignment convention.
func (f *Frame) Diagonalize(b Basis) (linalg.Eig, error) {
	f.mu.Lock()
	if e, ok := f.fulls[b]; ok {
		f.mu.Unlock()
		return e, nil
	}
	f.mu.Unlock()

	var e linalg.Eig
	var err error
	if b == Dressed {
		e, err = f.diagonalizeDressed()
	} else {
		e, err = f.assembleLocal(b)
	}
	if err != nil {
		return linalg.Eig{}, err
	}

	f.mu.Lock()
	f.fulls[b] = e
	f.mu.Unlock()
	return e, nil
}

func (f *Frame) assembleLocal(b Basis) (linalg.Eig, error) {
	dev := f.table.Device()
	vec := linalg.Identity(1)
	vals := []float64{0}
	for q := 0; q < dev.NQubits(); q++ {
		local, err := f.DiagonalizeLocal(b, q)
		if err != nil {
			return linalg.Eig{}, err
		}
		vec = vec.Kron(local.Vectors)
		next := make([]float64, 0, len(vals)*len(local.Values))
		for _, v := range vals {
			for _, w := range local.Values {
				next = append(next, v+w)
			}
		}
		vals = next
	}
	return linalg.Eig{Values: vals, Vectors: vec}, nil
}

// diagonalizeDressed fixes the eigenvector order and phase of the static
// Hamiltonian's eigenbasis: each occupation index i, in increasing order,
// claims the unclaimed eigenvector with the largest overlap magnitude on
// component i (first unclaimed wins ties), and each claimed vector is
// negated if needed so its i-th component is non-negative.
func (f *Frame) diagonalizeDressed() (linalg.Eig, error) {
	h, err := f.table.Operator(operator.StaticTerm())
	if err != nil {
		return linalg.Eig{}, err
	}
	e, err := linalg.Eigh(h)
	if err != nil {
		return linalg.Eig{}, err
	}

	d := h.N
	claimed := make([]bool, d)
	perm := make([]int, d)
	for i := 0; i < d; i++ {
		best, bestMag := -1, -1.0
		for k := 0; k < d; k++ {
			if claimed[k] {
				continue
			}
			if mag := cmplx.Abs(e.Vectors.At(i, k)); mag > bestMag {
				best, bestMag = k, mag
			}
		}
		perm[i] = best
		claimed[best] = true
	}

	dressed := linalg.Eig{Values: make([]float64, d), Vectors: linalg.New(d)}
	for i, src := range perm {
		dressed.Values[i] = e.Values[src]
		sign := complex128(1)
		if real(e.Vectors.At(i, src)) < 0 {
			sign = -1
		}
		for row := 0; row < d; row++ {
			dressed.Vectors.Set(row, i, sign*e.Vectors.At(row, src))
		}
	}
	return dressed, nil
}

// Rotation returns U_target† · U_source, the unitary taking a state out of
// source and into target. Cached per basis pair.
func (f *Frame) Rotation(target, source Basis) (linalg.Matrix, error) {
	f.mu.Lock()
	if r, ok := f.rotations[rotKey{target, source}]; ok {
		f.mu.Unlock()
		return r, nil
	}
	f.mu.Unlock()

	te, err := f.Diagonalize(target)
	if err != nil {
		return linalg.Matrix{}, err
	}
	se, err := f.Diagonalize(source)
	if err != nil {
		return linalg.Matrix{}, err
	}
	r := te.Vectors.Dagger().Mul(se.Vectors)

	f.mu.Lock()
	f.rotations[rotKey{target, source}] = r
	f.mu.Unlock()
	return r, nil
}

// RotateState maps ψ from source into target coordinates.
func (f *Frame) RotateState(target, source Basis, psi quantum.State) (quantum.State, error) {
	if target == source {
		return psi.Clone(), nil
	}
	r, err := f.Rotation(target, source)
	if err != nil {
		return nil, err
	}
	return r.MulVec(psi), nil
}

// InBasis conjugates an occupation-basis operator into b.
func (f *Frame) InBasis(m linalg.Matrix, b Basis) (linalg.Matrix, error) {
	if b == Occupation {
		return m, nil
	}
	e, err := f.Diagonalize(b)
	if err != nil {
		return linalg.Matrix{}, err
	}
	return linalg.UnitaryConjugate(e.Vectors, m), nil
}

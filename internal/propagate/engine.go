// Package propagate turns operator descriptors into unitary propagators
// and applies them to states.
//
// Propagators for time-independent descriptors at a fixed relative
// duration τ are cached; anything parameterized by an absolute time is
// rebuilt on every call. Locally-supported operators in a local basis are
// exponentiated per qubit and applied by strided block multiplication,
// never forming the full-dimension exponential.
package propagate

import (
	"sync"

	"github.com/san-kum/qpulse/internal/basis"
	"github.com/san-kum/qpulse/internal/linalg"
	"github.com/san-kum/qpulse/internal/operator"
	"github.com/san-kum/qpulse/internal/quantum"
)

type Engine struct {
	frame *basis.Frame

	mu      sync.Mutex
	props   map[propKey]prop
	buffers *bufferPool
}

type propKey struct {
	kind  operator.Kind
	index int
	b     basis.Basis
	tau   float64
}

// prop is either a full-space unitary or a per-qubit factorization.
type prop struct {
	full    linalg.Matrix
	factors []linalg.Matrix
}

func NewEngine(frame *basis.Frame) *Engine {
	return &Engine{
		frame:   frame,
		props:   make(map[propKey]prop),
		buffers: newBufferPool(frame.Table().Device().Levels()),
	}
}

func (e *Engine) Frame() *basis.Frame { return e.frame }

// Invalidate discards cached propagators together with the frame's and
// table's entries.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.props = make(map[propKey]prop)
	e.mu.Unlock()
	e.frame.Invalidate()
}

// factorizable reports whether the descriptor's propagator splits into
// per-qubit blocks in basis b.
func factorizable(d operator.Descriptor, b basis.Basis) bool {
	if !b.Local() {
		return false
	}
	switch d.Kind {
	case operator.KindQubit, operator.KindUncoupled, operator.KindChannel,
		operator.KindDrive, operator.KindGradient:
		return true
	}
	return false
}

// Propagator returns the full-space unitary exp(−i·τ·H) for the
// descriptor resolved in basis b. Factorized propagators are assembled by
// Kronecker product; Propagate avoids that assembly entirely.
func (e *Engine) Propagator(d operator.Descriptor, b basis.Basis, tau float64) (linalg.Matrix, error) {
	p, err := e.resolve(d, b, tau)
	if err != nil {
		return linalg.Matrix{}, err
	}
	if p.factors == nil {
		return p.full, nil
	}
	full := linalg.Identity(1)
	for _, f := range p.factors {
		full = full.Kron(f)
	}
	return full, nil
}

// Propagate applies exp(−i·τ·H) to ψ in place.
func (e *Engine) Propagate(d operator.Descriptor, b basis.Basis, tau float64, psi quantum.State) error {
	p, err := e.resolve(d, b, tau)
	if err != nil {
		return err
	}
	return e.apply(p, psi)
}

// Evolver returns exp(−i·t·H) for a static operator at an absolute time
// t. Time-dependent descriptors have no static evolver; the result is
// never cached because t is an absolute time.
func (e *Engine) Evolver(d operator.Descriptor, b basis.Basis, t float64) (linalg.Matrix, error) {
	if d.TimeDependent() {
		return linalg.Matrix{}, quantum.ErrTimeDependent
	}
	p, err := e.build(d, b, t)
	if err != nil {
		return linalg.Matrix{}, err
	}
	if p.factors == nil {
		return p.full, nil
	}
	full := linalg.Identity(1)
	for _, f := range p.factors {
		full = full.Kron(f)
	}
	return full, nil
}

// Evolve applies the static evolver at absolute time t to ψ in place.
func (e *Engine) Evolve(d operator.Descriptor, b basis.Basis, t float64, psi quantum.State) error {
	if d.TimeDependent() {
		return quantum.ErrTimeDependent
	}
	p, err := e.build(d, b, t)
	if err != nil {
		return err
	}
	return e.apply(p, psi)
}

func (e *Engine) resolve(d operator.Descriptor, b basis.Basis, tau float64) (prop, error) {
	if d.TimeDependent() {
		return e.build(d, b, tau)
	}

	key := propKey{d.Kind, d.Index, b, tau}
	e.mu.Lock()
	if p, ok := e.props[key]; ok {
		e.mu.Unlock()
		return p, nil
	}
	e.mu.Unlock()

	p, err := e.build(d, b, tau)
	if err != nil {
		return prop{}, err
	}
	e.mu.Lock()
	e.props[key] = p
	e.mu.Unlock()
	return p, nil
}

func (e *Engine) build(d operator.Descriptor, b basis.Basis, tau float64) (prop, error) {
	if factorizable(d, b) {
		factors, err := e.localFactors(d, b, tau)
		if err != nil {
			return prop{}, err
		}
		return prop{factors: factors}, nil
	}

	table := e.frame.Table()
	h, err := table.Operator(d)
	if err != nil {
		return prop{}, err
	}
	hb, err := e.frame.InBasis(h, b)
	if err != nil {
		return prop{}, err
	}
	u, err := linalg.ExpHermitian(hb, complex(0, -tau))
	if err != nil {
		return prop{}, err
	}
	return prop{full: u}, nil
}

// localFactors exponentiates the descriptor qubit by qubit in the local
// frame of basis b. Qubits without support get an identity factor.
func (e *Engine) localFactors(d operator.Descriptor, b basis.Basis, tau float64) ([]linalg.Matrix, error) {
	table := e.frame.Table()
	dev := table.Device()
	n := dev.NQubits()
	m := dev.Levels()

	locals := make([]linalg.Matrix, n)
	hasSupport := make([]bool, n)
	addLocal := func(q int, op linalg.Matrix) {
		if !hasSupport[q] {
			locals[q] = op
			hasSupport[q] = true
			return
		}
		locals[q] = locals[q].Add(op)
	}

	switch d.Kind {
	case operator.KindQubit:
		addLocal(d.Index, table.LocalQubit(d.Index))
	case operator.KindUncoupled:
		for q := 0; q < n; q++ {
			addLocal(q, table.LocalQubit(q))
		}
	case operator.KindChannel:
		op, q, err := table.LocalChannel(d.Index, d.Time)
		if err != nil {
			return nil, err
		}
		addLocal(q, op)
	case operator.KindGradient:
		op, q, err := table.LocalGradient(d.Index, d.Time)
		if err != nil {
			return nil, err
		}
		addLocal(q, op)
	case operator.KindDrive:
		for i := range dev.Channels() {
			op, q, err := table.LocalChannel(i, d.Time)
			if err != nil {
				return nil, err
			}
			addLocal(q, op)
		}
	}

	factors := make([]linalg.Matrix, n)
	for q := 0; q < n; q++ {
		if !hasSupport[q] {
			factors[q] = linalg.Identity(m)
			continue
		}
		local := locals[q]
		if b != basis.Occupation {
			le, err := e.frame.DiagonalizeLocal(b, q)
			if err != nil {
				return nil, err
			}
			local = linalg.UnitaryConjugate(le.Vectors, local)
		}
		u, err := linalg.ExpHermitian(local, complex(0, -tau))
		if err != nil {
			return nil, err
		}
		factors[q] = u
	}
	return factors, nil
}

func (e *Engine) apply(p prop, psi quantum.State) error {
	if p.factors == nil {
		if p.full.N != len(psi) {
			return quantum.ErrDimensionMismatch
		}
		copy(psi, p.full.MulVec(psi))
		return nil
	}

	dev := e.frame.Table().Device()
	levels := dev.LevelCounts()
	if len(psi) != dev.NStates() {
		return quantum.ErrDimensionMismatch
	}
	for q, f := range p.factors {
		if isIdentity(f) {
			continue
		}
		e.applyLocal(psi, f, q, levels)
	}
	return nil
}

// applyLocal multiplies one per-qubit factor into ψ by strided gathering
// of the qubit's digit.
func (e *Engine) applyLocal(psi quantum.State, f linalg.Matrix, q int, levels []int) {
	stride := 1
	for p := q + 1; p < len(levels); p++ {
		stride *= levels[p]
	}
	m := levels[q]
	block := stride * m

	buf := e.buffers.get()
	defer e.buffers.put(buf)
	scratch := buf[:m]

	for base := 0; base < len(psi); base += block {
		for off := 0; off < stride; off++ {
			for i := 0; i < m; i++ {
				scratch[i] = psi[base+i*stride+off]
			}
			for i := 0; i < m; i++ {
				var sum complex128
				row := f.Data[i*m : (i+1)*m]
				for j := 0; j < m; j++ {
					sum += row[j] * scratch[j]
				}
				psi[base+i*stride+off] = sum
			}
		}
	}
}

// MulLocal multiplies a local operator at qubit q into ψ in place. The
// operator need not be unitary; the gradient integrator uses this for
// generator-times-state products without globalizing.
func (e *Engine) MulLocal(op linalg.Matrix, q int, psi quantum.State) error {
	dev := e.frame.Table().Device()
	levels := dev.LevelCounts()
	if len(psi) != dev.NStates() || q < 0 || q >= len(levels) || op.N != levels[q] {
		return quantum.ErrDimensionMismatch
	}
	e.applyLocal(psi, op, q, levels)
	return nil
}

func isIdentity(m linalg.Matrix) bool {
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if m.Data[i*m.N+j] != want {
				return false
			}
		}
	}
	return true
}

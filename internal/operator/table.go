package operator

import (
	"fmt"
	"math/cmplx"
	"sync"

	"github.com/san-kum/qpulse/internal/algebra"
	"github.com/san-kum/qpulse/internal/device"
	"github.com/san-kum/qpulse/internal/linalg"
)

// Table resolves descriptors against a device, in the occupation basis.
// Time-independent results are memoized for the table's lifetime under the
// assumption that static device parameters never change after
// construction; Invalidate discards every entry if that assumption must be
// broken.
type Table struct {
	dev *device.Transmon

	mu    sync.Mutex
	cache map[cacheKey]linalg.Matrix
}

type cacheKey struct {
	kind  Kind
	index int
}

func NewTable(dev *device.Transmon) *Table {
	return &Table{dev: dev, cache: make(map[cacheKey]linalg.Matrix)}
}

func (t *Table) Device() *device.Transmon { return t.dev }

// Grades returns the number of gradient generators: two per drive channel.
func (t *Table) Grades() int { return 2 * len(t.dev.Channels()) }

// Invalidate discards all cached operators. Required before any future
// device variant mutates static parameters.
func (t *Table) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache = make(map[cacheKey]linalg.Matrix)
}

// Operator builds the descriptor's matrix in the occupation basis.
func (t *Table) Operator(d Descriptor) (linalg.Matrix, error) {
	if !d.TimeDependent() {
		t.mu.Lock()
		if m, ok := t.cache[cacheKey{d.Kind, d.Index}]; ok {
			t.mu.Unlock()
			return m, nil
		}
		t.mu.Unlock()
	}

	m, err := t.build(d)
	if err != nil {
		return linalg.Matrix{}, err
	}

	if !d.TimeDependent() {
		t.mu.Lock()
		t.cache[cacheKey{d.Kind, d.Index}] = m
		t.mu.Unlock()
	}
	return m, nil
}

func (t *Table) build(d Descriptor) (linalg.Matrix, error) {
	levels := t.dev.LevelCounts()
	switch d.Kind {
	case KindQubit:
		if d.Index < 0 || d.Index >= t.dev.NQubits() {
			return linalg.Matrix{}, fmt.Errorf("operator: qubit %d out of range", d.Index)
		}
		return algebra.Globalize(t.LocalQubit(d.Index), d.Index, levels), nil

	case KindCoupling:
		full := linalg.New(t.dev.NStates())
		for _, c := range t.dev.Couplings() {
			ap := algebra.Globalize(algebra.Ladder(t.dev.Levels()), c.Pair.P, levels)
			aq := algebra.Globalize(algebra.Ladder(t.dev.Levels()), c.Pair.Q, levels)
			ex := ap.Dagger().Mul(aq)
			full = full.Add(ex.Add(ex.Dagger()).Scale(complex(c.G, 0)))
		}
		return full, nil

	case KindUncoupled:
		full := linalg.New(t.dev.NStates())
		for q := 0; q < t.dev.NQubits(); q++ {
			term, err := t.Operator(QubitTerm(q))
			if err != nil {
				return linalg.Matrix{}, err
			}
			full = full.Add(term)
		}
		return full, nil

	case KindStatic:
		un, err := t.Operator(UncoupledTerm())
		if err != nil {
			return linalg.Matrix{}, err
		}
		cp, err := t.Operator(CouplingTerm())
		if err != nil {
			return linalg.Matrix{}, err
		}
		return un.Add(cp), nil

	case KindChannel:
		local, q, err := t.LocalChannel(d.Index, d.Time)
		if err != nil {
			return linalg.Matrix{}, err
		}
		return algebra.Globalize(local, q, levels), nil

	case KindDrive:
		full := linalg.New(t.dev.NStates())
		for i := range t.dev.Channels() {
			term, err := t.Operator(ChannelTerm(i, d.Time))
			if err != nil {
				return linalg.Matrix{}, err
			}
			full = full.Add(term)
		}
		return full, nil

	case KindGradient:
		local, q, err := t.LocalGradient(d.Index, d.Time)
		if err != nil {
			return linalg.Matrix{}, err
		}
		return algebra.Globalize(local, q, levels), nil

	case KindHamiltonian:
		st, err := t.Operator(StaticTerm())
		if err != nil {
			return linalg.Matrix{}, err
		}
		dr, err := t.Operator(DriveTerm(d.Time))
		if err != nil {
			return linalg.Matrix{}, err
		}
		return st.Add(dr), nil
	}
	return linalg.Matrix{}, fmt.Errorf("operator: unknown kind %v", d.Kind)
}

// LocalQubit returns qubit q's m×m static term ω·n − (δ/2)·n·(n−1).
func (t *Table) LocalQubit(q int) linalg.Matrix {
	m := t.dev.Levels()
	n := algebra.Number(m)
	nn := n.Mul(n.Add(linalg.Identity(m).Scale(-1)))
	return n.Scale(complex(t.dev.Frequency(q), 0)).
		Add(nn.Scale(complex(-t.dev.Anharmonicity(q)/2, 0)))
}

// LocalChannel returns channel i's m×m drive term Ω(t)·e^{iνt}·a + h.c.
// along with the target qubit.
func (t *Table) LocalChannel(i int, at float64) (linalg.Matrix, int, error) {
	chans := t.dev.Channels()
	if i < 0 || i >= len(chans) {
		return linalg.Matrix{}, 0, fmt.Errorf("operator: channel %d out of range", i)
	}
	ch := chans[i]
	z := ch.Signal.Evaluate(at) * cmplx.Exp(complex(0, ch.Freq*at))
	return driveShape(t.dev.Levels(), z), ch.Qubit, nil
}

// LocalGradient returns grade j's m×m generator: the drive shape with the
// envelope replaced by a pure quadrature phase (1 for even grades, i for
// odd), along with the target qubit. Grades pair up two per channel.
func (t *Table) LocalGradient(j int, at float64) (linalg.Matrix, int, error) {
	if j < 0 || j >= t.Grades() {
		return linalg.Matrix{}, 0, fmt.Errorf("operator: grade %d out of range", j)
	}
	ch := t.dev.Channels()[j/2]
	phase := complex128(1)
	if j%2 == 1 {
		phase = 1i
	}
	z := phase * cmplx.Exp(complex(0, ch.Freq*at))
	return driveShape(t.dev.Levels(), z), ch.Qubit, nil
}

// driveShape builds z·a + conj(z)·a†.
func driveShape(m int, z complex128) linalg.Matrix {
	a := algebra.Ladder(m)
	return a.Scale(z).Add(a.Dagger().Scale(cmplx.Conj(z)))
}

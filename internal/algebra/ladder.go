// Package algebra builds per-oscillator ladder operators and embeds them
// into the full product Hilbert space.
package algebra

import (
	"math"

	"github.com/san-kum/qpulse/internal/linalg"
)

// Ladder returns the m×m bosonic lowering operator truncated to m levels:
// a|n⟩ = √n |n−1⟩.
func Ladder(m int) linalg.Matrix {
	a := linalg.New(m)
	for i := 0; i < m-1; i++ {
		a.Set(i, i+1, complex(math.Sqrt(float64(i+1)), 0))
	}
	return a
}

// Number returns a†a.
func Number(m int) linalg.Matrix {
	a := Ladder(m)
	return a.Dagger().Mul(a)
}

// Position returns the coordinate quadrature (a + a†)/√2.
func Position(m int) linalg.Matrix {
	a := Ladder(m)
	return a.Add(a.Dagger()).Scale(complex(1/math.Sqrt2, 0))
}

// Momentum returns the momentum quadrature i(a† − a)/√2.
func Momentum(m int) linalg.Matrix {
	a := Ladder(m)
	return a.Dagger().Add(a.Scale(-1)).Scale(complex(0, 1/math.Sqrt2))
}

// Globalize embeds a single-qubit operator into the product space as the
// ordered Kronecker product of identities with op substituted at qubit q.
// Qubit 0 is the most significant digit of the composite index.
func Globalize(op linalg.Matrix, q int, levels []int) linalg.Matrix {
	full := linalg.Identity(1)
	for p, m := range levels {
		if p == q {
			full = full.Kron(op)
		} else {
			full = full.Kron(linalg.Identity(m))
		}
	}
	return full
}

// Strides returns the mixed-radix stride of each digit under the given
// per-qubit level counts, qubit 0 most significant.
func Strides(levels []int) []int {
	n := len(levels)
	strides := make([]int, n)
	s := 1
	for q := n - 1; q >= 0; q-- {
		strides[q] = s
		s *= levels[q]
	}
	return strides
}

// Dimension returns the product of per-qubit level counts.
func Dimension(levels []int) int {
	d := 1
	for _, m := range levels {
		d *= m
	}
	return d
}

// Project remaps an operator defined over the `from` per-qubit truncations
// onto the `to` truncations. Composite indices are decomposed into mixed-radix
// digits under `from`; entries whose digits all fit the target radices are
// recomposed, the rest are dropped.
func Project(op linalg.Matrix, from, to []int) linalg.Matrix {
	fromStrides := Strides(from)
	toStrides := Strides(to)
	r := linalg.New(Dimension(to))

	remap := func(i int) int {
		j := 0
		for q, m := range from {
			digit := (i / fromStrides[q]) % m
			if digit >= to[q] {
				return -1
			}
			j += digit * toStrides[q]
		}
		return j
	}

	for i := 0; i < op.N; i++ {
		ri := remap(i)
		if ri < 0 {
			continue
		}
		for j := 0; j < op.N; j++ {
			rj := remap(j)
			if rj < 0 {
				continue
			}
			r.Set(ri, rj, op.At(i, j))
		}
	}
	return r
}

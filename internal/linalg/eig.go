package linalg

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

const (
	jacobiMaxSweeps = 64
	hermitianTol    = 1e-9
)

// Eig holds the eigensystem of a Hermitian matrix: real eigenvalues in
// ascending order and the matching unit eigenvectors as columns of Vectors.
type Eig struct {
	Values  []float64
	Vectors Matrix
}

// Eigh diagonalizes a Hermitian matrix with cyclic complex Jacobi
// rotations. Each rotation first phases the (p,q) element real, then
// applies the classic symmetric Jacobi rotation, so the accumulated
// transform stays exactly unitary. Deterministic input gives a
// deterministic eigensystem.
func Eigh(a Matrix) (Eig, error) {
	if !a.IsHermitian(hermitianTol) {
		return Eig{}, fmt.Errorf("linalg: matrix of dim %d is not Hermitian", a.N)
	}

	n := a.N
	w := a.Clone()
	v := Identity(n)

	fnorm := 0.0
	for _, z := range w.Data {
		fnorm += real(z)*real(z) + imag(z)*imag(z)
	}
	stop := 1e-28 * math.Max(1, fnorm)

	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		off := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				z := w.Data[i*n+j]
				off += real(z)*real(z) + imag(z)*imag(z)
			}
		}
		if off < stop {
			break
		}

		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				apq := w.At(p, q)
				mag := cmplx.Abs(apq)
				if mag == 0 {
					continue
				}

				// Phase e^{iθ} with θ = −arg(a_pq) makes the pivot real.
				phase := cmplx.Conj(apq) / complex(mag, 0)
				app := real(w.At(p, p))
				aqq := real(w.At(q, q))

				tau := (aqq - app) / (2 * mag)
				var t float64
				if tau >= 0 {
					t = 1 / (tau + math.Sqrt(1+tau*tau))
				} else {
					t = -1 / (-tau + math.Sqrt(1+tau*tau))
				}
				c := 1 / math.Sqrt(1+t*t)
				s := t * c

				cs := complex(c, 0)
				ss := complex(s, 0)
				ep := phase
				em := cmplx.Conj(phase)

				// W ← W·J, columns p and q.
				for k := 0; k < n; k++ {
					wp := w.At(k, p)
					wq := w.At(k, q)
					w.Set(k, p, cs*wp-ss*ep*wq)
					w.Set(k, q, ss*wp+cs*ep*wq)
				}
				// W ← J†·W, rows p and q.
				for k := 0; k < n; k++ {
					tp := w.At(p, k)
					tq := w.At(q, k)
					w.Set(p, k, cs*tp-ss*em*tq)
					w.Set(q, k, ss*tp+cs*em*tq)
				}
				// V ← V·J.
				for k := 0; k < n; k++ {
					vp := v.At(k, p)
					vq := v.At(k, q)
					v.Set(k, p, cs*vp-ss*ep*vq)
					v.Set(k, q, ss*vp+cs*ep*vq)
				}
			}
		}
	}

	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = real(w.At(i, i))
	}

	// Stable ascending sort, permuting eigenvector columns alongside.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return vals[order[i]] < vals[order[j]]
	})

	sorted := Eig{Values: make([]float64, n), Vectors: New(n)}
	for col, src := range order {
		sorted.Values[col] = vals[src]
		for row := 0; row < n; row++ {
			sorted.Vectors.Set(row, col, v.At(row, src))
		}
	}
	return sorted, nil
}

// ExpEig assembles exp(z·H) = V·diag(exp(z·λ))·V† from a precomputed
// eigensystem.
func ExpEig(e Eig, z complex128) Matrix {
	n := len(e.Values)
	v := e.Vectors
	d := make([]complex128, n)
	for k, lam := range e.Values {
		d[k] = cmplx.Exp(z * complex(lam, 0))
	}
	r := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for k := 0; k < n; k++ {
				sum += v.At(i, k) * d[k] * cmplx.Conj(v.At(j, k))
			}
			r.Set(i, j, sum)
		}
	}
	return r
}

// ExpHermitian returns exp(z·H) for Hermitian H.
func ExpHermitian(h Matrix, z complex128) (Matrix, error) {
	e, err := Eigh(h)
	if err != nil {
		return Matrix{}, err
	}
	return ExpEig(e, z), nil
}

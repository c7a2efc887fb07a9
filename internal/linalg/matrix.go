package linalg

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix is a dense, square, row-major complex matrix. The evolution core
// only ever manipulates square operators, so rectangular shapes are not
// supported.
type Matrix struct {
	N    int
	Data []complex128
}

func New(n int) Matrix {
	return Matrix{N: n, Data: make([]complex128, n*n)}
}

func Identity(n int) Matrix {
	m := New(n)
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}
	return m
}

func (m Matrix) At(i, j int) complex128     { return m.Data[i*m.N+j] }
func (m Matrix) Set(i, j int, v complex128) { m.Data[i*m.N+j] = v }

func (m Matrix) Clone() Matrix {
	c := New(m.N)
	copy(c.Data, m.Data)
	return c
}

func (m Matrix) Add(other Matrix) Matrix {
	if m.N != other.N {
		panic(fmt.Sprintf("linalg: add dimension mismatch %d vs %d", m.N, other.N))
	}
	r := m.Clone()
	for i := range r.Data {
		r.Data[i] += other.Data[i]
	}
	return r
}

func (m Matrix) Scale(z complex128) Matrix {
	r := m.Clone()
	for i := range r.Data {
		r.Data[i] *= z
	}
	return r
}

func (m Matrix) Mul(other Matrix) Matrix {
	if m.N != other.N {
		panic(fmt.Sprintf("linalg: mul dimension mismatch %d vs %d", m.N, other.N))
	}
	n := m.N
	r := New(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			a := m.Data[i*n+k]
			if a == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				r.Data[i*n+j] += a * other.Data[k*n+j]
			}
		}
	}
	return r
}

func (m Matrix) MulVec(x []complex128) []complex128 {
	if m.N != len(x) {
		panic(fmt.Sprintf("linalg: mulvec dimension mismatch %d vs %d", m.N, len(x)))
	}
	n := m.N
	y := make([]complex128, n)
	for i := 0; i < n; i++ {
		var sum complex128
		row := m.Data[i*n : (i+1)*n]
		for j, v := range x {
			sum += row[j] * v
		}
		y[i] = sum
	}
	return y
}

func (m Matrix) Dagger() Matrix {
	n := m.N
	r := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r.Data[j*n+i] = cmplx.Conj(m.Data[i*n+j])
		}
	}
	return r
}

// Kron returns the Kronecker product m ⊗ other.
func (m Matrix) Kron(other Matrix) Matrix {
	n, p := m.N, other.N
	r := New(n * p)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a := m.Data[i*n+j]
			if a == 0 {
				continue
			}
			for k := 0; k < p; k++ {
				for l := 0; l < p; l++ {
					r.Data[(i*p+k)*r.N+(j*p+l)] = a * other.Data[k*p+l]
				}
			}
		}
	}
	return r
}

func (m Matrix) IsHermitian(tol float64) bool {
	n := m.N
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if cmplx.Abs(m.Data[i*n+j]-cmplx.Conj(m.Data[j*n+i])) > tol {
				return false
			}
		}
	}
	return true
}

// MaxDiff returns the largest elementwise magnitude difference.
func (m Matrix) MaxDiff(other Matrix) float64 {
	if m.N != other.N {
		return math.Inf(1)
	}
	max := 0.0
	for i := range m.Data {
		if d := cmplx.Abs(m.Data[i] - other.Data[i]); d > max {
			max = d
		}
	}
	return max
}

// UnitaryConjugate returns U† · M · U, rotating M by the unitary U.
func UnitaryConjugate(u, m Matrix) Matrix {
	return u.Dagger().Mul(m).Mul(u)
}

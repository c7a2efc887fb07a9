package device

import "fmt"

// Quple is an unordered pair of qubit indices identifying a coupling.
// Construction canonicalizes the smaller index first, so NewQuple(p, q)
// and NewQuple(q, p) compare equal.
type Quple struct {
	P, Q int
}

func NewQuple(p, q int) Quple {
	if p > q {
		p, q = q, p
	}
	return Quple{P: p, Q: q}
}

func (q Quple) String() string {
	return fmt.Sprintf("(%d,%d)", q.P, q.Q)
}

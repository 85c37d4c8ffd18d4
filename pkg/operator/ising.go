package operator

import "fmt"

// Ising is the transverse-field Ising Hamiltonian on a 1-dimensional ring of
// n spins, H = -J sum_i sz_i sz_{i+1} - h sum_i sx_i, in the z basis with
// local values in {-1, +1}. The field term connects each configuration to
// the n single-spin-flipped ones.
type Ising struct {
	n int
	h float64
	j float64
}

func NewIsing(n int, h, j float64) *Ising {
	return &Ising{n: n, h: h, j: j}
}

func (o *Ising) FindConn(x []float64) ([]complex128, [][]float64) {
	mels := make([]complex128, 0, o.n+1)
	primes := make([][]float64, 0, o.n+1)

	// Diagonal coupling term.
	diag := 0.0
	for i := 0; i < o.n; i++ {
		diag += x[i] * x[(i+1)%o.n]
	}
	mels = append(mels, complex(-o.j*diag, 0))
	primes = append(primes, append([]float64(nil), x...))

	// Off-diagonal field term, one flip per site.
	for i := 0; i < o.n; i++ {
		flipped := append([]float64(nil), x...)
		flipped[i] = -flipped[i]
		mels = append(mels, complex(-o.h, 0))
		primes = append(primes, flipped)
	}
	return mels, primes
}

func (o *Ising) String() string {
	return fmt.Sprintf("Ising(n=%d, h=%g, J=%g)", o.n, o.h, o.j)
}

package operator

import "fmt"

// Heisenberg is the spin-1/2 Heisenberg Hamiltonian on a 1-dimensional ring,
// H = J sum_i sigma_i . sigma_{i+1}, in the z basis with local values in
// {-1, +1}. Antiparallel neighbor pairs connect to the configuration with
// the pair exchanged. Total magnetization is conserved, so this Hamiltonian
// pairs naturally with the exchange sampling kernel.
type Heisenberg struct {
	n int
	j float64
}

func NewHeisenberg(n int, j float64) *Heisenberg {
	return &Heisenberg{n: n, j: j}
}

func (o *Heisenberg) FindConn(x []float64) ([]complex128, [][]float64) {
	mels := make([]complex128, 0, o.n+1)
	primes := make([][]float64, 0, o.n+1)

	diag := 0.0
	for i := 0; i < o.n; i++ {
		diag += x[i] * x[(i+1)%o.n]
	}
	mels = append(mels, complex(o.j*diag, 0))
	primes = append(primes, append([]float64(nil), x...))

	for i := 0; i < o.n; i++ {
		j := (i + 1) % o.n
		if x[i] == x[j] {
			continue
		}
		swapped := append([]float64(nil), x...)
		swapped[i], swapped[j] = swapped[j], swapped[i]
		mels = append(mels, complex(2*o.j, 0))
		primes = append(primes, swapped)
	}
	return mels, primes
}

func (o *Heisenberg) String() string {
	return fmt.Sprintf("Heisenberg(n=%d, J=%g)", o.n, o.j)
}

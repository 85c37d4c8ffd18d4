package core

// Operator is a quantum operator (Hamiltonian or observable) given by its
// connected-configuration structure: for a configuration x it enumerates the
// configurations x' with non-zero matrix element <x|O|x'>.
type Operator interface {
	// FindConn returns the matrix elements and the connected configurations
	// for x. The two slices have equal length; primes rows must not alias x.
	FindConn(x []float64) (mels []complex128, primes [][]float64)
}

package core

import "math/rand"

// TransitionKernel proposes local moves for a batch of Markov chains.
// Implementations are duck-typed variants (exchange, single-site flip, ...)
// selected at sampler construction.
type TransitionKernel interface {
	// Apply fills proposed[k] with a move from state[k] for every chain k and
	// writes the log-probability correction for the Metropolis ratio into
	// logProbCorr[k]. For symmetric proposals the correction is zero.
	//
	// The random source is owned by the caller, so a fixed seed reproduces
	// the full chain of proposals.
	Apply(rng *rand.Rand, state, proposed [][]float64, logProbCorr []float64)
}

// TargetWeight maps a wavefunction log-value to the log-weight of the
// sampled distribution, log F(Psi). It is a configuration surface of the
// sampler; the default is BornWeight.
type TargetWeight func(logVal complex128) float64

// BornWeight is the standard VMC target F(Psi) = |Psi|^2.
func BornWeight(logVal complex128) float64 {
	return 2 * real(logVal)
}

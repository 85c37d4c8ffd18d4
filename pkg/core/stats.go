package core

import "fmt"

// Stats summarizes the Monte Carlo estimate of an observable.
type Stats struct {
	// Mean is the sample mean of the local values.
	Mean complex128
	// Error is the estimated error of the mean, accounting for chain
	// correlations.
	Error float64
	// Variance is the plain sample variance of the local values.
	Variance float64
	// TauCorr estimates the integrated autocorrelation time in sweeps.
	TauCorr float64
	// R is the split-chain convergence diagnostic; values close to 1
	// indicate well-mixed chains.
	R float64
}

func (s Stats) String() string {
	if imag(s.Mean) == 0 {
		return fmt.Sprintf("%.6g ± %.3g [var=%.3g, tau=%.2f, R=%.4f]",
			real(s.Mean), s.Error, s.Variance, s.TauCorr, s.R)
	}
	return fmt.Sprintf("%.6g%+.3gi ± %.3g [var=%.3g, tau=%.2f, R=%.4f]",
		real(s.Mean), imag(s.Mean), s.Error, s.Variance, s.TauCorr, s.R)
}

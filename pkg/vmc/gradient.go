// Package vmc implements the variational Monte Carlo optimization driver:
// energy and gradient estimation from sampled buffers, the stochastic
// reconfiguration preconditioner, the optimizer adapter and the step loop.
package vmc

import (
	"math/cmplx"

	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// GradientOfExpectation estimates the gradient of <O> with respect to the
// variational parameters from per-sample local values and centered
// log-derivatives (flattened (nSamples, nPar) row-major):
//
//	grad_p = 2 Re < (O_loc - <O_loc>)* dlog_p >
//
// The log-derivatives must already be centered; centering the local values
// here makes the estimator unbiased without a second pass over raw data.
func GradientOfExpectation(locals []complex128, derLogs []complex128, nPar int) ([]float64, error) {
	n := len(locals)
	if n == 0 || nPar < 1 {
		return nil, errors.New(errors.ShapeMismatch, "gradient needs at least one sample and one parameter")
	}
	if len(derLogs) != n*nPar {
		return nil, errors.Newf(errors.ShapeMismatch,
			"have %d log-derivatives for %d samples x %d parameters", len(derLogs), n, nPar)
	}

	var mean complex128
	for _, v := range locals {
		mean += v
	}
	mean /= complex(float64(n), 0)

	grad := make([]float64, nPar)
	for s := 0; s < n; s++ {
		w := cmplx.Conj(locals[s] - mean)
		row := derLogs[s*nPar : (s+1)*nPar]
		for p, d := range row {
			grad[p] += real(w * d)
		}
	}
	norm := 2 / float64(n)
	for p := range grad {
		grad[p] *= norm
	}
	return grad, nil
}

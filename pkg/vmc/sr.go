package vmc

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/XiaoConstantine/vmc-go/pkg/config"
	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// defaultSVDThreshold drops singular values below threshold*sigma_max when
// no explicit cutoff is configured.
const defaultSVDThreshold = 1e-12

// SR preconditions the bare energy gradient with the inverse of the quantum
// geometric tensor S = <dlog* dlog^T> (stochastic reconfiguration, a.k.a.
// natural gradient). The tensor is frequently near-singular when the
// parameter count approaches the sample count, so the solve is regularized
// by a diagonal shift and, if requested or needed, an SVD rank cutoff.
type SR struct {
	diagShift    float64
	useSVD       bool
	svdThreshold float64
}

// NewSR validates the regularization surface; a negative diagonal shift is a
// configuration error, not a runtime condition.
func NewSR(cfg config.SRConfig) (*SR, error) {
	if cfg.DiagShift < 0 {
		return nil, errors.Newf(errors.InvalidConfig, "diag_shift must not be negative, got %v", cfg.DiagShift)
	}
	if cfg.SVDThreshold < 0 {
		return nil, errors.Newf(errors.InvalidConfig, "svd_threshold must not be negative, got %v", cfg.SVDThreshold)
	}
	threshold := cfg.SVDThreshold
	if threshold == 0 {
		threshold = defaultSVDThreshold
	}
	return &SR{
		diagShift:    cfg.DiagShift,
		useSVD:       cfg.UseSVD,
		svdThreshold: threshold,
	}, nil
}

// ComputeUpdate solves (S + shift*I) dp = grad and writes dp into out.
// derLogs holds the centered log-derivatives of all flattened samples as an
// (nSamples, nPar) row-major block. When Cholesky factorization fails (S
// singular and no shift) the solver falls back to an SVD pseudo-inverse, so
// the output stays finite for any PSD input.
func (sr *SR) ComputeUpdate(derLogs []complex128, nPar int, grad, out []float64) error {
	if nPar < 1 || len(derLogs)%nPar != 0 {
		return errors.Newf(errors.ShapeMismatch,
			"log-derivative block of %d entries does not divide into %d parameters", len(derLogs), nPar)
	}
	if len(grad) != nPar || len(out) != nPar {
		return errors.Newf(errors.ShapeMismatch,
			"gradient and output must have %d entries, got %d and %d", nPar, len(grad), len(out))
	}
	nSamples := len(derLogs) / nPar
	if nSamples == 0 {
		return errors.New(errors.ShapeMismatch, "no samples")
	}

	s := sr.geometricTensor(derLogs, nSamples, nPar)

	dst := mat.NewVecDense(nPar, out)
	b := mat.NewVecDense(nPar, grad)

	if !sr.useSVD {
		var ch mat.Cholesky
		if ch.Factorize(s) {
			if err := ch.SolveVecTo(dst, b); err == nil && allFinite(out) {
				return nil
			}
		}
	}

	if err := sr.solveSVD(s, b, dst); err != nil {
		return err
	}
	if !allFinite(out) {
		return errors.New(errors.SingularMatrix, "sr update is not finite after svd regularization")
	}
	return nil
}

// geometricTensor builds S_ab = Re < dlog_a* dlog_b > + shift*delta_ab.
func (sr *SR) geometricTensor(derLogs []complex128, nSamples, nPar int) *mat.SymDense {
	s := mat.NewSymDense(nPar, nil)
	inv := 1 / float64(nSamples)
	for a := 0; a < nPar; a++ {
		for b := a; b < nPar; b++ {
			acc := 0.0
			for k := 0; k < nSamples; k++ {
				row := derLogs[k*nPar:]
				acc += real(cmplx.Conj(row[a]) * row[b])
			}
			v := acc * inv
			if a == b {
				v += sr.diagShift
			}
			s.SetSym(a, b, v)
		}
	}
	return s
}

// solveSVD computes dst = pinv(s) * b, dropping singular values below
// threshold*sigma_max.
func (sr *SR) solveSVD(s *mat.SymDense, b, dst *mat.VecDense) error {
	var svd mat.SVD
	if !svd.Factorize(s, mat.SVDThin) {
		return errors.New(errors.SingularMatrix, "svd factorization of the geometric tensor failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	cut := 0.0
	if len(values) > 0 {
		cut = sr.svdThreshold * values[0]
	}

	n := dst.Len()
	coeffs := make([]float64, len(values))
	for j, sigma := range values {
		if sigma <= cut || sigma == 0 {
			continue
		}
		acc := 0.0
		for i := 0; i < n; i++ {
			acc += u.At(i, j) * b.AtVec(i)
		}
		coeffs[j] = acc / sigma
	}
	for i := 0; i < n; i++ {
		acc := 0.0
		for j := range coeffs {
			acc += v.At(i, j) * coeffs[j]
		}
		dst.SetVec(i, acc)
	}
	return nil
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (sr *SR) String() string {
	return fmt.Sprintf("SR(diag_shift=%g, use_svd=%t, svd_threshold=%g)",
		sr.diagShift, sr.useSVD, sr.svdThreshold)
}

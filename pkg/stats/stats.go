// Package stats summarizes Monte Carlo series into mean, error bar and
// correlation diagnostics. The error of the mean is estimated from the
// spread of per-chain (or per-block) means, which absorbs the
// autocorrelation of Metropolis samples.
package stats

import (
	"math"
	"math/cmplx"

	"github.com/XiaoConstantine/vmc-go/pkg/core"
	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// maxBlocks bounds the number of blocks used when only one chain is
// available and the series must be blocked for error estimation.
const maxBlocks = 32

// Statistics summarizes a local-value series laid out chain-major:
// values[c*L : (c+1)*L] is chain c. For a single chain the series is split
// into up to maxBlocks equal blocks instead.
func Statistics(values []complex128, nChains int) (core.Stats, error) {
	n := len(values)
	if nChains < 1 {
		return core.Stats{}, errors.Newf(errors.InvalidConfig, "n_chains must be at least 1, got %d", nChains)
	}
	if n == 0 || n%nChains != 0 {
		return core.Stats{}, errors.Newf(errors.ShapeMismatch,
			"series length %d is not a positive multiple of n_chains %d", n, nChains)
	}

	var mean complex128
	for _, v := range values {
		mean += v
	}
	mean /= complex(float64(n), 0)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += real(d * cmplx.Conj(d))
	}
	variance /= float64(n)

	groups := nChains
	if groups == 1 {
		groups = maxBlocks
		if n < groups {
			groups = n
		}
	}
	blockLen := n / groups

	// Between-group variance of means (B) and mean within-group variance (W).
	var between, within float64
	for g := 0; g < groups; g++ {
		block := values[g*blockLen : (g+1)*blockLen]
		var gm complex128
		for _, v := range block {
			gm += v
		}
		gm /= complex(float64(blockLen), 0)

		d := gm - mean
		between += real(d * cmplx.Conj(d))

		var gv float64
		for _, v := range block {
			dv := v - gm
			gv += real(dv * cmplx.Conj(dv))
		}
		within += gv / float64(blockLen)
	}
	within /= float64(groups)

	stats := core.Stats{Mean: mean, Variance: variance, TauCorr: 0, R: 1}
	if groups > 1 {
		between /= float64(groups - 1)
		stats.Error = math.Sqrt(between / float64(groups))
	}
	if within > 0 {
		l := float64(blockLen)
		tau := 0.5 * (l*between/within - 1)
		if tau > 0 {
			stats.TauCorr = tau
		}
		stats.R = math.Sqrt((l-1)/l + between/within)
	}
	return stats, nil
}

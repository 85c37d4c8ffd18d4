package sampler

import (
	"fmt"
	"math"

	"github.com/XiaoConstantine/vmc-go/pkg/config"
	"github.com/XiaoConstantine/vmc-go/pkg/core"
	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// MetropolisPT adds parallel-tempering replica exchange on top of the plain
// Metropolis chains. Every physical chain carries a ladder of replicas at
// inverse temperatures beta_j = 1 - j/nReplicas; after each sweep, adjacent
// replicas attempt to swap their full configurations. Only the beta = 1
// replica of each chain is exposed for recording.
type MetropolisPT struct {
	*Metropolis

	nPhysical int
	nReplicas int

	// visRows and visVals expose the beta = 1 replica of each chain.
	visRows [][]float64
	visVals []complex128

	tmpRow []float64

	swapAccepted uint64
	swapMoves    uint64
}

// NewMetropolisPT builds cfg.NChains ladders of cfg.NReplicas replicas each.
func NewMetropolisPT(machine core.Machine, kernel core.TransitionKernel, cfg config.SamplerConfig, opts ...Option) (*MetropolisPT, error) {
	if cfg.NReplicas < 2 {
		return nil, errors.Newf(errors.InvalidConfig,
			"parallel tempering needs at least 2 replicas, got %d", cfg.NReplicas)
	}
	if cfg.NChains < 1 {
		return nil, errors.Newf(errors.InvalidConfig, "n_chains must be at least 1, got %d", cfg.NChains)
	}

	nRows := cfg.NChains * cfg.NReplicas
	base, err := newChainPool(machine, kernel, cfg, nRows, opts...)
	if err != nil {
		return nil, err
	}

	betas := make([]float64, nRows)
	for c := 0; c < cfg.NChains; c++ {
		for j := 0; j < cfg.NReplicas; j++ {
			betas[c*cfg.NReplicas+j] = 1 - float64(j)/float64(cfg.NReplicas)
		}
	}
	base.betas = betas
	base.Reset()

	pt := &MetropolisPT{
		Metropolis: base,
		nPhysical:  cfg.NChains,
		nReplicas:  cfg.NReplicas,
		visRows:    make([][]float64, cfg.NChains),
		visVals:    make([]complex128, cfg.NChains),
		tmpRow:     make([]float64, machine.NVisible()),
	}
	for c := 0; c < cfg.NChains; c++ {
		pt.visRows[c] = base.state[c*cfg.NReplicas]
	}
	return pt, nil
}

// NChains returns the number of physical (beta = 1) chains.
func (pt *MetropolisPT) NChains() int { return pt.nPhysical }

// Visible returns the beta = 1 configuration row of each chain.
func (pt *MetropolisPT) Visible() [][]float64 { return pt.visRows }

// LogVals returns the cached log-values of the beta = 1 replicas.
func (pt *MetropolisPT) LogVals() []complex128 {
	for c := 0; c < pt.nPhysical; c++ {
		pt.visVals[c] = pt.Metropolis.logVals[c*pt.nReplicas]
	}
	return pt.visVals
}

// Sweep advances all replicas by one sweep, then attempts replica exchange.
func (pt *MetropolisPT) Sweep() {
	pt.Metropolis.Sweep()
	pt.exchangeReplicas()
}

// exchangeReplicas walks adjacent ladder pairs within each chain and swaps
// their configurations with probability min(1, exp((b_i - b_j)(E_j - E_i)))
// where E is the replica's un-tempered log-weight.
func (pt *MetropolisPT) exchangeReplicas() {
	for c := 0; c < pt.nPhysical; c++ {
		for j := 0; j < pt.nReplicas-1; j++ {
			i0 := c*pt.nReplicas + j
			i1 := i0 + 1

			e0 := pt.targetWeight(pt.Metropolis.logVals[i0])
			e1 := pt.targetWeight(pt.Metropolis.logVals[i1])
			dl := (pt.betas[i0] - pt.betas[i1]) * (e1 - e0)

			if dl >= 0 || pt.rng.Float64() < math.Exp(dl) {
				// Swap row contents, not slice headers, so the exposed
				// beta = 1 views stay valid.
				copy(pt.tmpRow, pt.state[i0])
				copy(pt.state[i0], pt.state[i1])
				copy(pt.state[i1], pt.tmpRow)
				pt.Metropolis.logVals[i0], pt.Metropolis.logVals[i1] =
					pt.Metropolis.logVals[i1], pt.Metropolis.logVals[i0]
				pt.swapAccepted++
			}
			pt.swapMoves++
		}
	}
}

// SwapAcceptance returns the accepted fraction of replica-exchange attempts.
func (pt *MetropolisPT) SwapAcceptance() float64 {
	if pt.swapMoves == 0 {
		return 0
	}
	return float64(pt.swapAccepted) / float64(pt.swapMoves)
}

func (pt *MetropolisPT) String() string {
	return fmt.Sprintf("MetropolisPT(n_chains=%d, n_replicas=%d, kernel=%v)",
		pt.nPhysical, pt.nReplicas, pt.kernel)
}

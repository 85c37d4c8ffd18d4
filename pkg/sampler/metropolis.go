package sampler

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/XiaoConstantine/vmc-go/pkg/config"
	"github.com/XiaoConstantine/vmc-go/pkg/core"
	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// Sampler is the surface the sample-buffer builder and the driver depend on.
// Metropolis and MetropolisPT are the two concrete implementations.
type Sampler interface {
	// Machine returns the wavefunction being sampled.
	Machine() core.Machine
	// Reset draws fresh random configurations and refreshes cached state.
	Reset()
	// Refresh recomputes cached log-values for the current configurations.
	// Required after the machine's parameters change.
	Refresh()
	// Sweep advances every chain by one sweep of propose/accept trials.
	Sweep()
	// Visible returns the current configuration rows, one per chain.
	// The rows are owned by the sampler and must be treated read-only.
	Visible() [][]float64
	// LogVals returns the cached wavefunction log-values aligned with
	// Visible(). Owned by the sampler, read-only.
	LogVals() []complex128
	// NChains returns the number of chains whose samples are recorded.
	NChains() int
	// Acceptance returns the fraction of accepted moves since the last
	// Reset or Refresh.
	Acceptance() float64
}

// Metropolis runs a batch of independent Markov chains with a pluggable
// transition kernel, targeting F(Psi) with the standard accept/reject rule
// min(1, exp(dw + corr)) where dw is the log-weight difference.
type Metropolis struct {
	machine      core.Machine
	kernel       core.TransitionKernel
	targetWeight core.TargetWeight
	rng          *rand.Rand

	nChains   int
	sweepSize int
	batchSize int

	localStates []float64

	state    [][]float64
	proposed [][]float64
	logVals  []complex128
	propVals []complex128
	logCorr  []float64

	// betas scales the log-weight difference per chain; nil means all ones.
	// Set by the parallel-tempering wrapper.
	betas []float64

	accepted uint64
	moves    uint64
}

// Option configures optional sampler behavior.
type Option func(*Metropolis)

// WithTargetWeight overrides the sampled distribution's log-weight function.
// The default is core.BornWeight, F(Psi) = |Psi|^2.
func WithTargetWeight(w core.TargetWeight) Option {
	return func(m *Metropolis) {
		m.targetWeight = w
	}
}

// NewMetropolis builds a sampler over cfg.NChains chains. The sweep size
// defaults to one trial per degree of freedom and the evaluation batch size
// to the chain count. The random source is owned and seeded from cfg.Seed.
func NewMetropolis(machine core.Machine, kernel core.TransitionKernel, cfg config.SamplerConfig, opts ...Option) (*Metropolis, error) {
	m, err := newChainPool(machine, kernel, cfg, cfg.NChains, opts...)
	if err != nil {
		return nil, err
	}
	m.Reset()
	return m, nil
}

// newChainPool allocates the chain state without drawing initial
// configurations; nRows may exceed cfg.NChains for replica ladders.
func newChainPool(machine core.Machine, kernel core.TransitionKernel, cfg config.SamplerConfig, nRows int, opts ...Option) (*Metropolis, error) {
	if machine == nil || kernel == nil {
		return nil, errors.New(errors.InvalidConfig, "machine and kernel are required")
	}
	if nRows < 1 {
		return nil, errors.Newf(errors.InvalidConfig, "n_chains must be at least 1, got %d", nRows)
	}
	if len(cfg.LocalStates) < 2 {
		return nil, errors.Newf(errors.InvalidConfig,
			"local_states needs at least 2 values, got %d", len(cfg.LocalStates))
	}
	if cfg.SweepSize < 0 || cfg.BatchSize < 0 {
		return nil, errors.New(errors.InvalidConfig, "sweep_size and batch_size must not be negative")
	}

	nv := machine.NVisible()
	sweepSize := cfg.SweepSize
	if sweepSize == 0 {
		sweepSize = nv
	}
	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = nRows
	}

	localStates := make([]float64, len(cfg.LocalStates))
	copy(localStates, cfg.LocalStates)

	m := &Metropolis{
		machine:      machine,
		kernel:       kernel,
		targetWeight: core.BornWeight,
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		nChains:      nRows,
		sweepSize:    sweepSize,
		batchSize:    batchSize,
		localStates:  localStates,
		state:        newBatch(nRows, nv),
		proposed:     newBatch(nRows, nv),
		logVals:      make([]complex128, nRows),
		propVals:     make([]complex128, nRows),
		logCorr:      make([]float64, nRows),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func newBatch(rows, cols int) [][]float64 {
	flat := make([]float64, rows*cols)
	batch := make([][]float64, rows)
	for i := range batch {
		batch[i] = flat[i*cols : (i+1)*cols]
	}
	return batch
}

func (m *Metropolis) Machine() core.Machine { return m.machine }

func (m *Metropolis) NChains() int { return m.nChains }

func (m *Metropolis) Visible() [][]float64 { return m.state }

func (m *Metropolis) LogVals() []complex128 { return m.logVals }

// Reset draws every site of every chain uniformly from the local state
// space, then refreshes cached log-values and acceptance counters.
func (m *Metropolis) Reset() {
	for _, row := range m.state {
		for i := range row {
			row[i] = m.localStates[m.rng.Intn(len(m.localStates))]
		}
	}
	m.Refresh()
}

// Refresh recomputes the cached log-values for the current configurations
// and clears the acceptance counters. Call after parameter updates.
func (m *Metropolis) Refresh() {
	m.evalLogVals(m.logVals, m.state)
	m.accepted = 0
	m.moves = 0
}

// SetVisible replaces the chain configurations, e.g. to start sampling in a
// specific invariant sector of the exchange kernel.
func (m *Metropolis) SetVisible(batch [][]float64) error {
	if len(batch) != m.nChains {
		return errors.Newf(errors.ShapeMismatch, "expected %d rows, got %d", m.nChains, len(batch))
	}
	nv := m.machine.NVisible()
	for i, row := range batch {
		if len(row) != nv {
			return errors.Newf(errors.ShapeMismatch, "row %d has %d sites, expected %d", i, len(row), nv)
		}
		copy(m.state[i], row)
	}
	m.Refresh()
	return nil
}

// Sweep performs sweepSize propose/score/accept-reject trials on all chains.
// Chains accept or reject independently, each with its own uniform draw.
func (m *Metropolis) Sweep() {
	for t := 0; t < m.sweepSize; t++ {
		m.kernel.Apply(m.rng, m.state, m.proposed, m.logCorr)
		m.evalLogVals(m.propVals, m.proposed)

		for k := range m.state {
			dw := m.targetWeight(m.propVals[k]) - m.targetWeight(m.logVals[k])
			if m.betas != nil {
				dw *= m.betas[k]
			}
			dw += m.logCorr[k]

			if dw >= 0 || m.rng.Float64() < math.Exp(dw) {
				copy(m.state[k], m.proposed[k])
				m.logVals[k] = m.propVals[k]
				m.accepted++
			}
			m.moves++
		}
	}
}

// Acceptance returns the accepted fraction of moves since the last Refresh.
func (m *Metropolis) Acceptance() float64 {
	if m.moves == 0 {
		return 0
	}
	return float64(m.accepted) / float64(m.moves)
}

// evalLogVals scores a batch in chunks of at most batchSize rows, keeping the
// wavefunction call width independent of the chain count.
func (m *Metropolis) evalLogVals(dst []complex128, batch [][]float64) {
	for start := 0; start < len(batch); start += m.batchSize {
		end := start + m.batchSize
		if end > len(batch) {
			end = len(batch)
		}
		m.machine.LogVals(dst[start:end], batch[start:end])
	}
}

func (m *Metropolis) String() string {
	return fmt.Sprintf("Metropolis(n_chains=%d, sweep_size=%d, kernel=%v)",
		m.nChains, m.sweepSize, m.kernel)
}

package sampler

import (
	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// SampleBuffer is the immutable output of one sampling run: configurations,
// wavefunction log-values and centered log-derivatives for every retained
// sweep of every chain. Samples are laid out chain-major, so the flattened
// sample index is chain*NSweeps + sweep.
type SampleBuffer struct {
	nChains  int
	nSweeps  int
	nVisible int
	nPar     int

	configs []float64    // (chains, sweeps, visible)
	logVals []complex128 // (chains, sweeps)
	derLogs []complex128 // (chains, sweeps, npar), centered
}

func (b *SampleBuffer) NChains() int  { return b.nChains }
func (b *SampleBuffer) NSweeps() int  { return b.nSweeps }
func (b *SampleBuffer) NVisible() int { return b.nVisible }
func (b *SampleBuffer) NPar() int     { return b.nPar }

// NSamples returns the total number of retained samples across chains.
func (b *SampleBuffer) NSamples() int { return b.nChains * b.nSweeps }

// Config returns the configuration of one sample as a read-only view.
func (b *SampleBuffer) Config(chain, sweep int) []float64 {
	off := (chain*b.nSweeps + sweep) * b.nVisible
	return b.configs[off : off+b.nVisible]
}

// LogVal returns the wavefunction log-value of one sample.
func (b *SampleBuffer) LogVal(chain, sweep int) complex128 {
	return b.logVals[chain*b.nSweeps+sweep]
}

// LogValsFlat returns all log-values in flattened sample order. Read-only.
func (b *SampleBuffer) LogValsFlat() []complex128 { return b.logVals }

// DerLog returns the centered log-derivative row of one sample. Read-only.
func (b *SampleBuffer) DerLog(chain, sweep int) []complex128 {
	off := (chain*b.nSweeps + sweep) * b.nPar
	return b.derLogs[off : off+b.nPar]
}

// DerLogsFlat returns the centered log-derivatives as an
// (NSamples, NPar) row-major block. Read-only.
func (b *SampleBuffer) DerLogsFlat() []complex128 { return b.derLogs }

// ComputeSamples refreshes the sampler against the machine's current
// parameters, runs nDiscard thermalization sweeps, then records sweeps until
// at least nSamples samples are collected across all chains. Log-derivatives
// are centered here (mean over all samples subtracted per parameter) so that
// gradient estimation needs no second pass.
func ComputeSamples(s Sampler, nSamples, nDiscard int) (*SampleBuffer, error) {
	if nSamples < 1 {
		return nil, errors.Newf(errors.InvalidConfig, "n_samples must be at least 1, got %d", nSamples)
	}
	if nDiscard < 0 {
		return nil, errors.Newf(errors.InvalidConfig, "n_discard must not be negative, got %d", nDiscard)
	}

	machine := s.Machine()
	nChains := s.NChains()
	nVisible := machine.NVisible()
	nPar := machine.NPar()

	// Sweeps per chain, rounded up so the total reaches the target.
	nSweeps := (nSamples + nChains - 1) / nChains

	// Thermalization applies every time sampling restarts, not only on the
	// first call: the parameters (and thus the target distribution) changed.
	s.Refresh()
	for i := 0; i < nDiscard; i++ {
		s.Sweep()
	}

	b := &SampleBuffer{
		nChains:  nChains,
		nSweeps:  nSweeps,
		nVisible: nVisible,
		nPar:     nPar,
		configs:  make([]float64, nChains*nSweeps*nVisible),
		logVals:  make([]complex128, nChains*nSweeps),
		derLogs:  make([]complex128, nChains*nSweeps*nPar),
	}

	derRows := make([][]complex128, nChains)
	for sweep := 0; sweep < nSweeps; sweep++ {
		s.Sweep()

		visible := s.Visible()
		logVals := s.LogVals()
		for c := 0; c < nChains; c++ {
			idx := c*nSweeps + sweep
			copy(b.configs[idx*nVisible:(idx+1)*nVisible], visible[c])
			b.logVals[idx] = logVals[c]
			derRows[c] = b.derLogs[idx*nPar : (idx+1)*nPar]
		}
		machine.DerLogs(derRows, visible)
	}

	centerDerLogs(b.derLogs, b.NSamples(), nPar)
	return b, nil
}

// centerDerLogs subtracts the per-parameter sample mean in place.
func centerDerLogs(derLogs []complex128, nSamples, nPar int) {
	if nSamples == 0 || nPar == 0 {
		return
	}
	means := make([]complex128, nPar)
	for s := 0; s < nSamples; s++ {
		row := derLogs[s*nPar : (s+1)*nPar]
		for p, v := range row {
			means[p] += v
		}
	}
	inv := complex(1/float64(nSamples), 0)
	for p := range means {
		means[p] *= inv
	}
	for s := 0; s < nSamples; s++ {
		row := derLogs[s*nPar : (s+1)*nPar]
		for p := range row {
			row[p] -= means[p]
		}
	}
}

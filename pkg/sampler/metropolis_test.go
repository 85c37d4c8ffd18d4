package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/vmc-go/internal/testutil"
	"github.com/XiaoConstantine/vmc-go/pkg/config"
	"github.com/XiaoConstantine/vmc-go/pkg/core"
)

func newTestSampler(t *testing.T, nChains int, seed int64) (*Metropolis, *testutil.LogLinear) {
	t.Helper()
	machine := testutil.NewLogLinear(6)
	kernel, err := NewExchangeKernel(testutil.RingDistances(6), 1)
	require.NoError(t, err)

	smp, err := NewMetropolis(machine, kernel, config.SamplerConfig{
		NChains:     nChains,
		Seed:        seed,
		LocalStates: []float64{-1, 1},
	})
	require.NoError(t, err)
	return smp, machine
}

func rowSums(batch [][]float64) []float64 {
	sums := make([]float64, len(batch))
	for i, row := range batch {
		for _, v := range row {
			sums[i] += v
		}
	}
	return sums
}

func TestSweepConservesExchangeInvariant(t *testing.T) {
	smp, _ := newTestSampler(t, 8, 1)

	before := rowSums(smp.Visible())
	for i := 0; i < 20; i++ {
		smp.Sweep()
	}
	assert.Equal(t, before, rowSums(smp.Visible()))
}

func TestSweepKeepsLogValsConsistent(t *testing.T) {
	smp, machine := newTestSampler(t, 4, 2)
	machine.SetParameters([]float64{0.3, -0.2, 0.1, 0.4, -0.5, 0.2})
	smp.Refresh()

	for i := 0; i < 10; i++ {
		smp.Sweep()
	}

	fresh := make([]complex128, 4)
	machine.LogVals(fresh, smp.Visible())
	for c, lv := range smp.LogVals() {
		assert.InDelta(t, real(fresh[c]), real(lv), 1e-12)
	}
}

func TestSamplingIsReproducible(t *testing.T) {
	a, _ := newTestSampler(t, 4, 42)
	b, _ := newTestSampler(t, 4, 42)

	for i := 0; i < 5; i++ {
		a.Sweep()
		b.Sweep()
	}
	assert.Equal(t, a.Visible(), b.Visible())
}

func TestAcceptanceBounds(t *testing.T) {
	smp, _ := newTestSampler(t, 8, 3)
	assert.Zero(t, smp.Acceptance())

	for i := 0; i < 10; i++ {
		smp.Sweep()
	}
	rate := smp.Acceptance()
	assert.GreaterOrEqual(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 1.0)

	// With uniform amplitudes every exchange move is accepted.
	assert.Equal(t, 1.0, rate)
}

func TestEvaluationBatchSize(t *testing.T) {
	machine := testutil.NewLogLinear(6)
	kernel, err := NewExchangeKernel(testutil.RingDistances(6), 1)
	require.NoError(t, err)

	smp, err := NewMetropolis(machine, kernel, config.SamplerConfig{
		NChains:     16,
		BatchSize:   4,
		LocalStates: []float64{-1, 1},
	})
	require.NoError(t, err)

	smp.Sweep()
	assert.LessOrEqual(t, machine.MaxBatch, 4)
}

func TestSetVisible(t *testing.T) {
	smp, _ := newTestSampler(t, 2, 4)

	err := smp.SetVisible([][]float64{
		{1, 1, 1, -1, -1, -1},
		{1, -1, 1, -1, 1, -1},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, rowSums(smp.Visible()))

	assert.Error(t, smp.SetVisible([][]float64{{1, 1}}))
	assert.Error(t, smp.SetVisible([][]float64{{1}, {1}}))
}

func TestCustomTargetWeight(t *testing.T) {
	machine := testutil.NewLogLinear(4)
	kernel, err := NewLocalKernel([]float64{-1, 1})
	require.NoError(t, err)

	// F(Psi) = |Psi| instead of |Psi|^2.
	smp, err := NewMetropolis(machine, kernel, config.SamplerConfig{
		NChains:     2,
		LocalStates: []float64{-1, 1},
	}, WithTargetWeight(func(lv complex128) float64 { return real(lv) }))
	require.NoError(t, err)

	var _ core.TargetWeight = core.BornWeight
	smp.Sweep()
	assert.Len(t, smp.Visible(), 2)
}

func TestConstructionErrors(t *testing.T) {
	machine := testutil.NewLogLinear(4)
	kernel, err := NewLocalKernel([]float64{-1, 1})
	require.NoError(t, err)

	_, err = NewMetropolis(nil, kernel, config.SamplerConfig{NChains: 1, LocalStates: []float64{-1, 1}})
	assert.Error(t, err)

	_, err = NewMetropolis(machine, kernel, config.SamplerConfig{NChains: 0, LocalStates: []float64{-1, 1}})
	assert.Error(t, err)

	_, err = NewMetropolis(machine, kernel, config.SamplerConfig{NChains: 2, LocalStates: []float64{1}})
	assert.Error(t, err)
}

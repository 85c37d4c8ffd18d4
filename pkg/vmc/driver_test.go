package vmc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/vmc-go/internal/testutil"
	"github.com/XiaoConstantine/vmc-go/pkg/config"
	"github.com/XiaoConstantine/vmc-go/pkg/core"
	"github.com/XiaoConstantine/vmc-go/pkg/operator"
	"github.com/XiaoConstantine/vmc-go/pkg/optimizers"
	"github.com/XiaoConstantine/vmc-go/pkg/sampler"
)

func newTestDriver(t *testing.T, opts ...Option) (*Driver, *testutil.LogLinear) {
	t.Helper()
	machine := testutil.NewLogLinear(8)
	kernel, err := sampler.NewExchangeKernel(testutil.RingDistances(8), 1)
	require.NoError(t, err)

	smp, err := sampler.NewMetropolis(machine, kernel, config.SamplerConfig{
		NChains:     16,
		Seed:        21,
		LocalStates: []float64{-1, 1},
	})
	require.NoError(t, err)

	ham := operator.NewHeisenberg(8, 1.0)
	d, err := New(ham, machine, smp, optimizers.NewSgd(0.05), 500, opts...)
	require.NoError(t, err)
	return d, machine
}

func TestAdvanceZeroSamplesOnce(t *testing.T) {
	d, machine := newTestDriver(t)
	before := machine.Parameters()

	require.Nil(t, d.SampleBuffer())
	require.NoError(t, d.Advance(0))

	// Advance(0) triggers the lazy initial sampling but performs no step.
	buf := d.SampleBuffer()
	require.NotNil(t, buf)
	assert.Zero(t, d.StepCount())
	assert.Equal(t, before, machine.Parameters())

	// A second Advance(0) keeps the existing buffer.
	require.NoError(t, d.Advance(0))
	assert.Same(t, buf, d.SampleBuffer())
}

func TestAdvanceRunsOptimizationSteps(t *testing.T) {
	d, machine := newTestDriver(t, WithNDiscard(50))
	before := machine.Parameters()

	require.NoError(t, d.Advance(1))
	assert.Equal(t, 1, d.StepCount())

	buf := d.SampleBuffer()
	assert.Equal(t, 16, buf.NChains())
	assert.GreaterOrEqual(t, buf.NSweeps(), 32)
	assert.Equal(t, 8, buf.NVisible())

	st := d.EnergyStats()
	assert.False(t, math.IsNaN(real(st.Mean)))
	assert.GreaterOrEqual(t, st.Error, 0.0)
	assert.GreaterOrEqual(t, st.Variance, 0.0)

	assert.NotEqual(t, before, machine.Parameters())

	require.NoError(t, d.Advance(3))
	assert.Equal(t, 4, d.StepCount())
}

func TestAdvanceWithSR(t *testing.T) {
	sr, err := NewSR(config.SRConfig{DiagShift: 0.1})
	require.NoError(t, err)

	d, _ := newTestDriver(t, WithSR(sr))
	require.NoError(t, d.Advance(2))
	assert.Equal(t, 2, d.StepCount())

	for _, p := range d.machine.Parameters() {
		assert.False(t, math.IsNaN(p))
	}
}

func TestAdvanceRejectsNegativeSteps(t *testing.T) {
	d, _ := newTestDriver(t)
	assert.Error(t, d.Advance(-1))
}

func TestIterYieldsAfterEachAdvance(t *testing.T) {
	d, _ := newTestDriver(t)

	var counters []int
	for count, err := range d.Iter(5, 2) {
		require.NoError(t, err)
		counters = append(counters, count)
	}
	// ceil(5/2) yields of 2 steps each.
	assert.Equal(t, []int{2, 4, 6}, counters)
	assert.Equal(t, 6, d.StepCount())

	// A second pass continues, it does not restart.
	for count, err := range d.Iter(2, 2) {
		require.NoError(t, err)
		assert.Equal(t, 8, count)
	}
}

func TestIterEarlyBreak(t *testing.T) {
	d, _ := newTestDriver(t)

	for range d.Iter(10, 1) {
		break
	}
	assert.Equal(t, 1, d.StepCount())
}

func TestIterValidation(t *testing.T) {
	d, _ := newTestDriver(t)

	var got error
	for _, err := range d.Iter(5, 0) {
		got = err
	}
	assert.Error(t, got)
}

func TestGetObservableStats(t *testing.T) {
	d, _ := newTestDriver(t)
	d.AddObservable("Magnetization", testutil.SumOperator{})

	// Works before any optimization step: sampling happens on demand.
	res, err := d.GetObservableStats(nil, true)
	require.NoError(t, err)
	require.Contains(t, res, "Energy")
	require.Contains(t, res, "Magnetization")

	// Exchange sampling conserves the total magnetization, so every chain
	// contributes a constant series and only between-chain spread remains.
	mag := res["Magnetization"]
	assert.False(t, math.IsNaN(real(mag.Mean)))
	assert.GreaterOrEqual(t, mag.Error, 0.0)
	assert.Zero(t, mag.TauCorr)

	// An explicit map overrides the registered observables.
	res, err = d.GetObservableStats(map[string]core.Operator{"Sum": testutil.SumOperator{}}, false)
	require.NoError(t, err)
	assert.NotContains(t, res, "Energy")
	assert.NotContains(t, res, "Magnetization")
	assert.Contains(t, res, "Sum")
}

func TestDriverStringAndInfo(t *testing.T) {
	d, _ := newTestDriver(t)
	assert.Equal(t, "Vmc(step_count=0, n_samples=500, n_discard=50)", d.String())

	info := d.Info(0)
	assert.Contains(t, info, "Hamiltonian")
	assert.Contains(t, info, "Heisenberg")
	assert.Contains(t, info, "Sampler")
	assert.Contains(t, info, "Sgd")
	assert.Contains(t, info, "SR solver: none")

	require.NoError(t, d.Advance(1))
	assert.Equal(t, "Vmc(step_count=1, n_samples=500, n_discard=50)", d.String())
}

func TestNewValidation(t *testing.T) {
	d, machine := newTestDriver(t)

	_, err := New(nil, machine, d.smp, optimizers.NewSgd(0.1), 100)
	assert.Error(t, err)

	_, err = New(d.ham, machine, d.smp, optimizers.NewSgd(0.1), 0)
	assert.Error(t, err)

	_, err = New(d.ham, machine, d.smp, "not an optimizer", 100)
	assert.Error(t, err)

	_, err = New(d.ham, machine, d.smp, optimizers.NewSgd(0.1), 100, WithNDiscard(-1))
	assert.Error(t, err)
}

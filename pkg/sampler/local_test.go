package sampler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalKernelFlipsOneSite(t *testing.T) {
	kernel, err := NewLocalKernel([]float64{-1, 0, 1})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(5))
	state := [][]float64{{-1, 0, 1, 1}}
	proposed := newBatch(1, 4)
	corr := make([]float64, 1)

	for trial := 0; trial < 200; trial++ {
		kernel.Apply(rng, state, proposed, corr)
		assert.Zero(t, corr[0])

		diff := 0
		for i := range state[0] {
			if state[0][i] != proposed[0][i] {
				diff++
				// The new value is a different valid local state.
				assert.Contains(t, []float64{-1, 0, 1}, proposed[0][i])
			}
		}
		assert.Equal(t, 1, diff)
	}
}

func TestLocalKernelConstruction(t *testing.T) {
	_, err := NewLocalKernel([]float64{1})
	assert.Error(t, err)

	_, err = NewLocalKernel([]float64{1, 1})
	assert.Error(t, err)

	_, err = NewLocalKernel([]float64{-1, 1})
	assert.NoError(t, err)
}

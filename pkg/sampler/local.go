package sampler

import (
	"fmt"
	"math/rand"

	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// LocalKernel proposes single-site flips: one degree of freedom is chosen
// uniformly and set to a different value drawn uniformly from the local state
// space. Unlike the exchange kernel it does not conserve configuration sums.
type LocalKernel struct {
	localStates []float64
}

// NewLocalKernel requires at least two distinct local states, otherwise no
// nontrivial flip exists.
func NewLocalKernel(localStates []float64) (*LocalKernel, error) {
	if len(localStates) < 2 {
		return nil, errors.Newf(errors.InvalidConfig,
			"local kernel needs at least 2 local states, got %d", len(localStates))
	}
	seen := make(map[float64]bool, len(localStates))
	for _, s := range localStates {
		if seen[s] {
			return nil, errors.Newf(errors.InvalidConfig, "duplicate local state %v", s)
		}
		seen[s] = true
	}

	states := make([]float64, len(localStates))
	copy(states, localStates)
	return &LocalKernel{localStates: states}, nil
}

// Apply flips one uniformly chosen site per chain to a different local state.
// Both the site and the replacement value are uniform draws, so the proposal
// is symmetric and the correction term is zero.
func (k *LocalKernel) Apply(rng *rand.Rand, state, proposed [][]float64, logProbCorr []float64) {
	for c := range state {
		copy(proposed[c], state[c])

		site := rng.Intn(len(state[c]))
		// Draw among the other states by skipping the current one.
		next := k.localStates[rng.Intn(len(k.localStates)-1)]
		if next == state[c][site] {
			next = k.localStates[len(k.localStates)-1]
		}
		proposed[c][site] = next

		logProbCorr[c] = 0
	}
}

func (k *LocalKernel) String() string {
	return fmt.Sprintf("LocalKernel(states=%d)", len(k.localStates))
}

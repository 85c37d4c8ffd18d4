package sampler

import (
	"fmt"
	"math/rand"

	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// ExchangeKernel proposes moves that swap the values of two degrees of
// freedom within a maximum graph distance of each other. The pair is drawn
// uniformly from the cluster list built at construction, so the proposal is
// symmetric and the log-probability correction is identically zero.
//
// Since exchanges only permute values among sites, any symmetric function of
// the configuration (e.g. the total magnetization) is conserved by every
// accepted move. Sampling with this kernel alone therefore never leaves the
// invariant sector of the initial configuration; it is only ergodic within
// subspaces where such sums are constant.
type ExchangeKernel struct {
	clusters [][2]int
}

// NewExchangeKernel builds the cluster list of all index pairs (i, j), i < j,
// with distances[i][j] <= dMax. An empty cluster list means the kernel has no
// moves at all; this is reported as a configuration error here rather than a
// runtime failure during sampling.
func NewExchangeKernel(distances [][]float64, dMax float64) (*ExchangeKernel, error) {
	if dMax < 0 {
		return nil, errors.Newf(errors.InvalidConfig, "d_max must not be negative, got %v", dMax)
	}
	n := len(distances)
	for i, row := range distances {
		if len(row) != n {
			return nil, errors.Newf(errors.InvalidConfig,
				"distance matrix must be square, row %d has %d entries for size %d", i, len(row), n)
		}
	}

	var clusters [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if distances[i][j] <= dMax {
				clusters = append(clusters, [2]int{i, j})
			}
		}
	}

	if len(clusters) == 0 {
		return nil, errors.WithFields(
			errors.New(errors.EmptyClusterList,
				"no degree-of-freedom pairs within d_max; the exchange kernel cannot propose any move"),
			errors.Fields{"d_max": dMax, "size": n})
	}

	return &ExchangeKernel{clusters: clusters}, nil
}

// Apply swaps one uniformly chosen cluster pair per chain. All other sites
// are copied unchanged and the correction term is zero for every chain.
func (k *ExchangeKernel) Apply(rng *rand.Rand, state, proposed [][]float64, logProbCorr []float64) {
	for c := range state {
		copy(proposed[c], state[c])

		cl := k.clusters[rng.Intn(len(k.clusters))]
		proposed[c][cl[0]], proposed[c][cl[1]] = state[c][cl[1]], state[c][cl[0]]

		logProbCorr[c] = 0
	}
}

// Clusters returns a copy of the cluster list.
func (k *ExchangeKernel) Clusters() [][2]int {
	out := make([][2]int, len(k.clusters))
	copy(out, k.clusters)
	return out
}

func (k *ExchangeKernel) String() string {
	return fmt.Sprintf("ExchangeKernel(clusters=%d)", len(k.clusters))
}

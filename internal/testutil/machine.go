// Package testutil provides deterministic machines and helpers shared by the
// package tests.
package testutil

import "sync"

// LogLinear is the simplest nontrivial machine: log Psi(s) = sum_i a_i s_i
// with one real parameter per site. The log-derivative with respect to a_i
// is s_i, which makes gradients and geometric tensors easy to verify by
// hand.
type LogLinear struct {
	mu     sync.Mutex
	params []float64

	// MaxBatch records the largest batch LogVals was called with, letting
	// tests assert the sampler's evaluation batch size.
	MaxBatch int
}

func NewLogLinear(n int) *LogLinear {
	return &LogLinear{params: make([]float64, n)}
}

func (m *LogLinear) NVisible() int { return len(m.params) }
func (m *LogLinear) NPar() int     { return len(m.params) }

func (m *LogLinear) LogVals(dst []complex128, batch [][]float64) {
	m.mu.Lock()
	if len(batch) > m.MaxBatch {
		m.MaxBatch = len(batch)
	}
	m.mu.Unlock()

	for i, row := range batch {
		acc := 0.0
		for p, s := range row {
			acc += m.params[p] * s
		}
		dst[i] = complex(acc, 0)
	}
}

func (m *LogLinear) DerLogs(dst [][]complex128, batch [][]float64) {
	for i, row := range batch {
		for p, s := range row {
			dst[i][p] = complex(s, 0)
		}
	}
}

func (m *LogLinear) Parameters() []float64 {
	out := make([]float64, len(m.params))
	copy(out, m.params)
	return out
}

func (m *LogLinear) SetParameters(params []float64) {
	copy(m.params, params)
}

// RingDistances returns the graph distance matrix of a 1-dimensional ring of
// n sites, d(i, j) = min(|i-j|, n-|i-j|).
func RingDistances(n int) [][]float64 {
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			diff := i - j
			if diff < 0 {
				diff = -diff
			}
			if n-diff < diff {
				diff = n - diff
			}
			d[i][j] = float64(diff)
		}
	}
	return d
}

// SumOperator is a diagonal observable measuring sum_i s_i. Handy for
// checking that exchange sampling conserves configuration sums.
type SumOperator struct{}

func (SumOperator) FindConn(x []float64) ([]complex128, [][]float64) {
	acc := 0.0
	for _, s := range x {
		acc += s
	}
	return []complex128{complex(acc, 0)}, [][]float64{append([]float64(nil), x...)}
}

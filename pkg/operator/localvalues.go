// Package operator provides local-value estimation for quantum operators and
// a couple of reference spin Hamiltonians.
package operator

import (
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/XiaoConstantine/vmc-go/pkg/core"
	"github.com/XiaoConstantine/vmc-go/pkg/errors"
	"github.com/XiaoConstantine/vmc-go/pkg/sampler"
)

// LocalValues computes the importance-sampling estimator
//
//	O_loc(x) = sum_x' <x|O|x'> * Psi(x') / Psi(x)
//
// for every sample in the buffer, in flattened chain-major order. Chains are
// evaluated in parallel; the machine is only read, never mutated.
func LocalValues(machine core.Machine, op core.Operator, buf *sampler.SampleBuffer) ([]complex128, error) {
	if machine == nil || op == nil || buf == nil {
		return nil, errors.New(errors.InvalidConfig, "machine, operator and buffer are required")
	}

	nChains := buf.NChains()
	nSweeps := buf.NSweeps()
	locals := make([]complex128, buf.NSamples())

	var (
		errMu    sync.Mutex
		firstErr error
	)
	p := pool.New().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for c := 0; c < nChains; c++ {
		p.Go(func() {
			for s := 0; s < nSweeps; s++ {
				loc, err := localValue(machine, op, buf.Config(c, s), buf.LogVal(c, s))
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					return
				}
				locals[c*nSweeps+s] = loc
			}
		})
	}
	p.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return locals, nil
}

func localValue(machine core.Machine, op core.Operator, x []float64, logVal complex128) (complex128, error) {
	mels, primes := op.FindConn(x)
	if len(mels) != len(primes) {
		return 0, errors.Newf(errors.ShapeMismatch,
			"operator returned %d matrix elements for %d connected configurations", len(mels), len(primes))
	}
	if len(mels) == 0 {
		return 0, nil
	}

	logPrimes := make([]complex128, len(primes))
	machine.LogVals(logPrimes, primes)

	var acc complex128
	for i, mel := range mels {
		acc += mel * cmplx.Exp(logPrimes[i]-logVal)
	}
	return acc, nil
}

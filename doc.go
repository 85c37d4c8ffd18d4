// Package vmc is a Go implementation of variational Monte Carlo (VMC) energy
// minimization for parameterized quantum wavefunctions.
//
// VMC-Go provides a Metropolis-Hastings sampling engine and a stochastic
// optimization driver for ground-state search. It focuses on making it easy to:
//   - Run many independent Markov chains with pluggable local-move kernels
//   - Estimate energies and gradients from correlated Monte Carlo samples
//   - Precondition gradients with stochastic reconfiguration (natural gradient)
//   - Plug in any optimizer through a single step-function contract
//
// Key Components:
//
//   - Core: Fundamental abstractions like Machine, Operator, TransitionKernel
//     and Stats that the sampling and optimization layers are written against.
//
//   - Sampler: Batched Metropolis-Hastings chains, with an exchange kernel
//     (distance-bounded pair swaps), a single-site flip kernel, and a
//     parallel-tempering variant running a ladder of replicas.
//
//   - Operator: Local-value estimation for Hamiltonians and observables,
//     plus reference spin operators (transverse-field Ising, Heisenberg).
//
//   - Optimizers: Update rules (SGD, Momentum, AdaMax) usable directly or
//     through the driver's optimizer adapter.
//
//   - VMC: The optimization driver tying it all together - sample, estimate,
//     optionally apply stochastic reconfiguration, step, resample.
//
// Simple Example:
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/XiaoConstantine/vmc-go/pkg/config"
//	    "github.com/XiaoConstantine/vmc-go/pkg/operator"
//	    "github.com/XiaoConstantine/vmc-go/pkg/optimizers"
//	    "github.com/XiaoConstantine/vmc-go/pkg/sampler"
//	    "github.com/XiaoConstantine/vmc-go/pkg/vmc"
//	)
//
//	func main() {
//	    ha := operator.NewHeisenberg(8, 1.0)
//	    ma := NewMyMachine(8)
//
//	    kernel, err := sampler.NewExchangeKernel(RingDistances(8), 1)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    smp, err := sampler.NewMetropolis(ma, kernel, config.SamplerConfig{
//	        NChains:     16,
//	        LocalStates: []float64{-1, 1},
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    driver, err := vmc.New(ha, ma, smp, optimizers.NewSgd(0.05), 500)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for step, err := range driver.Iter(100, 10) {
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        fmt.Printf("step %d: %v\n", step, driver.EnergyStats())
//	    }
//	}
//
// Advanced Features:
//
//   - Stochastic Reconfiguration: Regularized natural-gradient solves against
//     the quantum geometric tensor, with diagonal shift and SVD cutoff.
//
//   - Parallel Tempering: Replica-exchange sampling over a temperature ladder
//     for systems where local moves mix slowly.
//
//   - Structured Logging: Leveled logging of per-step energies and sampler
//     acceptance rates for long optimization runs.
//
//   - Configuration: YAML-loadable, validated settings for samplers, runs and
//     regularization.
//
// For more examples and detailed documentation, visit:
// https://github.com/XiaoConstantine/vmc-go
//
// VMC-Go is released under the MIT License.
package vmc

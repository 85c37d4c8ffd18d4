package vmc

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"

	"github.com/XiaoConstantine/vmc-go/pkg/core"
	"github.com/XiaoConstantine/vmc-go/pkg/errors"
	"github.com/XiaoConstantine/vmc-go/pkg/logging"
	"github.com/XiaoConstantine/vmc-go/pkg/operator"
	"github.com/XiaoConstantine/vmc-go/pkg/sampler"
	"github.com/XiaoConstantine/vmc-go/pkg/stats"
)

// Driver runs the VMC optimization loop: sample, estimate energy and
// gradient, optionally precondition with stochastic reconfiguration, step
// the optimizer, resample against the updated parameters.
//
// The driver is not reentrant: overlapping Advance calls on the same
// instance are undefined behavior. The parameter vector is the only state
// shared with the machine and is mutated once, at the end of each step.
type Driver struct {
	ham     core.Operator
	machine core.Machine
	smp     sampler.Sampler
	sr      *SR

	stepFn  StepFunc
	optDesc string

	nPar     int
	nSamples int
	nDiscard int

	buf        *sampler.SampleBuffer
	energy     core.Stats
	haveEnergy bool
	obs        map[string]core.Operator

	stepCount int

	ctx    context.Context
	logger *logging.Logger
}

// Option configures optional driver behavior.
type Option func(*Driver) error

// WithSR enables stochastic reconfiguration of the bare gradient.
func WithSR(sr *SR) Option {
	return func(d *Driver) error {
		d.sr = sr
		return nil
	}
}

// WithNDiscard overrides the number of thermalization sweeps per sampling
// run. The default is 10% of the requested sample count.
func WithNDiscard(n int) Option {
	return func(d *Driver) error {
		if n < 0 {
			return errors.Newf(errors.InvalidConfig, "n_discard must not be negative, got %d", n)
		}
		d.nDiscard = n
		return nil
	}
}

// WithLogger replaces the global default logger for this driver.
func WithLogger(l *logging.Logger) Option {
	return func(d *Driver) error {
		d.logger = l
		return nil
	}
}

// New builds a driver minimizing the expectation of ham over the machine's
// wavefunction. The optimizer argument accepts the three forms documented on
// MakeOptimizerFn. nSamples is the total sample count collected per step.
func New(ham core.Operator, machine core.Machine, smp sampler.Sampler, optimizer interface{}, nSamples int, opts ...Option) (*Driver, error) {
	if ham == nil || machine == nil || smp == nil {
		return nil, errors.New(errors.InvalidConfig, "hamiltonian, machine and sampler are required")
	}
	if nSamples < 1 {
		return nil, errors.Newf(errors.InvalidConfig, "n_samples must be at least 1, got %d", nSamples)
	}

	stepFn, optDesc, err := MakeOptimizerFn(optimizer)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		ham:      ham,
		machine:  machine,
		smp:      smp,
		stepFn:   stepFn,
		optDesc:  optDesc,
		nPar:     machine.NPar(),
		nSamples: nSamples,
		nDiscard: nSamples / 10,
		obs:      make(map[string]core.Operator),
		ctx:      logging.WithRunID(context.Background(), uuid.NewString()),
		logger:   logging.GetLogger(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// StepCount returns the number of optimization steps performed so far.
func (d *Driver) StepCount() int { return d.stepCount }

// EnergyStats returns the energy estimate of the last completed step.
func (d *Driver) EnergyStats() core.Stats { return d.energy }

// SampleBuffer returns the buffer backing the current estimates, or nil
// before the first Advance.
func (d *Driver) SampleBuffer() *sampler.SampleBuffer { return d.buf }

// AddObservable registers an operator whose statistics are reported by
// GetObservableStats alongside the energy.
func (d *Driver) AddObservable(name string, op core.Operator) {
	d.obs[name] = op
}

func (d *Driver) resample() error {
	buf, err := sampler.ComputeSamples(d.smp, d.nSamples, d.nDiscard)
	if err != nil {
		return err
	}
	d.buf = buf
	d.logger.Acceptance(d.ctx, d.smp.Acceptance())
	return nil
}

// estimate computes per-sample local values of op over the current buffer
// and summarizes them.
func (d *Driver) estimate(op core.Operator) ([]complex128, core.Stats, error) {
	locals, err := operator.LocalValues(d.machine, op, d.buf)
	if err != nil {
		return nil, core.Stats{}, err
	}
	st, err := stats.Statistics(locals, d.buf.NChains())
	if err != nil {
		return nil, core.Stats{}, err
	}
	return locals, st, nil
}

// Advance performs nSteps optimization steps. Advance(0) only triggers the
// initial sampling if none happened yet; parameters, step counter and an
// existing buffer are left untouched.
func (d *Driver) Advance(nSteps int) error {
	if nSteps < 0 {
		return errors.Newf(errors.InvalidConfig, "n_steps must not be negative, got %d", nSteps)
	}

	if d.buf == nil {
		if err := d.resample(); err != nil {
			return err
		}
	}

	for i := 0; i < nSteps; i++ {
		ctx := logging.WithStep(d.ctx, d.stepCount)

		locals, st, err := d.estimate(d.ham)
		if err != nil {
			return err
		}
		d.energy = st
		d.haveEnergy = true

		grad, err := GradientOfExpectation(locals, d.buf.DerLogsFlat(), d.nPar)
		if err != nil {
			return err
		}

		update := grad
		if d.sr != nil {
			update = make([]float64, d.nPar)
			if err := d.sr.ComputeUpdate(d.buf.DerLogsFlat(), d.nPar, grad, update); err != nil {
				return err
			}
		}

		params := d.machine.Parameters()
		d.machine.SetParameters(d.stepFn(d.stepCount, update, params))

		if err := d.resample(); err != nil {
			return err
		}

		d.stepCount++
		d.logger.Info(ctx, "energy %v, acceptance %.3f", st, d.smp.Acceptance())
	}
	return nil
}

// Iter exposes the optimization as a restartable finite sequence: it
// advances `step` steps at a time and yields the step counter after each
// advance, ceil(nSteps/step) times in total. Iterating mutates the driver,
// so a second pass continues from the first one's end state rather than
// repeating it. Errors terminate the sequence and are yielded alongside the
// current counter.
func (d *Driver) Iter(nSteps, step int) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		if nSteps < 0 || step < 1 {
			yield(d.stepCount, errors.Newf(errors.InvalidConfig,
				"iter needs n_steps >= 0 and step >= 1, got %d and %d", nSteps, step))
			return
		}
		for i := 0; i < nSteps; i += step {
			if err := d.Advance(step); err != nil {
				yield(d.stepCount, err)
				return
			}
			if !yield(d.stepCount, nil) {
				return
			}
		}
	}
}

// GetObservableStats returns statistics for the given observables computed
// on the current sample buffer. A nil map means the observables registered
// via AddObservable. With includeEnergy the result also carries the energy
// under the key "Energy".
func (d *Driver) GetObservableStats(observables map[string]core.Operator, includeEnergy bool) (map[string]core.Stats, error) {
	if d.buf == nil {
		if err := d.resample(); err != nil {
			return nil, err
		}
	}
	if observables == nil {
		observables = d.obs
	}

	result := make(map[string]core.Stats, len(observables)+1)
	if includeEnergy {
		if !d.haveEnergy {
			_, st, err := d.estimate(d.ham)
			if err != nil {
				return nil, err
			}
			d.energy = st
			d.haveEnergy = true
		}
		result["Energy"] = d.energy
	}

	for name, op := range observables {
		_, st, err := d.estimate(op)
		if err != nil {
			return nil, errors.Wrap(err, errors.Unknown, fmt.Sprintf("observable %q", name))
		}
		result[name] = st
	}
	return result, nil
}

// Info returns a hierarchical description of the driver and its
// collaborators.
func (d *Driver) Info(depth int) string {
	indent := strings.Repeat("  ", depth+1)
	lines := []string{d.String()}
	for _, item := range []struct {
		name string
		obj  interface{}
	}{
		{"Hamiltonian", d.ham},
		{"Machine", d.machine},
		{"Sampler", d.smp},
		{"Optimizer", d.optDesc},
		{"SR solver", d.sr},
	} {
		lines = append(lines, fmt.Sprintf("%s%s: %s", indent, item.name, describe(item.obj, depth+1)))
	}
	return strings.Join(lines, "\n")
}

func describe(obj interface{}, depth int) string {
	if obj == nil {
		return "none"
	}
	if sr, ok := obj.(*SR); ok && sr == nil {
		return "none"
	}
	if i, ok := obj.(interface{ Info(depth int) string }); ok {
		return i.Info(depth)
	}
	return fmt.Sprintf("%v", obj)
}

func (d *Driver) String() string {
	return fmt.Sprintf("Vmc(step_count=%d, n_samples=%d, n_discard=%d)",
		d.stepCount, d.nSamples, d.nDiscard)
}

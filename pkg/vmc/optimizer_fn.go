package vmc

import (
	"fmt"

	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// StepFunc is the single optimizer contract the driver runs against:
// given the step index, the update direction and the current parameters it
// returns the new parameters. Implementations may mutate and return params.
type StepFunc func(step int, update, params []float64) []float64

// Updater is the self-contained optimizer form: an object mutating params in
// place, ignoring the step index. All optimizers in pkg/optimizers satisfy it.
type Updater interface {
	Update(grad, params []float64)
}

// Triple is the state-threading optimizer form: each step composes
// Init -> Update -> Get over an opaque optimizer state.
type Triple struct {
	Init   func(params []float64) interface{}
	Update func(step int, update []float64, state interface{}) interface{}
	Get    func(state interface{}) []float64
}

// MakeOptimizerFn resolves the three recognized optimizer forms into one
// StepFunc plus a human-readable description:
//
//  1. an Updater object - adapted by ignoring the step index and returning
//     the mutated params;
//  2. a Triple of (init, update, get) functions - adapted by composing
//     init, update and get on each call;
//  3. a bare StepFunc (or a function of that exact 3-argument shape) - used
//     directly.
//
// Anything else is a configuration error naming the accepted forms. The
// resolution happens once here; no signatures are inspected at step time.
func MakeOptimizerFn(arg interface{}) (StepFunc, string, error) {
	switch opt := arg.(type) {
	case Triple:
		if opt.Init == nil || opt.Update == nil || opt.Get == nil {
			return nil, "", errors.New(errors.UnknownOptimizerForm,
				"optimizer triple must provide all of init, update and get")
		}
		fn := func(step int, update, params []float64) []float64 {
			state := opt.Init(params)
			state = opt.Update(step, update, state)
			return opt.Get(state)
		}
		return fn, "state-threading optimizer triple", nil

	case Updater:
		fn := func(_ int, update, params []float64) []float64 {
			opt.Update(update, params)
			return params
		}
		return fn, fmt.Sprintf("%v", opt), nil

	case StepFunc:
		return opt, "step function f(i, update, params)", nil

	case func(step int, update, params []float64) []float64:
		return StepFunc(opt), "step function f(i, update, params)", nil

	default:
		return nil, "", errors.Newf(errors.UnknownOptimizerForm,
			"expected an optimizer with an Update(grad, params) method, "+
				"a Triple of (init, update, get) functions, "+
				"or a step function f(i, update, params); got %T", arg)
	}
}

// Package optimizers provides concrete parameter-update rules. Every
// optimizer exposes an in-place Update(grad, params) mutator, which is the
// first calling convention the driver's optimizer adapter recognizes.
package optimizers

import (
	"fmt"
	"math"
)

// Sgd is plain stochastic gradient descent with optional L2 regularization
// and exponential learning-rate decay.
type Sgd struct {
	learningRate float64
	l2Reg        float64
	decayFactor  float64
	step         int
}

type SgdOption func(*Sgd)

// WithL2Reg adds an L2 penalty of strength lambda to every update.
func WithL2Reg(lambda float64) SgdOption {
	return func(s *Sgd) { s.l2Reg = lambda }
}

// WithDecayFactor multiplies the learning rate by decay^step.
func WithDecayFactor(decay float64) SgdOption {
	return func(s *Sgd) { s.decayFactor = decay }
}

func NewSgd(learningRate float64, opts ...SgdOption) *Sgd {
	s := &Sgd{learningRate: learningRate, decayFactor: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update applies params <- (1 - eta*lambda)*params - eta*grad in place.
func (s *Sgd) Update(grad, params []float64) {
	eta := s.learningRate * math.Pow(s.decayFactor, float64(s.step))
	for i := range params {
		params[i] = (1-eta*s.l2Reg)*params[i] - eta*grad[i]
	}
	s.step++
}

func (s *Sgd) String() string {
	return fmt.Sprintf("Sgd(learning_rate=%g, l2_reg=%g, decay_factor=%g)",
		s.learningRate, s.l2Reg, s.decayFactor)
}

package optimizers

import "fmt"

// Momentum is SGD with a velocity term, v <- beta*v + eta*grad.
type Momentum struct {
	learningRate float64
	beta         float64
	velocity     []float64
}

func NewMomentum(learningRate, beta float64) *Momentum {
	return &Momentum{learningRate: learningRate, beta: beta}
}

// Update applies params <- params - v in place. The velocity buffer is
// allocated lazily on the first call.
func (m *Momentum) Update(grad, params []float64) {
	if m.velocity == nil {
		m.velocity = make([]float64, len(params))
	}
	for i := range params {
		m.velocity[i] = m.beta*m.velocity[i] + m.learningRate*grad[i]
		params[i] -= m.velocity[i]
	}
}

func (m *Momentum) String() string {
	return fmt.Sprintf("Momentum(learning_rate=%g, beta=%g)", m.learningRate, m.beta)
}

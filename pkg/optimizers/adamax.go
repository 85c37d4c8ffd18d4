package optimizers

import (
	"fmt"
	"math"
)

// AdaMax is the infinity-norm variant of Adam.
type AdaMax struct {
	alpha   float64
	beta1   float64
	beta2   float64
	epsCut  float64
	moment  []float64
	infNorm []float64
	step    int
}

func NewAdaMax(alpha, beta1, beta2 float64) *AdaMax {
	return &AdaMax{alpha: alpha, beta1: beta1, beta2: beta2, epsCut: 1e-7}
}

// Update applies the AdaMax rule in place. State buffers are allocated
// lazily on the first call.
func (a *AdaMax) Update(grad, params []float64) {
	if a.moment == nil {
		a.moment = make([]float64, len(params))
		a.infNorm = make([]float64, len(params))
	}
	a.step++

	correction := a.alpha / (1 - math.Pow(a.beta1, float64(a.step)))
	for i := range params {
		a.moment[i] = a.beta1*a.moment[i] + (1-a.beta1)*grad[i]
		a.infNorm[i] = math.Max(a.beta2*a.infNorm[i], math.Abs(grad[i]))
		if a.infNorm[i] > a.epsCut {
			params[i] -= correction * a.moment[i] / a.infNorm[i]
		}
	}
}

func (a *AdaMax) String() string {
	return fmt.Sprintf("AdaMax(alpha=%g, beta1=%g, beta2=%g)", a.alpha, a.beta1, a.beta2)
}

package vmc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradientOfExpectation(t *testing.T) {
	// Two samples, one parameter. Local values 1 and 3 (mean 2), centered
	// log-derivatives +1 and -1:
	//   grad = (2/2) * [Re((1-2)* . 1) + Re((3-2)* . -1)] = -2.
	locals := []complex128{1, 3}
	derLogs := []complex128{1, -1}

	grad, err := GradientOfExpectation(locals, derLogs, 1)
	require.NoError(t, err)
	assert.InDelta(t, -2, grad[0], 1e-14)
}

func TestGradientVanishesForConstantLocals(t *testing.T) {
	// An eigenstate has constant local values, so the estimated gradient is
	// exactly zero regardless of the derivatives.
	locals := []complex128{complex(1.5, 0.2), complex(1.5, 0.2), complex(1.5, 0.2)}
	derLogs := []complex128{
		complex(0.3, 1), complex(-2, 0.1),
		complex(1, -1), complex(0.5, 0),
		complex(-0.7, 2), complex(1.5, -0.1),
	}

	grad, err := GradientOfExpectation(locals, derLogs, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, grad)
}

func TestGradientComplexPhases(t *testing.T) {
	// Locals +/- i (mean 0), derivatives +/- i:
	//   grad = (2/2) * [Re(conj(i) . i) + Re(conj(-i) . -i)] = 2.
	locals := []complex128{complex(0, 1), complex(0, -1)}
	derLogs := []complex128{complex(0, 1), complex(0, -1)}

	grad, err := GradientOfExpectation(locals, derLogs, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2, grad[0], 1e-14)
}

func TestGradientShapeErrors(t *testing.T) {
	_, err := GradientOfExpectation(nil, nil, 1)
	assert.Error(t, err)

	_, err = GradientOfExpectation([]complex128{1}, []complex128{1}, 0)
	assert.Error(t, err)

	_, err = GradientOfExpectation([]complex128{1, 2}, []complex128{1, 2, 3}, 2)
	assert.Error(t, err)
}

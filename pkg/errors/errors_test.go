package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndCode(t *testing.T) {
	err := New(EmptyClusterList, "no clusters within d_max")
	assert.EqualError(t, err, "no clusters within d_max")

	var e *Error
	assert.True(t, stderrors.As(err, &e))
	assert.Equal(t, EmptyClusterList, e.Code())
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("cholesky factorization failed")
	err := Wrap(base, SingularMatrix, "sr solve")
	assert.EqualError(t, err, "sr solve: cholesky factorization failed")
	assert.True(t, stderrors.Is(err, New(SingularMatrix, "")))
	assert.Equal(t, base, stderrors.Unwrap(err))

	assert.Nil(t, Wrap(nil, SingularMatrix, "sr solve"))
}

func TestWithFields(t *testing.T) {
	err := WithFields(New(InvalidConfig, "bad sampler config"), Fields{"n_chains": 0})
	assert.Contains(t, err.Error(), "bad sampler config")
	assert.Contains(t, err.Error(), "n_chains=0")

	var e *Error
	assert.True(t, stderrors.As(err, &e))
	assert.Equal(t, Fields{"n_chains": 0}, e.Fields())

	// Foreign errors get wrapped with Unknown code.
	err = WithFields(fmt.Errorf("plain"), Fields{"k": "v"})
	assert.Equal(t, Unknown, Code(err))
}

func TestIsConfig(t *testing.T) {
	assert.True(t, IsConfig(New(EmptyClusterList, "")))
	assert.True(t, IsConfig(New(UnknownOptimizerForm, "")))
	assert.False(t, IsConfig(New(SingularMatrix, "")))
	assert.False(t, IsConfig(fmt.Errorf("plain")))
}

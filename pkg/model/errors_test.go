package model

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationf(t *testing.T) {
	err := Validationf("rating must be between %d and %d", 1, 5)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "rating must be between 1 and 5")
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil))
	assert.ErrorIs(t, WrapError(context.Canceled), ErrCanceled)
	assert.ErrorIs(t, WrapError(context.DeadlineExceeded), ErrCanceled)

	plain := errors.New("boom")
	assert.Equal(t, plain, WrapError(plain))
}

func TestIsCanceled(t *testing.T) {
	assert.False(t, IsCanceled(nil))
	assert.True(t, IsCanceled(context.Canceled))
	assert.True(t, IsCanceled(fmt.Errorf("driver: %w", context.DeadlineExceeded)))
	// Drivers sometimes flatten the context error into a string.
	assert.True(t, IsCanceled(errors.New("connection(localhost) context canceled")))
	assert.False(t, IsCanceled(errors.New("duplicate key")))
}

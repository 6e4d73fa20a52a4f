package irrecoverable

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("sentinel")

func TestException(t *testing.T) {
	assert.Nil(t, NewException(nil))
	assert.False(t, IsException(errSentinel))

	err := NewException(errSentinel)
	assert.True(t, IsException(err))
	assert.ErrorIs(t, err, errSentinel)
	assert.Equal(t, errSentinel.Error(), err.Error())

	// exceptions stay detectable when wrapped further
	wrapped := fmt.Errorf("context: %w", err)
	assert.True(t, IsException(wrapped))
	assert.ErrorIs(t, wrapped, errSentinel)

	// wrapping twice keeps a single layer
	assert.Equal(t, err, NewException(err))
}

func TestExceptionf(t *testing.T) {
	err := NewExceptionf("dkg failed for %s: %w", "abc", errSentinel)
	assert.True(t, IsException(err))
	assert.ErrorIs(t, err, errSentinel)
	assert.Contains(t, err.Error(), "abc")
}

package unittest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChannelHelpers(t *testing.T) {
	done := make(chan struct{})
	close(done)
	RequireCloseBefore(t, done, time.Second, "closed channel")

	RequireNeverClosedWithin(t, make(chan struct{}), 10*time.Millisecond, "open channel")

	errCh := make(chan error, 1)
	errCh <- errors.New("failed")
	assert.EqualError(t, RequireErrorBefore(t, errCh, time.Second, "buffered error"), "failed")

	called := false
	RequireReturnsBefore(t, func() { called = true }, time.Second, "returning function")
	assert.True(t, called)
}

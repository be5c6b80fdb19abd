package flight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardRejectsConcurrentCalls(t *testing.T) {
	var g Guard
	entered := make(chan struct{})
	release := make(chan struct{})
	result := make(chan error, 1)

	go func() {
		result <- g.Do(func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	assert.True(t, g.Busy())

	calls := 0
	err := g.Do(func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Zero(t, calls)

	close(release)
	assert.NoError(t, <-result)
	assert.False(t, g.Busy())
}

func TestGuardReleasesAfterError(t *testing.T) {
	var g Guard
	boom := errors.New("boom")

	assert.ErrorIs(t, g.Do(func() error { return boom }), boom)
	assert.False(t, g.Busy())
	assert.NoError(t, g.Do(func() error { return nil }))
}

func TestGuardReleasesAfterPanic(t *testing.T) {
	var g Guard

	assert.Panics(t, func() {
		_ = g.Do(func() error { panic("boom") })
	})
	assert.False(t, g.Busy())
}

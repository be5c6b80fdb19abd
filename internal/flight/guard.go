// Package flight guards an action so that at most one invocation is in
// progress at a time.
package flight

import (
	"errors"
	"sync/atomic"
)

// ErrInFlight is returned when the guarded action is already running.
var ErrInFlight = errors.New("action already in flight")

// Guard admits one holder at a time. The zero value is ready to use. A Guard
// belongs to a single action instance; it is advisory and knows nothing about
// what the action does remotely.
type Guard struct {
	busy atomic.Bool
}

// Do runs fn unless another Do on the same guard has not returned yet, in
// which case it returns ErrInFlight without calling fn.
func (g *Guard) Do(fn func() error) error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer g.busy.Store(false)
	return fn()
}

// Busy reports whether an invocation is in progress.
func (g *Guard) Busy() bool {
	return g.busy.Load()
}

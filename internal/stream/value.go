package stream

import (
	"context"
	"sync"
)

// Value is an observable variable. Subscribers to its Source first receive
// the current value and then every later one. A slow subscriber skips
// intermediate values and always sees the latest.
type Value[T any] struct {
	mu      sync.Mutex
	v       T
	changed chan struct{}
}

// NewValue returns a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, changed: make(chan struct{})}
}

// Load returns the current value.
func (x *Value[T]) Load() T {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.v
}

// Store replaces the value and wakes all subscribers.
func (x *Value[T]) Store(v T) {
	x.mu.Lock()
	x.v = v
	close(x.changed)
	x.changed = make(chan struct{})
	x.mu.Unlock()
}

// Update applies fn to the current value under the lock and stores the
// result when fn reports a change.
func (x *Value[T]) Update(fn func(T) (T, bool)) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	next, ok := fn(x.v)
	if !ok {
		return false
	}
	x.v = next
	close(x.changed)
	x.changed = make(chan struct{})
	return true
}

func (x *Value[T]) snapshot() (T, <-chan struct{}) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.v, x.changed
}

// Source returns a stream of the value's states.
func (x *Value[T]) Source() Source[T] {
	return NewSource(func(ctx context.Context, yield func(T) bool) error {
		for {
			v, changed := x.snapshot()
			if !yield(v) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			case <-changed:
			}
		}
	})
}

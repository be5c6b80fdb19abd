// Package stream provides lazy, cancellable sequences of values.
//
// A Source describes how to produce values; nothing runs until Subscribe is
// called, and every call to Subscribe starts a fresh producer. A Subscription
// delivers the produced values as Events until the producer finishes, fails,
// or the subscription is cancelled. A failure is delivered as a final Event
// whose Err is set.
package stream

import (
	"context"
	"sync"
)

// Producer emits values through yield until ctx is done or it has nothing
// more to produce. yield reports false once the consumer has gone away, after
// which the producer should return promptly. A non-nil return value is
// delivered to the consumer as a terminal error.
type Producer[T any] func(ctx context.Context, yield func(T) bool) error

// Event is a single delivery from a Subscription.
type Event[T any] struct {
	Value T
	Err   error
}

// Source is a restartable description of a stream.
type Source[T any] struct {
	produce Producer[T]
}

// NewSource wraps a producer.
func NewSource[T any](p Producer[T]) Source[T] {
	return Source[T]{produce: p}
}

// Subscribe starts a producer and returns the subscription that receives its
// values. The producer stops when ctx is done or the subscription is
// cancelled.
func (s Source[T]) Subscribe(ctx context.Context) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		events: make(chan Event[T]),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(sub.done)
		defer close(sub.events)

		if s.produce == nil {
			return
		}

		err := s.produce(ctx, func(v T) bool {
			select {
			case <-ctx.Done():
				return false
			default:
			}
			select {
			case sub.events <- Event[T]{Value: v}:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			select {
			case sub.events <- Event[T]{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return sub
}

// Subscription is a live instance of a Source.
type Subscription[T any] struct {
	events chan Event[T]
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
}

// Events returns the delivery channel. It is closed after the producer has
// returned.
func (s *Subscription[T]) Events() <-chan Event[T] {
	return s.events
}

// Done is closed once the producer has returned.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Cancel stops the producer. Only the first call has an effect; it reports
// whether this call was the one that cancelled.
func (s *Subscription[T]) Cancel() bool {
	first := false
	s.once.Do(func() {
		first = true
		s.cancel()
	})
	return first
}

// Values is a convenience producer emitting a fixed sequence and then ending.
func Values[T any](vs ...T) Source[T] {
	return NewSource(func(_ context.Context, yield func(T) bool) error {
		for _, v := range vs {
			if !yield(v) {
				return nil
			}
		}
		return nil
	})
}

// Fail returns a source whose only delivery is err.
func Fail[T any](err error) Source[T] {
	return NewSource(func(context.Context, func(T) bool) error {
		return err
	})
}

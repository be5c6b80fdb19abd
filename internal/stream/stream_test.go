package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any](t *testing.T, sub *Subscription[T]) ([]T, error) {
	t.Helper()
	var (
		values []T
		err    error
	)
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return values, err
			}
			if ev.Err != nil {
				err = ev.Err
				continue
			}
			values = append(values, ev.Value)
		case <-timeout:
			t.Fatal("subscription did not finish")
		}
	}
}

func TestSourceDeliversInOrder(t *testing.T) {
	sub := Values(1, 2, 3).Subscribe(context.Background())

	got, err := collect(t, sub)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSourceIsLazyAndRestartable(t *testing.T) {
	starts := 0
	src := NewSource(func(_ context.Context, yield func(int) bool) error {
		starts++
		yield(starts)
		return nil
	})
	assert.Equal(t, 0, starts)

	first, _ := collect(t, src.Subscribe(context.Background()))
	second, _ := collect(t, src.Subscribe(context.Background()))

	assert.Equal(t, []int{1}, first)
	assert.Equal(t, []int{2}, second)
}

func TestSourceDeliversTerminalError(t *testing.T) {
	boom := errors.New("boom")
	src := NewSource(func(_ context.Context, yield func(string) bool) error {
		yield("a")
		return boom
	})

	got, err := collect(t, src.Subscribe(context.Background()))
	assert.Equal(t, []string{"a"}, got)
	assert.ErrorIs(t, err, boom)
}

func TestFail(t *testing.T) {
	boom := errors.New("boom")

	got, err := collect(t, Fail[int](boom).Subscribe(context.Background()))
	assert.Empty(t, got)
	assert.ErrorIs(t, err, boom)
}

func TestCancelStopsProducer(t *testing.T) {
	stopped := make(chan struct{})
	src := NewSource(func(ctx context.Context, yield func(int) bool) error {
		defer close(stopped)
		for i := 0; ; i++ {
			if !yield(i) {
				return nil
			}
		}
	})

	sub := src.Subscribe(context.Background())
	<-sub.Events()

	assert.True(t, sub.Cancel())
	assert.False(t, sub.Cancel())

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("producer still running after cancel")
	}
	<-sub.Done()
}

func TestCancelSuppressesTerminalError(t *testing.T) {
	release := make(chan struct{})
	src := NewSource(func(ctx context.Context, _ func(int) bool) error {
		<-release
		return errors.New("late failure")
	})

	sub := src.Subscribe(context.Background())
	sub.Cancel()
	close(release)

	_, err := collect(t, sub)
	assert.NoError(t, err)
}

func TestValueLatestWins(t *testing.T) {
	v := NewValue(0)
	sub := v.Source().Subscribe(context.Background())
	defer sub.Cancel()

	ev := <-sub.Events()
	assert.Equal(t, 0, ev.Value)

	v.Store(1)
	v.Store(2)
	v.Store(3)

	// Intermediate states may be skipped but the last one always arrives.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sub.Events():
			if ev.Value == 3 {
				return
			}
		case <-deadline:
			t.Fatal("latest value not delivered")
		}
	}
}

func TestValueUpdate(t *testing.T) {
	v := NewValue("a")

	assert.False(t, v.Update(func(s string) (string, bool) { return s, false }))
	assert.True(t, v.Update(func(s string) (string, bool) { return s + "b", true }))
	assert.Equal(t, "ab", v.Load())
}

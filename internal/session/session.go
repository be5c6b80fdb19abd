// Package session mirrors the identity provider's current identity into an
// explicit object that screens receive at construction.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/stream"
)

// Session holds the current identity as reported by the provider.
type Session struct {
	provider domain.IdentityProvider
	current  *stream.Value[*domain.Identity]
	sub      *stream.Subscription[*domain.Identity]
	ready    chan struct{}
	logger   *slog.Logger

	// settle bounds the wait for a completed sign-out to be reported.
	settle time.Duration
}

// New starts observing the provider. Call Close to stop.
func New(provider domain.IdentityProvider, logger *slog.Logger) *Session {
	s := &Session{
		provider: provider,
		current:  stream.NewValue[*domain.Identity](nil),
		ready:    make(chan struct{}),
		logger:   logger,
		settle:   5 * time.Second,
	}
	s.sub = provider.ObserveIdentity().Subscribe(context.Background())
	go s.follow()
	return s
}

func (s *Session) follow() {
	var once sync.Once
	markReady := func() { once.Do(func() { close(s.ready) }) }
	defer markReady()

	for ev := range s.sub.Events() {
		if ev.Err != nil {
			s.logger.Error("identity observer failed", "error", ev.Err)
			continue
		}
		next := ev.Value
		changed := s.current.Update(func(prev *domain.Identity) (*domain.Identity, bool) {
			return next, !domain.SameIdentity(prev, next)
		})
		markReady()
		if !changed {
			continue
		}
		if next == nil {
			s.logger.Info("signed out")
		} else {
			s.logger.Info("signed in", "uid", next.UID)
		}
	}
}

// Ready is closed once the provider's initial state has been observed.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Current returns the active identity, or nil.
func (s *Session) Current() *domain.Identity {
	return s.current.Load()
}

// Watch streams the active identity followed by each change.
func (s *Session) Watch(ctx context.Context) *stream.Subscription[*domain.Identity] {
	return s.current.Source().Subscribe(ctx)
}

// WaitFor blocks until the current identity satisfies match or ctx is done.
// Provider calls return before their change reaches the session, so callers
// that act on the new state wait for it here.
func (s *Session) WaitFor(ctx context.Context, match func(*domain.Identity) bool) error {
	sub := s.Watch(ctx)
	defer sub.Cancel()
	for ev := range sub.Events() {
		if match(ev.Value) {
			return nil
		}
	}
	return ctx.Err()
}

// SignOut asks the provider to end the session. The local state only changes
// when the provider reports it; a failed call leaves it as it was. Once the
// provider has succeeded the sign-out counts as done, even if ctx ends before
// the change is observed.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.settle)
	defer cancel()
	if err := s.WaitFor(wctx, func(id *domain.Identity) bool { return id == nil }); err != nil {
		s.logger.Warn("sign-out not yet reported by provider", "error", err)
	}
	return nil
}

// Close stops observing the provider and waits for the observer to exit.
func (s *Session) Close() {
	s.sub.Cancel()
	<-s.sub.Done()
}

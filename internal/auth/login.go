// Package auth implements the Login and Register screen controllers.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/flight"
	"github.com/niazbuoy08/chat-app/internal/session"
	"github.com/niazbuoy08/chat-app/internal/stream"
	"github.com/niazbuoy08/chat-app/internal/ui"
)

// Screen bundles what both auth screens talk to.
type Screen struct {
	Provider  domain.IdentityProvider
	Session   *session.Session
	Navigator ui.Navigator
	Notifier  ui.Notifier
	Confirmer ui.Confirmer
	Logger    *slog.Logger
}

// Login is the sign-in screen.
type Login struct {
	Screen

	submit flight.Guard

	mu     sync.Mutex
	watch  *stream.Subscription[*domain.Identity]
	cancel context.CancelFunc
	done   chan struct{}

	// signingIn and signedIn describe the sign-in this screen performed
	// itself; the watcher does not offer the feed for it.
	signingIn bool
	signedIn  string
}

// NewLogin creates the sign-in screen controller.
func NewLogin(s Screen) *Login {
	return &Login{Screen: s}
}

// Busy reports whether a sign-in is outstanding.
func (l *Login) Busy() bool {
	return l.submit.Busy()
}

// Submit validates the credentials and signs in. Failures are shown to the
// user and returned classified; nothing is retried.
func (l *Login) Submit(ctx context.Context, identifier, secret string) error {
	if err := validateLogin(identifier, secret); err != nil {
		l.Notifier.Notify(ui.Notice{Title: TitleError, Body: err.Message})
		return err
	}

	return l.submit.Do(func() error {
		l.setOwn(true, "")
		id, err := l.Provider.VerifyIdentity(ctx, strings.TrimSpace(identifier), secret)
		if err != nil {
			l.setOwn(false, "")
			l.Logger.Warn("sign in failed", "error", err)
			classified := domain.Classify(err, LoginMessage(err))
			l.Notifier.Notify(ui.Notice{Title: TitleLoginError, Body: classified.Message})
			return classified
		}
		l.setOwn(false, id.UID)

		if err := l.Session.WaitFor(ctx, sameUID(id)); err != nil {
			return fmt.Errorf("wait for session: %w", err)
		}
		l.Navigator.Navigate(ui.RouteFeed)
		return nil
	})
}

func (l *Login) setOwn(pending bool, uid string) {
	l.mu.Lock()
	l.signingIn, l.signedIn = pending, uid
	l.mu.Unlock()
}

// ownSignIn reports whether id comes from this screen's own Submit.
func (l *Login) ownSignIn(id *domain.Identity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.signingIn || (l.signedIn != "" && l.signedIn == id.UID)
}

func validateLogin(identifier, secret string) *domain.Error {
	if strings.TrimSpace(identifier) == "" {
		return domain.ValidationError(MsgEnterEmail)
	}
	if strings.TrimSpace(secret) == "" {
		return domain.ValidationError(MsgEnterPassword)
	}
	return nil
}

// Mount starts watching for an already active session. Whenever one is
// present the user is offered to go straight to the feed; declining keeps
// the screen as it is.
func (l *Login) Mount(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.watch != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	watch := l.Session.Watch(ctx)
	done := make(chan struct{})
	l.watch, l.cancel, l.done = watch, cancel, done

	go func() {
		defer close(done)
		for ev := range watch.Events() {
			id := ev.Value
			if id == nil || l.ownSignIn(id) {
				continue
			}
			offer := ui.Offer{
				Title:   TitleAlreadyLoggedIn,
				Body:    fmt.Sprintf("You are already logged in as %s", id.Email),
				Accept:  "Go to Chat",
				Decline: "Stay Here",
			}
			if l.Confirmer.Confirm(ctx, offer) {
				l.Navigator.Navigate(ui.RouteFeed)
			}
		}
	}()
}

// Unmount stops watching the session.
func (l *Login) Unmount() {
	l.mu.Lock()
	watch, cancel, done := l.watch, l.cancel, l.done
	l.watch, l.cancel, l.done = nil, nil, nil
	l.mu.Unlock()

	if watch == nil {
		return
	}
	cancel()
	watch.Cancel()
	<-done
}

func sameUID(id *domain.Identity) func(*domain.Identity) bool {
	return func(cur *domain.Identity) bool {
		return cur != nil && id != nil && cur.UID == id.UID
	}
}

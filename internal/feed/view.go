// Package feed implements the message feed screen controller.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/session"
	"github.com/niazbuoy08/chat-app/internal/stream"
	"github.com/niazbuoy08/chat-app/internal/ui"
)

var (
	// ErrNoIdentity is returned by Activate when nobody is signed in.
	ErrNoIdentity = errors.New("no active identity")

	// ErrAlreadyActive is returned by a second Activate.
	ErrAlreadyActive = errors.New("feed already active")
)

const (
	msgLoadFailed    = "Failed to load messages"
	msgSignOutFailed = "Failed to sign out"
)

// Item is a message as the feed presents it.
type Item struct {
	domain.Message

	// Own marks messages written by the active identity. It only affects
	// presentation.
	Own bool
}

// Renderer draws the feed.
type Renderer interface {
	// Render replaces everything on screen with items.
	Render(items []Item)

	// ScrollToEnd brings the newest item into view.
	ScrollToEnd()
}

// View is the feed screen.
type View struct {
	session   *session.Session
	messages  domain.MessageCollection
	renderer  Renderer
	navigator ui.Navigator
	notifier  ui.Notifier
	logger    *slog.Logger

	mu       sync.Mutex
	sub      *stream.Subscription[[]domain.Message]
	loopDone chan struct{}
	closed   bool
	items    []Item
}

// NewView creates the feed screen controller.
func NewView(
	sess *session.Session,
	messages domain.MessageCollection,
	renderer Renderer,
	navigator ui.Navigator,
	notifier ui.Notifier,
	logger *slog.Logger,
) *View {
	return &View{
		session:   sess,
		messages:  messages,
		renderer:  renderer,
		navigator: navigator,
		notifier:  notifier,
		logger:    logger,
	}
}

// Activate subscribes to the messages collection. Without an active identity
// it redirects to the login screen and does nothing else.
func (v *View) Activate(ctx context.Context) error {
	if v.session.Current() == nil {
		v.navigator.Navigate(ui.RouteLogin)
		return ErrNoIdentity
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sub != nil || v.closed {
		return ErrAlreadyActive
	}

	sub := v.messages.SubscribeMessages(domain.OrderByCreatedAtAsc).Subscribe(ctx)
	v.sub = sub
	v.loopDone = make(chan struct{})
	go v.run(sub, v.loopDone)

	v.logger.Debug("feed subscribed")
	return nil
}

func (v *View) run(sub *stream.Subscription[[]domain.Message], done chan struct{}) {
	defer close(done)
	for ev := range sub.Events() {
		if ev.Err != nil {
			v.fail(ev.Err)
			continue
		}
		v.apply(ev.Value)
	}
}

// fail keeps the last good snapshot on screen.
func (v *View) fail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.logger.Error("feed subscription failed", "error", err)
	v.notifier.Notify(ui.Notice{Title: "Error", Body: msgLoadFailed})
}

func (v *View) apply(snapshot []domain.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}

	var self string
	if id := v.session.Current(); id != nil {
		self = id.UID
	}

	items := make([]Item, len(snapshot))
	for i, m := range snapshot {
		items[i] = Item{Message: m, Own: self != "" && m.AuthorID == self}
	}
	v.items = items

	v.renderer.Render(items)
	if len(items) > 0 {
		v.renderer.ScrollToEnd()
	}
}

// Items returns the last rendered items.
func (v *View) Items() []Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Item, len(v.items))
	copy(out, v.items)
	return out
}

// Teardown cancels the subscription. Nothing is rendered once it returns.
// Calling it again is a no-op.
func (v *View) Teardown() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	sub, done := v.sub, v.loopDone
	v.mu.Unlock()

	if sub == nil {
		return
	}
	sub.Cancel()
	<-done
	v.logger.Debug("feed unsubscribed")
}

// SignOut ends the session and returns to the login screen. If the provider
// refuses, the user is told and the session is left alone.
func (v *View) SignOut(ctx context.Context) error {
	if err := v.session.SignOut(ctx); err != nil {
		v.logger.Error("sign out failed", "error", err)
		v.notifier.Notify(ui.Notice{Title: "Error", Body: msgSignOutFailed})
		return err
	}
	v.navigator.Navigate(ui.RouteLogin)
	return nil
}

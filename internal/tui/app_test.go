package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/domain/mock"
	"github.com/niazbuoy08/chat-app/internal/feed"
	"github.com/niazbuoy08/chat-app/internal/session"
	"github.com/niazbuoy08/chat-app/internal/stream"
	"github.com/niazbuoy08/chat-app/internal/ui"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type harness struct {
	app      *App
	sent     chan tea.Msg
	provider *mock.MockIdentityProvider
	state    *stream.Value[*domain.Identity]
}

func newHarness(t *testing.T, id *domain.Identity) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mock.NewMockIdentityProvider(ctrl)
	state := stream.NewValue(id)
	provider.EXPECT().ObserveIdentity().Return(state.Source())
	messages := mock.NewMockMessageCollection(ctrl)

	sess := session.New(provider, discard)
	t.Cleanup(sess.Close)
	<-sess.Ready()

	h := &harness{sent: make(chan tea.Msg, 16), provider: provider, state: state}
	h.app = NewApp(context.Background(), Deps{
		Provider: provider,
		Messages: messages,
		Session:  sess,
		Logger:   discard,
	}, func(msg tea.Msg) { h.sent <- msg })
	t.Cleanup(h.app.Shutdown)
	return h
}

func (h *harness) receive(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case msg := <-h.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a program message")
	}
	return nil
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppStartsOnLogin(t *testing.T) {
	h := newHarness(t, nil)
	h.app.Init()

	assert.Equal(t, ui.RouteLogin, h.app.route)
	assert.Contains(t, h.app.View(), "Password")
}

func TestAppNavigates(t *testing.T) {
	h := newHarness(t, nil)
	h.app.Init()

	h.app.Update(navigateMsg{route: ui.RouteRegister})
	assert.Equal(t, ui.RouteRegister, h.app.route)
	assert.Contains(t, h.app.View(), "Create Account")

	screen := h.app.screen
	h.app.Update(navigateMsg{route: ui.RouteRegister})
	assert.Same(t, screen, h.app.screen)
}

func TestAppDropsStaleFeedRenders(t *testing.T) {
	h := newHarness(t, nil)
	h.app.Init()
	h.app.Update(navigateMsg{route: ui.RouteFeed})
	h.app.Update(navigateMsg{route: ui.RouteLogin})
	h.app.Update(navigateMsg{route: ui.RouteFeed})
	require.Equal(t, 4, h.app.gen)

	items := []feed.Item{{Message: domain.Message{ID: "m1", Text: "hello", AuthorEmail: "bob@example.com"}}}

	h.app.Update(renderMsg{gen: 2, items: items})
	fs := h.app.screen.(*feedScreen)
	assert.Empty(t, fs.items)

	h.app.Update(renderMsg{gen: 4, items: items})
	assert.Equal(t, items, fs.items)
	assert.Contains(t, h.app.View(), "hello")
}

func TestAppQueuesNotices(t *testing.T) {
	h := newHarness(t, nil)
	h.app.Init()

	h.app.Update(noticeMsg{notice: ui.Notice{Title: "Error", Body: "first problem"}})
	h.app.Update(noticeMsg{notice: ui.Notice{Title: "Error", Body: "second problem"}})

	assert.Contains(t, h.app.View(), "first problem")
	assert.NotContains(t, h.app.View(), "second problem")

	h.app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, h.app.View(), "second problem")

	h.app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, h.app.notices)
}

func TestAppAnswersOffers(t *testing.T) {
	h := newHarness(t, nil)
	h.app.Init()

	reply := make(chan bool, 1)
	h.app.Update(offerMsg{gen: h.app.gen, ctx: context.Background(), offer: ui.Offer{Title: "Q", Body: "ok?", Accept: "Yes", Decline: "No"}, reply: reply})
	assert.Contains(t, h.app.View(), "y/enter: Yes")

	h.app.Update(key("y"))
	assert.True(t, <-reply)
	assert.Nil(t, h.app.offer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.app.Update(offerMsg{gen: h.app.gen, ctx: ctx, offer: ui.Offer{Title: "Q"}, reply: reply})
	assert.False(t, <-reply)
	assert.Nil(t, h.app.offer)
}

func TestAppNavigationDismissesOffer(t *testing.T) {
	h := newHarness(t, nil)
	h.app.Init()

	reply := make(chan bool, 1)
	h.app.Update(offerMsg{gen: h.app.gen, ctx: context.Background(), offer: ui.Offer{Title: "Q"}, reply: reply})
	h.app.Update(navigateMsg{route: ui.RouteRegister})

	assert.False(t, <-reply)
	assert.Nil(t, h.app.offer)
}

func TestAlreadySignedInOfferLeadsToFeed(t *testing.T) {
	h := newHarness(t, &domain.Identity{UID: "u1", Email: "alice@example.com"})
	h.app.Init()

	msg := h.receive(t)
	offer, ok := msg.(offerMsg)
	require.True(t, ok, "expected an offer, got %T", msg)
	assert.Contains(t, offer.offer.Body, "alice@example.com")

	h.app.Update(offer)
	h.app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, navigateMsg{route: ui.RouteFeed}, h.receive(t))
}

func TestAppDeclinesOffersFromReplacedScreen(t *testing.T) {
	h := newHarness(t, nil)
	h.app.Init()
	loginGen := h.app.gen
	h.app.Update(navigateMsg{route: ui.RouteFeed})

	reply := make(chan bool, 1)
	h.app.Update(offerMsg{gen: loginGen, ctx: context.Background(), offer: ui.Offer{Title: "Already Logged In"}, reply: reply})

	assert.False(t, <-reply)
	assert.Nil(t, h.app.offer)
	assert.NotContains(t, h.app.View(), "Already Logged In")

	h.app.Update(key("n"))
	assert.Equal(t, "n", h.app.screen.(*feedScreen).input.Value())
}

func TestSignInFromLoginShowsFeedWithoutDialog(t *testing.T) {
	h := newHarness(t, nil)
	alice := &domain.Identity{UID: "u1", Email: "alice@example.com"}
	h.provider.EXPECT().
		VerifyIdentity(gomock.Any(), "alice@example.com", "secret1").
		DoAndReturn(func(context.Context, string, string) (*domain.Identity, error) {
			h.state.Store(alice)
			return alice, nil
		})
	h.app.Init()

	login := h.app.screen.(*loginScreen)
	require.NoError(t, login.ctrl.Submit(context.Background(), "alice@example.com", "secret1"))

	// Feed everything the controllers send until the program goes quiet.
	for {
		select {
		case msg := <-h.sent:
			h.app.Update(msg)
			continue
		case <-time.After(200 * time.Millisecond):
		}
		break
	}

	assert.Equal(t, ui.RouteFeed, h.app.route)
	assert.Nil(t, h.app.offer)
	assert.NotContains(t, h.app.View(), "Already Logged In")
}

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/domain/mock"
	"github.com/niazbuoy08/chat-app/internal/session"
	"github.com/niazbuoy08/chat-app/internal/stream"
	"github.com/niazbuoy08/chat-app/internal/ui/uitest"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	provider *mock.MockIdentityProvider
	state    *stream.Value[*domain.Identity]
	session  *session.Session
	ui       *uitest.Recorder
}

func newFixture(t *testing.T, initial *domain.Identity) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mock.NewMockIdentityProvider(ctrl)
	state := stream.NewValue(initial)
	provider.EXPECT().ObserveIdentity().Return(state.Source())

	sess := session.New(provider, discard)
	t.Cleanup(sess.Close)
	<-sess.Ready()

	return &fixture{
		provider: provider,
		state:    state,
		session:  sess,
		ui:       uitest.New(),
	}
}

func (f *fixture) screen() Screen {
	return Screen{
		Provider:  f.provider,
		Session:   f.session,
		Navigator: f.ui,
		Notifier:  f.ui,
		Confirmer: f.ui,
		Logger:    discard,
	}
}

// signIn makes the provider report id as signed in, the way a real provider
// does after a successful call.
func (f *fixture) signIn(id *domain.Identity) func(context.Context, string, string) (*domain.Identity, error) {
	return func(context.Context, string, string) (*domain.Identity, error) {
		f.state.Store(id)
		return id, nil
	}
}

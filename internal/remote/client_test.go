package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niazbuoy08/chat-app/internal/backend"
	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/httpserver"
	"github.com/niazbuoy08/chat-app/internal/sqlite"
	"github.com/niazbuoy08/chat-app/internal/stream"
	"github.com/niazbuoy08/chat-app/internal/wire"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return newBackendWith(t, func(repo *sqlite.Repository) backend.MessageRepository { return repo })
}

// newBackendWith serves a backend whose messages collection is wrapped by
// messages.
func newBackendWith(t *testing.T, messages func(*sqlite.Repository) backend.MessageRepository) *httptest.Server {
	t.Helper()
	repo, err := sqlite.NewRepository(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	svc := backend.NewService(backend.Config{}, repo, repo, messages(repo), nil, discard)
	srv := httptest.NewServer(httpserver.NewServer(0, svc, prometheus.NewRegistry(), discard).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func next[T any](t *testing.T, sub *stream.Subscription[T]) stream.Event[T] {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription ended")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return stream.Event[T]{}
}

func TestWebsocketURL(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"http://localhost:8080", "ws://localhost:8080"},
		{"https://chat.example.com", "wss://chat.example.com"},
		{"ws://already", "ws://already"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, websocketURL(tc.in))
		})
	}
}

func TestSignUpPersistsSession(t *testing.T) {
	srv := newBackend(t)
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	c := NewClient(srv.URL+"/", FileStore{Path: path}, discard)
	ctx := context.Background()

	id, err := c.CreateIdentity(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, id, c.current.Load())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	p, err := FileStore{Path: path}.load()
	require.NoError(t, err)
	assert.Equal(t, id.UID, p.Identity.UID)
	assert.NotEmpty(t, p.Token)

	require.NoError(t, c.SignOut(ctx))
	assert.Nil(t, c.current.Load())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestProviderFailuresCarryCodes(t *testing.T) {
	srv := newBackend(t)
	c := NewClient(srv.URL, FileStore{}, discard)
	ctx := context.Background()

	_, err := c.CreateIdentity(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	testCases := []struct {
		name string
		call func() error
		code domain.Code
	}{
		{
			name: "duplicate",
			call: func() error { _, err := c.CreateIdentity(ctx, "alice@example.com", "secret123"); return err },
			code: domain.CodeEmailAlreadyInUse,
		},
		{
			name: "wrong password",
			call: func() error { _, err := c.VerifyIdentity(ctx, "alice@example.com", "bad-password"); return err },
			code: domain.CodeWrongPassword,
		},
		{
			name: "unknown user",
			call: func() error { _, err := c.VerifyIdentity(ctx, "bob@example.com", "secret123"); return err },
			code: domain.CodeUserNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, domain.CodeOf(tc.call()))
		})
	}

	// A failed attempt leaves the existing session alone.
	assert.NotNil(t, c.current.Load())
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, FileStore{}, discard)
	_, err := c.VerifyIdentity(context.Background(), "alice@example.com", "secret123")
	assert.Equal(t, domain.CodeNetworkFailed, domain.CodeOf(err))
}

func TestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, FileStore{}, discard)
	_, err := c.VerifyIdentity(context.Background(), "alice@example.com", "secret123")
	assert.Equal(t, domain.CodeUnavailable, domain.CodeOf(err))
}

func TestMessagesRoundTrip(t *testing.T) {
	srv := newBackend(t)
	c := NewClient(srv.URL, FileStore{}, discard)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id, err := c.CreateIdentity(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	sub := c.SubscribeMessages(domain.OrderByCreatedAtAsc).Subscribe(ctx)
	defer sub.Cancel()
	ev := next(t, sub)
	require.NoError(t, ev.Err)
	assert.Empty(t, ev.Value)

	msgID, err := c.AppendMessage(ctx, domain.NewMessage{Text: "hello", AuthorID: id.UID, AuthorEmail: id.Email})
	require.NoError(t, err)

	ev = next(t, sub)
	require.NoError(t, ev.Err)
	require.Len(t, ev.Value, 1)
	assert.Equal(t, msgID, ev.Value[0].ID)
	assert.Equal(t, "hello", ev.Value[0].Text)

	list, err := c.ListMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, ev.Value, list)

	assert.True(t, sub.Cancel())
	select {
	case <-sub.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not stop")
	}
}

// failingMessages lists messages until broken is set.
type failingMessages struct {
	*sqlite.Repository
	broken atomic.Bool
}

func (m *failingMessages) ListMessages(ctx context.Context) ([]domain.Message, error) {
	if m.broken.Load() {
		return nil, errors.New("disk I/O error")
	}
	return m.Repository.ListMessages(ctx)
}

func TestSubscribeEndsWithServerFailure(t *testing.T) {
	var msgs *failingMessages
	srv := newBackendWith(t, func(repo *sqlite.Repository) backend.MessageRepository {
		msgs = &failingMessages{Repository: repo}
		return msgs
	})
	c := NewClient(srv.URL, FileStore{}, discard)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id, err := c.CreateIdentity(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	sub := c.SubscribeMessages(domain.OrderByCreatedAtAsc).Subscribe(ctx)
	defer sub.Cancel()
	ev := next(t, sub)
	require.NoError(t, ev.Err)
	assert.Empty(t, ev.Value)

	msgs.broken.Store(true)
	_, err = c.AppendMessage(ctx, domain.NewMessage{Text: "hello", AuthorID: id.UID, AuthorEmail: id.Email})
	require.NoError(t, err)

	ev = next(t, sub)
	var f *domain.Failure
	require.ErrorAs(t, ev.Err, &f)
	assert.Equal(t, domain.CodeUnavailable, f.Code)
	assert.Equal(t, "Failed to read messages.", f.Message)

	select {
	case <-sub.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not stop")
	}
}

func TestSubscribeWithoutSession(t *testing.T) {
	srv := newBackend(t)
	c := NewClient(srv.URL, FileStore{}, discard)

	sub := c.SubscribeMessages(domain.OrderByCreatedAtAsc).Subscribe(context.Background())
	defer sub.Cancel()
	assert.Equal(t, domain.CodeUnauthenticated, domain.CodeOf(next(t, sub).Err))
}

func TestRestore(t *testing.T) {
	srv := newBackend(t)
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first := NewClient(srv.URL, FileStore{Path: path}, discard)
	id, err := first.CreateIdentity(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	second := NewClient(srv.URL, FileStore{Path: path}, discard)
	require.NoError(t, second.Restore(ctx))
	assert.Equal(t, id, second.current.Load())

	// Revoking the token elsewhere makes the next restore discard it.
	require.NoError(t, first.SignOut(ctx))
	require.NoError(t, FileStore{Path: path}.save(persisted{Token: second.sessionToken(), Identity: wire.FromIdentity(id)}))

	third := NewClient(srv.URL, FileStore{Path: path}, discard)
	require.NoError(t, third.Restore(ctx))
	assert.Nil(t, third.current.Load())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRestoreKeepsSessionWhenOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	path := filepath.Join(t.TempDir(), "session.json")
	id := &domain.Identity{UID: "u1", Email: "alice@example.com"}
	require.NoError(t, FileStore{Path: path}.save(persisted{Token: "tok", Identity: wire.FromIdentity(id)}))

	c := NewClient(srv.URL, FileStore{Path: path}, discard)
	require.NoError(t, c.Restore(context.Background()))
	assert.Equal(t, id, c.current.Load())
	assert.Equal(t, "tok", c.sessionToken())
}

func TestRestoreWithoutFile(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", FileStore{Path: filepath.Join(t.TempDir(), "none.json")}, discard)
	require.NoError(t, c.Restore(context.Background()))
	assert.Nil(t, c.current.Load())
}

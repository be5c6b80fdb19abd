package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niazbuoy08/chat-app/internal/domain"
)

func TestLocalSessionLifecycle(t *testing.T) {
	f := newFixture(t, Config{})
	local := NewLocal(f.svc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	identities := local.ObserveIdentity().Subscribe(ctx)
	defer identities.Cancel()
	assert.Nil(t, next(t, identities).Value)

	id, err := local.CreateIdentity(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, id, next(t, identities).Value)

	msgID, err := local.AppendMessage(ctx, domain.NewMessage{Text: "hi", AuthorID: id.UID, AuthorEmail: id.Email})
	require.NoError(t, err)
	assert.NotEmpty(t, msgID)

	require.NoError(t, local.SignOut(ctx))
	assert.Nil(t, next(t, identities).Value)

	_, err = local.AppendMessage(ctx, domain.NewMessage{Text: "hi", AuthorID: id.UID})
	assert.Equal(t, domain.CodeUnauthenticated, domain.CodeOf(err))

	// Signing out twice is fine.
	require.NoError(t, local.SignOut(ctx))

	again, err := local.VerifyIdentity(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, id.UID, again.UID)
}

func TestLocalVerifyIdentityFailure(t *testing.T) {
	f := newFixture(t, Config{})
	local := NewLocal(f.svc)

	_, err := local.VerifyIdentity(context.Background(), "nobody@example.com", "secret123")
	assert.Equal(t, domain.CodeUserNotFound, domain.CodeOf(err))
}

func TestLocalExpiredTokenEndsSession(t *testing.T) {
	f := newFixture(t, Config{TokenTTL: time.Minute})
	local := NewLocal(f.svc)
	ctx := context.Background()

	id, err := local.CreateIdentity(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	f.clock.Set(f.clock.Now().Add(time.Hour))
	_, err = local.AppendMessage(ctx, domain.NewMessage{Text: "late", AuthorID: id.UID})
	assert.Equal(t, domain.CodeUserTokenExpired, domain.CodeOf(err))

	sub := local.ObserveIdentity().Subscribe(ctx)
	defer sub.Cancel()
	assert.Nil(t, next(t, sub).Value)
}

func TestLocalSubscribeMessages(t *testing.T) {
	f := newFixture(t, Config{})
	local := NewLocal(f.svc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	denied := local.SubscribeMessages(domain.OrderByCreatedAtAsc).Subscribe(ctx)
	assert.Equal(t, domain.CodeUnauthenticated, domain.CodeOf(next(t, denied).Err))

	id, err := local.CreateIdentity(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	sub := local.SubscribeMessages(domain.OrderByCreatedAtAsc).Subscribe(ctx)
	defer sub.Cancel()
	assert.Empty(t, next(t, sub).Value)

	_, err = local.AppendMessage(ctx, domain.NewMessage{Text: "first", AuthorID: id.UID})
	require.NoError(t, err)

	snapshot := next(t, sub).Value
	require.Len(t, snapshot, 1)
	assert.Equal(t, "first", snapshot[0].Text)
	assert.Equal(t, id.Email, snapshot[0].AuthorEmail)

	bad := local.SubscribeMessages(domain.Order(42)).Subscribe(ctx)
	assert.Equal(t, domain.CodeInvalidArgument, domain.CodeOf(next(t, bad).Err))
}

package domain

//go:generate mockgen -source=ports.go -destination=mock/ports.go -package=mock

import (
	"context"

	"github.com/niazbuoy08/chat-app/internal/stream"
)

// IdentityProvider is the external session store. Failures are reported as
// *Failure.
type IdentityProvider interface {
	// VerifyIdentity signs in with an existing account.
	VerifyIdentity(ctx context.Context, identifier, secret string) (*Identity, error)

	// CreateIdentity creates an account and signs it in.
	CreateIdentity(ctx context.Context, identifier, secret string) (*Identity, error)

	// SignOut ends the active session.
	SignOut(ctx context.Context) error

	// ObserveIdentity streams the current identity (nil when signed out)
	// followed by every change the provider reports.
	ObserveIdentity() stream.Source[*Identity]
}

// MessageCollection is the external, append-only messages collection.
type MessageCollection interface {
	// AppendMessage adds a message. The collection assigns the ID and the
	// creation timestamp and returns the ID.
	AppendMessage(ctx context.Context, msg NewMessage) (string, error)

	// SubscribeMessages streams full snapshots of the collection in the
	// given order. Each delivery replaces the previous one. A read failure
	// ends the stream.
	SubscribeMessages(order Order) stream.Source[[]Message]
}

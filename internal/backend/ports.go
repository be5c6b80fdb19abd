package backend

import (
	"context"
	"errors"
	"time"

	"github.com/niazbuoy08/chat-app/internal/domain"
)

var (
	// ErrNotFound is returned by repositories when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("already exists")
)

// Account is a registered identity as the backend stores it.
type Account struct {
	UID           string
	Email         string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
}

// Identity returns the client-facing view of the account.
func (a *Account) Identity() *domain.Identity {
	return &domain.Identity{UID: a.UID, Email: a.Email, EmailVerified: a.EmailVerified}
}

// Token is a bearer session issued at sign-in.
type Token struct {
	Value     string
	UID       string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// CreateAccount inserts an account. Returns ErrConflict if the email is
	// taken (case-insensitively).
	CreateAccount(ctx context.Context, acct *Account) error

	// GetAccountByEmail looks an account up by email. Returns ErrNotFound if
	// there is none.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	// GetAccount looks an account up by UID.
	GetAccount(ctx context.Context, uid string) (*Account, error)
}

// TokenRepository defines persistence operations for session tokens.
type TokenRepository interface {
	// CreateToken stores a new token.
	CreateToken(ctx context.Context, tok *Token) error

	// GetToken returns a token by value, or ErrNotFound.
	GetToken(ctx context.Context, value string) (*Token, error)

	// DeleteToken revokes a token. Deleting a missing token is not an error.
	DeleteToken(ctx context.Context, value string) error

	// DeleteExpiredTokens removes tokens that expired before now and returns
	// how many were removed.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// MessageRepository defines persistence operations for the messages
// collection.
type MessageRepository interface {
	// InsertMessage appends a message. The ID and CreatedAt are already set.
	InsertMessage(ctx context.Context, msg *domain.Message) error

	// ListMessages returns every message ordered by creation time, oldest
	// first, ties in insertion order.
	ListMessages(ctx context.Context) ([]domain.Message, error)

	// LatestCreatedAt returns the newest creation time, or the zero time for
	// an empty collection.
	LatestCreatedAt(ctx context.Context) (time.Time, error)
}

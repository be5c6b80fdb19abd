package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/niazbuoy08/chat-app/internal/backend"
	"github.com/niazbuoy08/chat-app/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		uid            TEXT PRIMARY KEY,
		email          TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash  TEXT NOT NULL,
		email_verified INTEGER NOT NULL DEFAULT 0,
		created_at     INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tokens (
		value      TEXT PRIMARY KEY,
		uid        TEXT NOT NULL REFERENCES accounts(uid) ON DELETE CASCADE,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tokens_expires ON tokens(expires_at);

	CREATE TABLE IF NOT EXISTS messages (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		id           TEXT NOT NULL UNIQUE,
		text         TEXT NOT NULL,
		author_id    TEXT NOT NULL,
		author_email TEXT NOT NULL,
		created_at   INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at, seq);
`

// Repository implements backend.AccountRepository, backend.TokenRepository
// and backend.MessageRepository using SQLite. Timestamps are stored as unix
// nanoseconds.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the SQLite database at path, creating the schema if
// needed. The caller should call Close when the repository is no longer
// needed.
func NewRepository(path string) (*Repository, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// CreateAccount inserts a new account.
func (r *Repository) CreateAccount(ctx context.Context, acct *backend.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (uid, email, password_hash, email_verified, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		acct.UID,
		acct.Email,
		acct.PasswordHash,
		acct.EmailVerified,
		acct.CreatedAt.UnixNano(),
	)
	if isUniqueViolation(err) {
		return backend.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetAccountByEmail looks an account up by email, ignoring case.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*backend.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT uid, email, password_hash, email_verified, created_at
		FROM accounts
		WHERE email = ?`, email)
	return scanAccount(row)
}

// GetAccount looks an account up by UID.
func (r *Repository) GetAccount(ctx context.Context, uid string) (*backend.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT uid, email, password_hash, email_verified, created_at
		FROM accounts
		WHERE uid = ?`, uid)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*backend.Account, error) {
	var (
		a         backend.Account
		createdAt int64
	)
	err := row.Scan(&a.UID, &a.Email, &a.PasswordHash, &a.EmailVerified, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, backend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.CreatedAt = time.Unix(0, createdAt).UTC()
	return &a, nil
}

// CreateToken stores a session token.
func (r *Repository) CreateToken(ctx context.Context, tok *backend.Token) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tokens (value, uid, created_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		tok.Value,
		tok.UID,
		tok.CreatedAt.UnixNano(),
		tok.ExpiresAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetToken returns a token by value.
func (r *Repository) GetToken(ctx context.Context, value string) (*backend.Token, error) {
	var (
		t                    backend.Token
		createdAt, expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT value, uid, created_at, expires_at
		FROM tokens
		WHERE value = ?`, value,
	).Scan(&t.Value, &t.UID, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, backend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan token: %w", err)
	}
	t.CreatedAt = time.Unix(0, createdAt).UTC()
	t.ExpiresAt = time.Unix(0, expiresAt).UTC()
	return &t, nil
}

// DeleteToken removes a token by value.
func (r *Repository) DeleteToken(ctx context.Context, value string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE value = ?`, value)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteExpiredTokens removes tokens that expired before now.
func (r *Repository) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < ?`, now.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// InsertMessage appends a message to the collection.
func (r *Repository) InsertMessage(ctx context.Context, msg *domain.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, text, author_id, author_email, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		msg.ID,
		msg.Text,
		msg.AuthorID,
		msg.AuthorEmail,
		msg.CreatedAt.UnixNano(),
	)
	if isUniqueViolation(err) {
		return backend.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessages returns the whole collection, oldest first.
func (r *Repository) ListMessages(ctx context.Context) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, author_id, author_email, created_at
		FROM messages
		ORDER BY created_at ASC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			m         domain.Message
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.Text, &m.AuthorID, &m.AuthorEmail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt = time.Unix(0, createdAt).UTC()
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// LatestCreatedAt returns the newest message timestamp.
func (r *Repository) LatestCreatedAt(ctx context.Context) (time.Time, error) {
	var latest sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(created_at) FROM messages`).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("query latest message: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}
	return time.Unix(0, latest.Int64).UTC(), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

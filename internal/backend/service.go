// Package backend is a self-hosted stand-in for the managed auth and
// document service the chat client is written against. It owns accounts,
// session tokens and the append-only messages collection, and fans snapshots
// of the collection out to subscribers.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/metrics"
	"github.com/niazbuoy08/chat-app/internal/stream"
)

// MinPasswordLength is the shortest password the service accepts.
const MinPasswordLength = 6

// The service is more lenient than the register screen: a dotless domain is
// accepted here.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)

// Config tunes the service.
type Config struct {
	// TokenTTL is how long a session token stays valid.
	TokenTTL time.Duration

	// LoginRate and LoginBurst throttle failed sign-ins per email.
	LoginRate  rate.Limit
	LoginBurst int
}

// Service is the backend's core. It is safe for concurrent use.
type Service struct {
	cfg      Config
	accounts AccountRepository
	tokens   TokenRepository
	messages MessageRepository
	limiters *limiterPool
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time

	appendMu    sync.Mutex
	lastCreated time.Time
	lastLoaded  bool

	// version changes after every append; snapshot producers follow it.
	version *stream.Value[uint64]
}

// NewService creates a Service over the given repositories. m may be nil.
func NewService(
	cfg Config,
	accounts AccountRepository,
	tokens TokenRepository,
	messages MessageRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * 24 * time.Hour
	}
	return &Service{
		cfg:      cfg,
		accounts: accounts,
		tokens:   tokens,
		messages: messages,
		limiters: newLimiterPool(cfg.LoginRate, cfg.LoginBurst),
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		version:  stream.NewValue[uint64](0),
	}
}

// SignUp creates an account and issues its first token.
func (s *Service) SignUp(ctx context.Context, email, password string) (*Account, *Token, error) {
	acct, tok, err := s.signUp(ctx, strings.TrimSpace(email), password)
	s.metrics.AuthAttempt("signup", resultLabel(err))
	return acct, tok, err
}

func (s *Service) signUp(ctx context.Context, email, password string) (*Account, *Token, error) {
	if !emailPattern.MatchString(email) {
		return nil, nil, domain.NewFailure(domain.CodeInvalidEmail, "The email address is badly formatted.")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, nil, domain.NewFailure(domain.CodeWeakPassword, "Password should be at least %d characters.", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	acct := &Account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.accounts.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, nil, domain.NewFailure(domain.CodeEmailAlreadyInUse, "The email address is already in use by another account.")
		}
		return nil, nil, fmt.Errorf("create account: %w", err)
	}

	tok, err := s.issueToken(ctx, acct)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("account created", "uid", acct.UID)
	return acct, tok, nil
}

// SignIn verifies a password and issues a token. Repeated failures for the
// same email are throttled.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Account, *Token, error) {
	acct, tok, err := s.signIn(ctx, strings.TrimSpace(email), password)
	s.metrics.AuthAttempt("signin", resultLabel(err))
	return acct, tok, err
}

func (s *Service) signIn(ctx context.Context, email, password string) (*Account, *Token, error) {
	if !emailPattern.MatchString(email) {
		return nil, nil, domain.NewFailure(domain.CodeInvalidEmail, "The email address is badly formatted.")
	}

	attempt := s.limiters.reserve(strings.ToLower(email), s.now())
	if attempt == nil {
		return nil, nil, domain.NewFailure(domain.CodeTooManyRequests,
			"Access to this account has been temporarily disabled due to many failed login attempts.")
	}

	acct, err := s.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, nil, domain.NewFailure(domain.CodeUserNotFound, "There is no user record corresponding to this identifier.")
	}
	if err != nil {
		attempt.release()
		return nil, nil, fmt.Errorf("get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.NewFailure(domain.CodeWrongPassword, "The password is invalid.")
	}

	// Successful sign-ins do not count against the limit.
	attempt.release()

	tok, err := s.issueToken(ctx, acct)
	if err != nil {
		return nil, nil, err
	}
	return acct, tok, nil
}

func (s *Service) issueToken(ctx context.Context, acct *Account) (*Token, error) {
	now := s.now()
	tok := &Token{
		Value:     uuid.NewString(),
		UID:       acct.UID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}
	if err := s.tokens.CreateToken(ctx, tok); err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return tok, nil
}

// Authenticate resolves a bearer token to its account.
func (s *Service) Authenticate(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, domain.NewFailure(domain.CodeUnauthenticated, "No session token.")
	}

	tok, err := s.tokens.GetToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, domain.NewFailure(domain.CodeUnauthenticated, "The session token is not valid.")
	}
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	if !s.now().Before(tok.ExpiresAt) {
		return nil, domain.NewFailure(domain.CodeUserTokenExpired, "The user's credential is no longer valid. The user must sign in again.")
	}

	acct, err := s.accounts.GetAccount(ctx, tok.UID)
	if errors.Is(err, ErrNotFound) {
		return nil, domain.NewFailure(domain.CodeUnauthenticated, "The account no longer exists.")
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acct, nil
}

// SignOut revokes a token.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if err := s.tokens.DeleteToken(ctx, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// AppendMessage stores a message written by acct. The service assigns the ID
// and a creation time that never goes backwards within the collection.
func (s *Service) AppendMessage(ctx context.Context, acct *Account, in domain.NewMessage) (*domain.Message, error) {
	if in.AuthorID != acct.UID {
		return nil, domain.NewFailure(domain.CodePermissionDenied, "Messages can only be sent as the signed-in user.")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, domain.NewFailure(domain.CodeInvalidArgument, "Message text must not be empty.")
	}
	if utf8.RuneCountInString(in.Text) > domain.MaxMessageLength {
		return nil, domain.NewFailure(domain.CodeInvalidArgument, "Message text exceeds %d characters.", domain.MaxMessageLength)
	}

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	if !s.lastLoaded {
		latest, err := s.messages.LatestCreatedAt(ctx)
		if err != nil {
			return nil, fmt.Errorf("load latest timestamp: %w", err)
		}
		s.lastCreated, s.lastLoaded = latest, true
	}

	createdAt := s.now()
	if createdAt.Before(s.lastCreated) {
		createdAt = s.lastCreated
	}

	msg := &domain.Message{
		ID:          uuid.NewString(),
		Text:        in.Text,
		AuthorID:    acct.UID,
		AuthorEmail: in.AuthorEmail,
		CreatedAt:   createdAt,
	}
	if msg.AuthorEmail == "" {
		msg.AuthorEmail = acct.Email
	}
	if err := s.messages.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	s.lastCreated = createdAt

	s.version.Update(func(v uint64) (uint64, bool) { return v + 1, true })
	s.metrics.MessageAppended()
	return msg, nil
}

// ListMessages returns the whole collection, oldest first.
func (s *Service) ListMessages(ctx context.Context) ([]domain.Message, error) {
	msgs, err := s.messages.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// Snapshots streams the collection: the current contents first, then the
// full contents again after every append. Snapshots that a slow subscriber
// has not taken yet are superseded by newer ones.
func (s *Service) Snapshots() stream.Source[[]domain.Message] {
	return stream.NewSource(s.produceSnapshots)
}

func (s *Service) produceSnapshots(ctx context.Context, yield func([]domain.Message) bool) error {
	s.metrics.SubscriberAdded()
	defer s.metrics.SubscriberRemoved()

	changes := s.version.Source().Subscribe(ctx)
	defer changes.Cancel()

	for range changes.Events() {
		msgs, err := s.ListMessages(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("snapshot query failed", "error", err)
			return domain.NewFailure(domain.CodeUnavailable, "Failed to read messages.")
		}
		if !yield(msgs) {
			return nil
		}
	}
	return nil
}

// StartCleanupJob removes expired session tokens. It runs immediately on
// start and then repeats at the given interval. It blocks until ctx is
// cancelled.
func (s *Service) StartCleanupJob(ctx context.Context, interval time.Duration) {
	s.runCleanup(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCleanup(ctx)
		}
	}
}

func (s *Service) runCleanup(ctx context.Context) {
	if n := s.limiters.prune(s.now()); n > 0 {
		s.logger.Debug("login limiters pruned", "count", n)
	}

	deleted, err := s.tokens.DeleteExpiredTokens(ctx, s.now())
	if err != nil {
		s.logger.Error("token cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		s.metrics.TokensPruned(deleted)
		s.logger.Info("token cleanup complete", "deleted", deleted)
	}
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := domain.CodeOf(err); code != "" {
		return string(code)
	}
	return "error"
}

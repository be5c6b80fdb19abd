package backend

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/niazbuoy08/chat-app/internal/domain"
)

// memRepository is an in-memory AccountRepository, TokenRepository and
// MessageRepository for service tests.
type memRepository struct {
	mu       sync.Mutex
	accounts map[string]*Account
	tokens   map[string]*Token
	messages []domain.Message

	listErr error
}

func newMemRepository() *memRepository {
	return &memRepository{
		accounts: make(map[string]*Account),
		tokens:   make(map[string]*Token),
	}
}

func (r *memRepository) CreateAccount(_ context.Context, acct *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, acct.Email) {
			return ErrConflict
		}
	}
	cp := *acct
	r.accounts[acct.UID] = &cp
	return nil
}

func (r *memRepository) GetAccountByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepository) GetAccount(_ context.Context, uid string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[uid]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepository) CreateToken(_ context.Context, tok *Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tok
	r.tokens[tok.Value] = &cp
	return nil
}

func (r *memRepository) GetToken(_ context.Context, value string) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[value]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memRepository) DeleteToken(_ context.Context, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, value)
	return nil
}

func (r *memRepository) DeleteExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

func (r *memRepository) InsertMessage(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *memRepository) ListMessages(_ context.Context) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := append([]domain.Message{}, r.messages...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepository) LatestCreatedAt(_ context.Context) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest time.Time
	for _, m := range r.messages {
		if m.CreatedAt.After(latest) {
			latest = m.CreatedAt
		}
	}
	return latest, nil
}

func (r *memRepository) setListErr(err error) {
	r.mu.Lock()
	r.listErr = err
	r.mu.Unlock()
}

func (r *memRepository) tokenCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

package backend

import (
	"context"
	"sync"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/stream"
)

// Local exposes a Service in-process through the client ports
// domain.IdentityProvider and domain.MessageCollection. It holds a single
// session, like a client SDK would.
type Local struct {
	svc *Service

	mu      sync.Mutex
	token   string
	current *stream.Value[*domain.Identity]
}

// NewLocal returns a signed-out adapter over svc.
func NewLocal(svc *Service) *Local {
	return &Local{svc: svc, current: stream.NewValue[*domain.Identity](nil)}
}

// VerifyIdentity implements domain.IdentityProvider.
func (l *Local) VerifyIdentity(ctx context.Context, identifier, secret string) (*domain.Identity, error) {
	acct, tok, err := l.svc.SignIn(ctx, identifier, secret)
	if err != nil {
		return nil, err
	}
	return l.signedIn(acct, tok), nil
}

// CreateIdentity implements domain.IdentityProvider.
func (l *Local) CreateIdentity(ctx context.Context, identifier, secret string) (*domain.Identity, error) {
	acct, tok, err := l.svc.SignUp(ctx, identifier, secret)
	if err != nil {
		return nil, err
	}
	return l.signedIn(acct, tok), nil
}

func (l *Local) signedIn(acct *Account, tok *Token) *domain.Identity {
	id := acct.Identity()
	l.mu.Lock()
	l.token = tok.Value
	l.mu.Unlock()
	l.current.Store(id)
	return id
}

// SignOut implements domain.IdentityProvider. Signing out without a session
// succeeds.
func (l *Local) SignOut(ctx context.Context) error {
	l.mu.Lock()
	token := l.token
	l.mu.Unlock()

	if token != "" {
		if err := l.svc.SignOut(ctx, token); err != nil {
			return domain.NewFailure(domain.CodeInternal, "%v", err)
		}
	}
	l.clear(token)
	return nil
}

func (l *Local) clear(token string) {
	l.mu.Lock()
	if l.token != token {
		l.mu.Unlock()
		return
	}
	l.token = ""
	l.mu.Unlock()
	l.current.Store(nil)
}

// ObserveIdentity implements domain.IdentityProvider.
func (l *Local) ObserveIdentity() stream.Source[*domain.Identity] {
	return l.current.Source()
}

// AppendMessage implements domain.MessageCollection.
func (l *Local) AppendMessage(ctx context.Context, msg domain.NewMessage) (string, error) {
	acct, err := l.account(ctx)
	if err != nil {
		return "", err
	}
	stored, err := l.svc.AppendMessage(ctx, acct, msg)
	if err != nil {
		return "", err
	}
	return stored.ID, nil
}

// SubscribeMessages implements domain.MessageCollection. Only ascending
// creation order is supported.
func (l *Local) SubscribeMessages(order domain.Order) stream.Source[[]domain.Message] {
	if order != domain.OrderByCreatedAtAsc {
		return stream.Fail[[]domain.Message](domain.NewFailure(domain.CodeInvalidArgument, "unsupported order %s", order))
	}
	return stream.NewSource(func(ctx context.Context, yield func([]domain.Message) bool) error {
		if _, err := l.account(ctx); err != nil {
			return err
		}
		return l.svc.produceSnapshots(ctx, yield)
	})
}

// account resolves the held token. An expired or revoked token ends the
// session.
func (l *Local) account(ctx context.Context) (*Account, error) {
	l.mu.Lock()
	token := l.token
	l.mu.Unlock()

	acct, err := l.svc.Authenticate(ctx, token)
	if err != nil {
		switch domain.CodeOf(err) {
		case domain.CodeUserTokenExpired, domain.CodeUnauthenticated:
			if token != "" {
				l.clear(token)
			}
		case "":
			return nil, domain.NewFailure(domain.CodeInternal, "%v", err)
		}
		return nil, err
	}
	return acct, nil
}

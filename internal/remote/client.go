// Package remote is the client SDK for the chat backend. It implements
// domain.IdentityProvider and domain.MessageCollection over HTTP and a
// websocket snapshot stream.
package remote

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/stream"
	"github.com/niazbuoy08/chat-app/internal/wire"
)

const defaultTimeout = 30 * time.Second

// Client holds at most one signed-in session.
type Client struct {
	http   *resty.Client
	wsURL  string
	store  FileStore
	logger *slog.Logger

	mu      sync.Mutex
	token   string
	current *stream.Value[*domain.Identity]
}

// NewClient creates a signed-out client for the backend at baseURL. The
// session is persisted in store.
func NewClient(baseURL string, store FileStore, logger *slog.Logger) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
		wsURL:   websocketURL(baseURL),
		store:   store,
		logger:  logger,
		current: stream.NewValue[*domain.Identity](nil),
	}
}

func websocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}

// Restore signs back in with the persisted session, if any. A session the
// backend no longer accepts is discarded. When the backend cannot be reached
// the persisted identity is kept.
func (c *Client) Restore(ctx context.Context) error {
	p, err := c.store.load()
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}

	c.setSession(p.Token, p.Identity.Domain())

	var resp wire.CurrentSessionResponse
	err = c.do(ctx, http.MethodGet, "/v1/sessions/current", nil, &resp)
	switch domain.CodeOf(err) {
	case "":
		c.setSession(p.Token, resp.Identity.Domain())
		return nil
	case domain.CodeNetworkFailed:
		c.logger.Warn("backend unreachable, keeping persisted session", "error", err)
		return nil
	default:
		// A rejected token has already ended the session inside do.
		c.logger.Info("persisted session not restored", "code", domain.CodeOf(err))
		return nil
	}
}

// VerifyIdentity implements domain.IdentityProvider.
func (c *Client) VerifyIdentity(ctx context.Context, identifier, secret string) (*domain.Identity, error) {
	return c.startSession(ctx, "/v1/sessions", identifier, secret)
}

// CreateIdentity implements domain.IdentityProvider.
func (c *Client) CreateIdentity(ctx context.Context, identifier, secret string) (*domain.Identity, error) {
	return c.startSession(ctx, "/v1/accounts", identifier, secret)
}

func (c *Client) startSession(ctx context.Context, path, identifier, secret string) (*domain.Identity, error) {
	var resp wire.SessionResponse
	err := c.do(ctx, http.MethodPost, path, wire.Credentials{Email: identifier, Password: secret}, &resp)
	if err != nil {
		return nil, err
	}

	id := resp.Identity.Domain()
	if err := c.store.save(persisted{Token: resp.Token, Identity: resp.Identity}); err != nil {
		c.logger.Warn("failed to persist session", "error", err)
	}
	c.setSession(resp.Token, id)
	return id, nil
}

// SignOut implements domain.IdentityProvider. The session ends locally even
// when the backend had already forgotten the token.
func (c *Client) SignOut(ctx context.Context) error {
	token := c.sessionToken()
	if token != "" {
		err := c.do(ctx, http.MethodDelete, "/v1/sessions/current", nil, nil)
		switch domain.CodeOf(err) {
		case "", domain.CodeUnauthenticated, domain.CodeUserTokenExpired:
		default:
			return err
		}
	}
	c.endSession(token)
	return nil
}

// ObserveIdentity implements domain.IdentityProvider.
func (c *Client) ObserveIdentity() stream.Source[*domain.Identity] {
	return c.current.Source()
}

// AppendMessage implements domain.MessageCollection.
func (c *Client) AppendMessage(ctx context.Context, msg domain.NewMessage) (string, error) {
	var resp wire.AppendResponse
	err := c.do(ctx, http.MethodPost, "/v1/messages", wire.AppendRequest{
		Text:        msg.Text,
		AuthorID:    msg.AuthorID,
		AuthorEmail: msg.AuthorEmail,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// ListMessages fetches the collection once, oldest first.
func (c *Client) ListMessages(ctx context.Context) ([]domain.Message, error) {
	var resp wire.SnapshotMessage
	if err := c.do(ctx, http.MethodGet, "/v1/messages", nil, &resp); err != nil {
		return nil, err
	}
	return wire.ToMessages(resp.Messages), nil
}

func (c *Client) setSession(token string, id *domain.Identity) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	c.current.Store(id)
}

func (c *Client) sessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// endSession drops token if it is still the active one.
func (c *Client) endSession(token string) {
	c.mu.Lock()
	if c.token != token {
		c.mu.Unlock()
		return
	}
	c.token = ""
	c.mu.Unlock()

	if err := c.store.clear(); err != nil {
		c.logger.Warn("failed to clear persisted session", "error", err)
	}
	c.current.Store(nil)
}

// do sends a JSON request and decodes the response into out. Every error it
// returns is a *domain.Failure. A rejected token ends the session.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token := c.sessionToken()

	req := c.http.R().
		SetContext(ctx).
		SetError(&wire.ErrorBody{})
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return domain.NewFailure(domain.CodeNetworkFailed, "request cancelled: %v", ctx.Err())
		}
		return domain.NewFailure(domain.CodeNetworkFailed, "A network error has occurred: %v", err)
	}
	if !resp.IsError() {
		return nil
	}

	f := responseFailure(resp)
	if token != "" && (f.Code == domain.CodeUnauthenticated || f.Code == domain.CodeUserTokenExpired) {
		c.endSession(token)
	}
	return f
}

func responseFailure(resp *resty.Response) *domain.Failure {
	if e, ok := resp.Error().(*wire.ErrorBody); ok && e.Code != "" {
		return e.Failure()
	}
	code := domain.CodeInternal
	if resp.StatusCode() >= http.StatusInternalServerError {
		code = domain.CodeUnavailable
	}
	return domain.NewFailure(code, "unexpected status %d", resp.StatusCode())
}

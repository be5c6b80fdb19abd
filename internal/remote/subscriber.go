package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/stream"
	"github.com/niazbuoy08/chat-app/internal/wire"
)

const handshakeTimeout = 10 * time.Second

// SubscribeMessages implements domain.MessageCollection. Each subscription
// opens its own websocket. The stream is not resumed after a dropped
// connection; the drop is delivered as a terminal error.
func (c *Client) SubscribeMessages(order domain.Order) stream.Source[[]domain.Message] {
	if order != domain.OrderByCreatedAtAsc {
		return stream.Fail[[]domain.Message](domain.NewFailure(domain.CodeInvalidArgument, "unsupported order %s", order))
	}
	return stream.NewSource(c.subscribe)
}

func (c *Client) subscribe(ctx context.Context, yield func([]domain.Message) bool) error {
	token := c.sessionToken()

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, c.wsURL+"/v1/messages/subscribe", header)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return c.dialFailure(token, resp, err)
	}
	defer conn.Close()

	c.logger.Debug("snapshot stream connected")

	// ReadMessage does not observe ctx; closing the connection unblocks it.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return domain.NewFailure(domain.CodeUnavailable, "snapshot stream interrupted: %v", err)
		}

		var env wire.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return domain.NewFailure(domain.CodeInternal, "decode frame: %v", err)
		}

		switch env.Type {
		case wire.TypeSnapshot:
			var snap wire.SnapshotMessage
			if err := json.Unmarshal(env.Data, &snap); err != nil {
				return domain.NewFailure(domain.CodeInternal, "decode snapshot: %v", err)
			}
			if !yield(wire.ToMessages(snap.Messages)) {
				return nil
			}

		case wire.TypeError:
			var body wire.ErrorBody
			if err := json.Unmarshal(env.Data, &body); err != nil {
				return domain.NewFailure(domain.CodeInternal, "decode error frame: %v", err)
			}
			return body.Failure()

		default:
			c.logger.Warn("ignoring unknown frame", "type", env.Type)
		}
	}
}

// dialFailure turns a failed handshake into a failure. A rejected token ends
// the session like any other request would.
func (c *Client) dialFailure(token string, resp *http.Response, err error) error {
	if resp == nil {
		return domain.NewFailure(domain.CodeNetworkFailed, "A network error has occurred: %v", err)
	}

	var body wire.ErrorBody
	if data, readErr := io.ReadAll(resp.Body); readErr == nil {
		_ = json.Unmarshal(data, &body)
	}
	if body.Code == "" {
		return domain.NewFailure(domain.CodeUnavailable, "subscribe: unexpected status %d", resp.StatusCode)
	}

	f := body.Failure()
	if token != "" && (f.Code == domain.CodeUnauthenticated || f.Code == domain.CodeUserTokenExpired) {
		c.endSession(token)
	}
	return f
}

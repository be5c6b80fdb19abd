package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/wire"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleSubscribe streams snapshots of the messages collection over a
// websocket until the client goes away or the snapshot query fails. Clients
// only listen; anything they send is discarded.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go readPump(conn, cancel)

	sub := s.svc.Snapshots().Subscribe(ctx)
	defer sub.Cancel()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				closeNormally(conn)
				return
			}
			if ev.Err != nil {
				s.writeErrorFrame(conn, ev.Err)
				closeNormally(conn)
				return
			}
			env, err := wire.NewEnvelope(wire.TypeSnapshot, wire.SnapshotMessage{Messages: wire.FromMessages(ev.Value)})
			if err != nil {
				s.logger.Error("encode snapshot", "error", err)
				return
			}
			if err := writeEnvelope(conn, env); err != nil {
				s.logger.Debug("snapshot write failed", "error", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// readPump keeps control frames flowing and cancels once the peer is gone.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeErrorFrame(conn *websocket.Conn, err error) {
	body := wire.ErrorBody{Code: string(domain.CodeInternal), Message: "internal error"}
	var f *domain.Failure
	if errors.As(err, &f) {
		body = wire.ErrorBody{Code: string(f.Code), Message: f.Message}
	} else {
		s.logger.Error("snapshot stream failed", "error", err)
	}

	env, encErr := wire.NewEnvelope(wire.TypeError, body)
	if encErr != nil {
		return
	}
	writeEnvelope(conn, env)
}

func writeEnvelope(conn *websocket.Conn, env *wire.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func closeNormally(conn *websocket.Conn) {
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

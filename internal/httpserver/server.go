package httpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/niazbuoy08/chat-app/internal/backend"
	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/wire"
)

type contextKey string

const accountContextKey contextKey = "account"

// Server is the HTTP server exposing the dev backend to remote clients.
type Server struct {
	svc        *backend.Service
	logger     *slog.Logger
	handler    http.Handler
	httpServer *http.Server
}

// NewServer creates a new HTTP server for svc listening on port. Metrics are
// served from gatherer.
func NewServer(port int, svc *backend.Service, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/accounts", s.handleCreateAccount).Methods(http.MethodPost)
	v1.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)

	authed := v1.NewRoute().Subrouter()
	authed.Use(s.authenticate)
	authed.HandleFunc("/sessions/current", s.handleGetSession).Methods(http.MethodGet)
	authed.HandleFunc("/sessions/current", s.handleDeleteSession).Methods(http.MethodDelete)
	authed.HandleFunc("/messages", s.handleAppendMessage).Methods(http.MethodPost)
	authed.HandleFunc("/messages", s.handleListMessages).Methods(http.MethodGet)
	authed.HandleFunc("/messages/subscribe", s.handleSubscribe).Methods(http.MethodGet)

	s.handler = withLogging(logger, r)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down or an error occurs.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req wire.Credentials
	if !s.decode(w, r, &req) {
		return
	}

	acct, tok, err := s.svc.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeFailure(w, "sign up", err)
		return
	}

	writeJSON(w, http.StatusCreated, wire.SessionResponse{
		Token:    tok.Value,
		Identity: wire.FromIdentity(acct.Identity()),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req wire.Credentials
	if !s.decode(w, r, &req) {
		return
	}

	acct, tok, err := s.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeFailure(w, "sign in", err)
		return
	}

	writeJSON(w, http.StatusOK, wire.SessionResponse{
		Token:    tok.Value,
		Identity: wire.FromIdentity(acct.Identity()),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	writeJSON(w, http.StatusOK, wire.CurrentSessionResponse{Identity: wire.FromIdentity(acct.Identity())})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.SignOut(r.Context(), bearerToken(r)); err != nil {
		s.writeFailure(w, "sign out", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAppendMessage(w http.ResponseWriter, r *http.Request) {
	var req wire.AppendRequest
	if !s.decode(w, r, &req) {
		return
	}

	msg, err := s.svc.AppendMessage(r.Context(), accountFromContext(r.Context()), domain.NewMessage{
		Text:        req.Text,
		AuthorID:    req.AuthorID,
		AuthorEmail: req.AuthorEmail,
	})
	if err != nil {
		s.writeFailure(w, "append message", err)
		return
	}

	writeJSON(w, http.StatusCreated, wire.AppendResponse{ID: msg.ID})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.svc.ListMessages(r.Context())
	if err != nil {
		s.writeFailure(w, "list messages", err)
		return
	}
	writeJSON(w, http.StatusOK, wire.SnapshotMessage{Messages: wire.FromMessages(msgs)})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct, err := s.svc.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			s.writeFailure(w, "authenticate", err)
			return
		}
		ctx := context.WithValue(r.Context(), accountContextKey, acct)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accountFromContext(ctx context.Context) *backend.Account {
	acct, _ := ctx.Value(accountContextKey).(*backend.Account)
	return acct
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, domain.CodeInvalidArgument, "invalid request body")
		return false
	}
	return true
}

// writeFailure reports a domain failure with its code, or a generic internal
// error for anything else.
func (s *Server) writeFailure(w http.ResponseWriter, op string, err error) {
	var f *domain.Failure
	if errors.As(err, &f) {
		s.logger.Info("request rejected", "op", op, "code", f.Code)
		writeError(w, statusFor(f.Code), f.Code, f.Message)
		return
	}
	s.logger.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, domain.CodeInternal, "internal error")
}

func statusFor(code domain.Code) int {
	switch code {
	case domain.CodeInvalidEmail, domain.CodeWeakPassword, domain.CodeInvalidArgument:
		return http.StatusBadRequest
	case domain.CodeWrongPassword, domain.CodeUnauthenticated, domain.CodeUserTokenExpired:
		return http.StatusUnauthorized
	case domain.CodePermissionDenied:
		return http.StatusForbidden
	case domain.CodeUserNotFound:
		return http.StatusNotFound
	case domain.CodeEmailAlreadyInUse:
		return http.StatusConflict
	case domain.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case domain.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code domain.Code, message string) {
	writeJSON(w, status, wire.ErrorBody{
		Code:    string(code),
		Message: message,
	})
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack lets websocket upgrades through the logging wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

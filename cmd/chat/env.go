package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/niazbuoy08/chat-app/internal/backend"
	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/remote"
	"github.com/niazbuoy08/chat-app/internal/session"
	"github.com/niazbuoy08/chat-app/internal/sqlite"
)

// env is everything a command needs to talk to the backend.
type env struct {
	provider domain.IdentityProvider
	messages domain.MessageCollection
	session  *session.Session
	logger   *slog.Logger

	closers []func() error
}

func openEnv(ctx context.Context, opts *options) (*env, error) {
	e := &env{}

	logger, closeLog, err := openLogger(opts.logFile)
	if err != nil {
		return nil, err
	}
	e.logger = logger
	e.closers = append(e.closers, closeLog)

	if opts.localDB != "" {
		repo, err := sqlite.NewRepository(opts.localDB)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("create repository: %w", err)
		}
		e.closers = append(e.closers, repo.Close)

		svc := backend.NewService(backend.Config{}, repo, repo, repo, nil, logger)
		local := backend.NewLocal(svc)
		e.provider, e.messages = local, local
		logger.Info("using embedded backend", "path", opts.localDB)
	} else {
		client := remote.NewClient(opts.serverURL, remote.FileStore{Path: opts.sessionFile}, logger)
		if err := client.Restore(ctx); err != nil {
			logger.Warn("restore session failed", "error", err)
		}
		e.provider, e.messages = client, client
		logger.Info("using remote backend", "url", opts.serverURL)
	}

	e.session = session.New(e.provider, logger)
	select {
	case <-e.session.Ready():
	case <-ctx.Done():
		e.Close()
		return nil, ctx.Err()
	}
	return e, nil
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	if e.session != nil {
		e.session.Close()
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// openLogger logs to path, or nowhere when path is empty. The terminal is
// left to the user interface.
func openLogger(path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, f.Close, nil
}

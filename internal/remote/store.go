package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/niazbuoy08/chat-app/internal/wire"
)

// persisted is the on-disk form of a signed-in session.
type persisted struct {
	Token    string        `json:"token"`
	Identity wire.Identity `json:"identity"`
}

// FileStore keeps the session token between runs. An empty path disables
// persistence.
type FileStore struct {
	Path string
}

func (s FileStore) load() (*persisted, error) {
	if s.Path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if p.Token == "" {
		return nil, nil
	}
	return &p, nil
}

func (s FileStore) save(p persisted) error {
	if s.Path == "" {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s FileStore) clear() error {
	if s.Path == "" {
		return nil
	}
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

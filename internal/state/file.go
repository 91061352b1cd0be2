package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disgoorg/snowflake/v2"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps the message id as a decimal string in a small text file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) (snowflake.ID, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("No saved leaderboard state", "path", s.path)
		} else {
			log.Warn("Failed to read leaderboard state", "path", s.path, "error", err)
		}
		return 0, false
	}

	raw := strings.TrimSpace(string(data))
	id, err := snowflake.Parse(raw)
	if err != nil || id == 0 {
		log.Warn("Ignoring malformed leaderboard state", "path", s.path, "content", raw)
		return 0, false
	}
	return id, true
}

// Save writes id to a temp file in the same directory and renames it over the
// target so a crash never leaves a half-written file behind.
func (s *FileStore) Save(_ context.Context, id snowflake.ID) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(id.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace state file %s: %w", s.path, err)
	}
	log.Debug("Saved leaderboard state", "path", s.path, "message_id", id)
	return nil
}

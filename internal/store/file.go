package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileStore persists a Table as a single human-readable JSON file, rewritten
// wholesale on every save. There is no partial-write protection; a save error
// means the in-memory table and the file may diverge until the next save.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the persisted table. A missing file yields an empty table. An
// unreadable or corrupt file is renamed aside (never truncated) and an empty
// table is returned, so history survives for manual recovery.
func (s *FileStore) Load() (Table, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", s.Path, time.Now().Unix())
		if renameErr := os.Rename(s.Path, aside); renameErr != nil {
			return nil, fmt.Errorf("corrupt data file %s (rename aside failed: %v): %w", s.Path, renameErr, err)
		}
		return Table{}, nil
	}
	if t == nil {
		t = Table{}
	}
	return t, nil
}

// Save serializes the full table and overwrites the backing file, creating
// the parent directory if needed.
func (s *FileStore) Save(t Table) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", s.Path, err)
	}
	raw, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}
	if err := os.WriteFile(s.Path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	return nil
}

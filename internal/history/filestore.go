package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/neonfit/internal/models"
)

// FileStore persists the set log as a single JSON array on disk. A missing
// or corrupt file reads as an empty log rather than an error.
type FileStore struct {
	Path string
}

// NewFileStore creates a FileStore at the given path, creating the parent
// directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
		}
	}
	return &FileStore{Path: path}, nil
}

func (f *FileStore) Load(context.Context) ([]models.SetLogEntry, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}

	var entries []models.SetLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// Corrupt content degrades to an empty log.
		return nil, nil
	}
	return entries, nil
}

// Save writes the snapshot atomically via a temp file and rename, so a
// crash mid-write never leaves a truncated log behind.
func (f *FileStore) Save(_ context.Context, entries []models.SetLogEntry) error {
	if entries == nil {
		entries = []models.SetLogEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding log: %w", err)
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.Path, err)
	}
	return nil
}

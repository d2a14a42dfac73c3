// Package history keeps the append-only log of completed sets and answers
// the queries behind streaks, personal records and week-over-week progress.
package history

import (
	"context"
	"sync"

	"github.com/claude/neonfit/internal/models"
)

// Store persists the set log. The log itself owns ordering and capacity;
// a Store only round-trips snapshots. Backends: FileStore (JSON file),
// MemStore (tests), storage.DB (Postgres).
type Store interface {
	Load(ctx context.Context) ([]models.SetLogEntry, error)
	Save(ctx context.Context, entries []models.SetLogEntry) error
}

// MemStore is an in-memory Store for tests and the stdio MCP command.
type MemStore struct {
	mu      sync.Mutex
	entries []models.SetLogEntry

	// FailSaves makes every Save return an error, for exercising the
	// degraded-persistence path.
	FailSaves error
}

func (m *MemStore) Load(context.Context) ([]models.SetLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SetLogEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemStore) Save(_ context.Context, entries []models.SetLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves != nil {
		return m.FailSaves
	}
	m.entries = make([]models.SetLogEntry, len(entries))
	copy(m.entries, entries)
	return nil
}

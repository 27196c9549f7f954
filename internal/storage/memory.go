package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

// MemoryLogStore is an in-process LogStore for tests and one-off runs.
type MemoryLogStore struct {
	mu        sync.RWMutex
	logs      map[uuid.UUID][]resolution.Resolution
	lines     map[uuid.UUID][][]string
	pingError error
}

// Ensure MemoryLogStore implements LogStore interface
var _ LogStore = (*MemoryLogStore)(nil)

func NewMemoryLogStore() *MemoryLogStore {
	return &MemoryLogStore{
		logs:  make(map[uuid.UUID][]resolution.Resolution),
		lines: make(map[uuid.UUID][][]string),
	}
}

// SetPingError configures the store to fail on ping with the given error
func (m *MemoryLogStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MemoryLogStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MemoryLogStore) Close() error {
	return nil
}

func (m *MemoryLogStore) Append(ctx context.Context, gameID uuid.UUID, res resolution.Resolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[gameID] = append(m.logs[gameID], res)
	return nil
}

func (m *MemoryLogStore) AppendLines(ctx context.Context, gameID uuid.UUID, lines []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[gameID] = append(m.lines[gameID], slices.Clone(lines))
	return nil
}

func (m *MemoryLogStore) List(ctx context.Context, gameID uuid.UUID) ([]resolution.Resolution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.logs[gameID]), nil
}

// ListLines returns the text-only entries appended with AppendLines.
func (m *MemoryLogStore) ListLines(ctx context.Context, gameID uuid.UUID) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.lines[gameID]), nil
}

func (m *MemoryLogStore) Clear(ctx context.Context, gameID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.logs, gameID)
	delete(m.lines, gameID)
	return nil
}

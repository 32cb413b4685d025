package tabular

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps ranges in process memory. Used in development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	ranges map[string][][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ranges: make(map[string][][]string)}
}

func (m *MemoryStore) GetBackendName() string {
	return "Memory"
}

func (m *MemoryStore) ReadRows(ctx context.Context, rangeID string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.ranges[rangeID]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (m *MemoryStore) AppendRow(ctx context.Context, rangeID string, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ranges[rangeID] = append(m.ranges[rangeID], append([]string(nil), row...))
	return nil
}

func (m *MemoryStore) UpdateCell(ctx context.Context, rangeID string, rowRef, colRef int, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkRef(rowRef, colRef); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.ranges[rangeID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRangeNotFound, rangeID)
	}
	idx := rowRef + 1
	if idx >= len(rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, rowRef)
	}
	for len(rows[idx]) <= colRef {
		rows[idx] = append(rows[idx], "")
	}
	rows[idx][colRef] = value
	return nil
}

// Seed replaces a range, header first. Handy for tests and fixtures.
func (m *MemoryStore) Seed(rangeID string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string(nil), r...)
	}
	m.ranges[rangeID] = copied
}

package store

import (
	"context"
	"sort"
	"sync"

	"packdeck/internal/domain"
)

// Memory keeps preferences and run history in process memory.
type Memory struct {
	mu    sync.RWMutex
	prefs map[string]bool
	runs  []domain.RunRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{prefs: make(map[string]bool)}
}

func (m *Memory) GetBool(_ context.Context, key string, def bool) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.prefs[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) SetBool(_ context.Context, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[key] = value
	return nil
}

func (m *Memory) RecordRun(_ context.Context, rec domain.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.runs {
		if m.runs[i].ID == rec.ID {
			m.runs[i] = rec
			return nil
		}
	}
	m.runs = append(m.runs, rec)
	return nil
}

func (m *Memory) RecentRuns(_ context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	out := append([]domain.RunRecord(nil), m.runs...)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }

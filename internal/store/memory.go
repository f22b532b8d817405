package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/searchsync/searchsync/internal/model"
)

// Memory is an in-memory Store. It backs `--store memory` runs and the test
// suite.
type Memory struct {
	mu      sync.Mutex
	engines []model.EngineRecord
	prefs   *model.PreferencesRecord
	history []model.HistoryEntry
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// GetAllEngines returns every engine ordered by sort order, then name.
func (m *Memory) GetAllEngines(_ context.Context) ([]model.EngineRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	engines := make([]model.EngineRecord, len(m.engines))
	copy(engines, m.engines)
	sort.SliceStable(engines, func(i, j int) bool {
		if engines[i].SortOrder != engines[j].SortOrder {
			return engines[i].SortOrder < engines[j].SortOrder
		}
		return engines[i].Name < engines[j].Name
	})
	return engines, nil
}

// AddEngine stores a new engine record.
func (m *Memory) AddEngine(_ context.Context, engine model.EngineRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.engines {
		if e.ID == engine.ID {
			return fmt.Errorf("engine %q already exists", engine.ID)
		}
	}
	m.engines = append(m.engines, engine)
	return nil
}

// UpdateEngine replaces the stored record with the same identifier.
func (m *Memory) UpdateEngine(_ context.Context, engine model.EngineRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.engines {
		if e.ID == engine.ID {
			m.engines[i] = engine
			return nil
		}
	}
	return fmt.Errorf("no such engine %q", engine.ID)
}

// DeleteEngine removes the engine with the given identifier.
func (m *Memory) DeleteEngine(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.engines {
		if e.ID == id {
			m.engines = append(m.engines[:i], m.engines[i+1:]...)
			return nil
		}
	}
	return nil
}

// GetPreferences returns the stored preferences, or nil when none exist.
func (m *Memory) GetPreferences(_ context.Context) (*model.PreferencesRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.prefs == nil {
		return nil, nil
	}
	prefs := *m.prefs
	return &prefs, nil
}

// UpdatePreferences stores the preferences record.
func (m *Memory) UpdatePreferences(_ context.Context, prefs model.PreferencesRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prefs = &prefs
	return nil
}

// GetSearchHistory returns history entries, newest first.
func (m *Memory) GetSearchHistory(_ context.Context, limit int) ([]model.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]model.HistoryEntry, len(m.history))
	copy(entries, m.history)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// AddSearchHistory appends a history entry.
func (m *Memory) AddSearchHistory(_ context.Context, entry model.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, entry)
	return nil
}

// ClearSearchHistory removes all history entries.
func (m *Memory) ClearSearchHistory(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = nil
	return nil
}

// GetStats returns summary counts over the store.
func (m *Memory) GetStats(_ context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{
		TotalEngines:   len(m.engines),
		HistoryEntries: len(m.history),
		HasPreferences: m.prefs != nil,
	}
	for _, e := range m.engines {
		if e.Enabled {
			stats.EnabledEngines++
		}
	}
	return stats, nil
}

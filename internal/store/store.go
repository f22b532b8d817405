// Package store defines the persistent store consumed by the sync core and
// provides SQLite-backed and in-memory implementations.
package store

import (
	"context"

	"github.com/searchsync/searchsync/internal/model"
)

// Store is the persistence collaborator for engines, preferences, and
// search history. Implementations must be safe for sequential use from a
// single goroutine; the sync core never issues concurrent writes.
type Store interface {
	// GetAllEngines returns every engine record ordered by sort order.
	GetAllEngines(ctx context.Context) ([]model.EngineRecord, error)

	// AddEngine stores a new engine record.
	AddEngine(ctx context.Context, engine model.EngineRecord) error

	// UpdateEngine replaces the stored record with the same identifier.
	UpdateEngine(ctx context.Context, engine model.EngineRecord) error

	// DeleteEngine removes the engine with the given identifier.
	DeleteEngine(ctx context.Context, id string) error

	// GetPreferences returns the stored preferences, or nil when none have
	// ever been saved.
	GetPreferences(ctx context.Context) (*model.PreferencesRecord, error)

	// UpdatePreferences stores the preferences record.
	UpdatePreferences(ctx context.Context, prefs model.PreferencesRecord) error

	// GetSearchHistory returns history entries, newest first. A limit <= 0
	// returns all entries.
	GetSearchHistory(ctx context.Context, limit int) ([]model.HistoryEntry, error)

	// AddSearchHistory appends a history entry.
	AddSearchHistory(ctx context.Context, entry model.HistoryEntry) error

	// ClearSearchHistory removes all history entries.
	ClearSearchHistory(ctx context.Context) error

	// GetStats returns summary counts over the store.
	GetStats(ctx context.Context) (Stats, error)
}

// Stats summarizes the store contents.
type Stats struct {
	// TotalEngines is the number of stored engines.
	TotalEngines int

	// EnabledEngines is how many of them are enabled.
	EnabledEngines int

	// HistoryEntries is the number of stored history entries.
	HistoryEntries int

	// HasPreferences is true when a preferences record has been saved.
	HasPreferences bool
}

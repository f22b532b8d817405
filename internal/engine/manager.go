// Package engine maintains the in-memory view of configured search engines
// and enforces the default-engine invariant.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/searchsync/searchsync/internal/logging"
	"github.com/searchsync/searchsync/internal/model"
	"github.com/searchsync/searchsync/internal/store"
	"github.com/searchsync/searchsync/internal/validate"
)

// Manager caches the engine set read from the store. The cache must be
// reloaded with LoadEngines after any bulk mutation (import) so callers
// never observe stale engine state.
type Manager struct {
	store store.Store

	mu      sync.Mutex
	engines []model.EngineRecord
}

// NewManager creates a manager over the given store. Call LoadEngines
// before reading from it.
func NewManager(st store.Store) *Manager {
	return &Manager{store: st}
}

// LoadEngines reloads the cached view from the store and repairs the
// default-engine invariant: whenever at least one enabled engine exists,
// exactly one engine is default. Repairs are persisted.
func (m *Manager) LoadEngines(ctx context.Context) error {
	engines, err := m.store.GetAllEngines(ctx)
	if err != nil {
		return fmt.Errorf("load engines: %w", err)
	}

	changed := NormalizeDefault(engines)
	for _, e := range changed {
		e.ModifiedAt = time.Now().UTC()
		if err := m.store.UpdateEngine(ctx, e); err != nil {
			return fmt.Errorf("repair default engine: %w", err)
		}
		logging.Debug("default engine repaired",
			logging.Engine(e.Name),
			logging.Operation("load_engines"),
		)
	}
	if len(changed) > 0 {
		// Re-read so the cache reflects the repaired records.
		engines, err = m.store.GetAllEngines(ctx)
		if err != nil {
			return fmt.Errorf("load engines: %w", err)
		}
	}

	m.mu.Lock()
	m.engines = engines
	m.mu.Unlock()

	logging.Debug("engine cache loaded", logging.Count(len(engines)))
	return nil
}

// Engines returns a copy of the cached engine set, ordered by sort order.
func (m *Manager) Engines() []model.EngineRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	engines := make([]model.EngineRecord, len(m.engines))
	copy(engines, m.engines)
	return engines
}

// Default returns the cached default engine, if one exists.
func (m *Manager) Default() (model.EngineRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.engines {
		if e.IsDefault {
			return e, true
		}
	}
	return model.EngineRecord{}, false
}

// AddEngine validates and stores a new engine, assigning an identifier,
// timestamps, and a trailing sort order when unset. The first enabled
// engine automatically becomes the default.
func (m *Manager) AddEngine(ctx context.Context, e model.EngineRecord) (model.EngineRecord, error) {
	if err := validate.EngineError(e); err != nil {
		return model.EngineRecord{}, err
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.ModifiedAt = now

	m.mu.Lock()
	if e.SortOrder == 0 && len(m.engines) > 0 {
		maxOrder := 0
		for _, existing := range m.engines {
			if existing.SortOrder > maxOrder {
				maxOrder = existing.SortOrder
			}
		}
		e.SortOrder = maxOrder + 1
	}
	m.mu.Unlock()

	if err := m.store.AddEngine(ctx, e); err != nil {
		return model.EngineRecord{}, err
	}
	if err := m.LoadEngines(ctx); err != nil {
		return model.EngineRecord{}, err
	}

	logging.Info("engine added", logging.Engine(e.Name))
	return e, nil
}

// DeleteEngine removes an engine. When the default engine is removed, the
// first remaining enabled engine (by sort order) is promoted.
func (m *Manager) DeleteEngine(ctx context.Context, id string) error {
	if err := m.store.DeleteEngine(ctx, id); err != nil {
		return err
	}
	// Reload repairs the default invariant after the removal.
	return m.LoadEngines(ctx)
}

// SetDefault marks the engine with the given identifier as default and
// clears the flag everywhere else.
func (m *Manager) SetDefault(ctx context.Context, id string) error {
	engines, err := m.store.GetAllEngines(ctx)
	if err != nil {
		return err
	}

	found := false
	for _, e := range engines {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no such engine %q", id)
	}

	for _, e := range engines {
		want := e.ID == id
		if e.IsDefault == want {
			continue
		}
		e.IsDefault = want
		e.ModifiedAt = time.Now().UTC()
		if err := m.store.UpdateEngine(ctx, e); err != nil {
			return err
		}
	}

	return m.LoadEngines(ctx)
}

// NormalizeDefault computes the records that must change so that exactly
// one engine is default whenever at least one enabled engine exists. The
// successor choice is deterministic: the first enabled engine by sort
// order, preferring one already marked default. Pure function; the input
// must be ordered by sort order.
func NormalizeDefault(engines []model.EngineRecord) []model.EngineRecord {
	var keeper string
	for _, e := range engines {
		if e.Enabled && e.IsDefault {
			keeper = e.ID
			break
		}
	}
	if keeper == "" {
		for _, e := range engines {
			if e.Enabled {
				keeper = e.ID
				break
			}
		}
	}
	if keeper == "" {
		// No enabled engines; the invariant does not apply.
		return nil
	}

	var changed []model.EngineRecord
	for _, e := range engines {
		want := e.ID == keeper
		if e.IsDefault != want {
			e.IsDefault = want
			changed = append(changed, e)
		}
	}
	return changed
}

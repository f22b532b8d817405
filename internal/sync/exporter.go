package sync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/searchsync/searchsync/internal/logging"
	"github.com/searchsync/searchsync/internal/model"
	"github.com/searchsync/searchsync/internal/store"
)

// Exporter assembles configuration documents from the current store state.
type Exporter struct {
	store store.Store
}

// NewExporter creates an exporter over the given store.
func NewExporter(st store.Store) *Exporter {
	return &Exporter{store: st}
}

// Export produces a complete snapshot document. The engine, preferences,
// and stats reads run concurrently; history is read only when requested.
// Any read failure fails the whole export: a partial snapshot is worse
// than none.
func (e *Exporter) Export(ctx context.Context, includeHistory bool) (*model.ConfigDocument, error) {
	defer logging.Timer("export")()

	var (
		engines []model.EngineRecord
		prefs   *model.PreferencesRecord
		stats   store.Stats
		history []model.HistoryEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		engines, err = e.store.GetAllEngines(gctx)
		if err != nil {
			return fmt.Errorf("read engines: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		prefs, err = e.store.GetPreferences(gctx)
		if err != nil {
			return fmt.Errorf("read preferences: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = e.store.GetStats(gctx)
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}
		return nil
	})
	if includeHistory {
		g.Go(func() error {
			var err error
			history, err = e.store.GetSearchHistory(gctx, 0)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	doc := &model.ConfigDocument{
		Object:       true,
		Version:      model.DocumentVersion,
		VersionShape: model.SectionPresent,
		ExportedAt:   time.Now().UTC().Truncate(time.Second),
		Metadata:     model.BuildMetadata(engines, stats.HistoryEntries, includeHistory),
		EnginesShape: model.SectionPresent,
	}

	doc.Engines = make([]model.EngineCandidate, len(engines))
	for i, record := range engines {
		doc.Engines[i] = model.EngineCandidate{Engine: record}
	}

	// Preferences are always exported: a store with none yet still yields
	// the defaults, so every document round-trips to a working setup.
	exported := model.DefaultPreferences()
	if prefs != nil {
		exported = *prefs
	}
	doc.Preferences = exported.Map()
	doc.PreferencesShape = model.SectionPresent

	// The history key is written only when requested and non-empty, so
	// history-free documents stay compact.
	if includeHistory && len(history) > 0 {
		doc.History = make([]model.HistoryCandidate, len(history))
		for i, entry := range history {
			doc.History[i] = model.HistoryCandidate{Entry: entry}
		}
		doc.HistoryShape = model.SectionPresent
	}

	logging.Info("configuration exported",
		logging.Count(len(engines)),
		logging.Operation("export"),
	)
	return doc, nil
}

// Package seed loads engine seed files. A seed file is a TOML document
// with an [[engines]] table array, used to bootstrap a fresh store or
// bulk-add engines with merge semantics.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/cases"

	"github.com/searchsync/searchsync/internal/engine"
	"github.com/searchsync/searchsync/internal/logging"
	"github.com/searchsync/searchsync/internal/model"
	"github.com/searchsync/searchsync/internal/progress"
)

var fold = cases.Fold()

// File is a parsed seed file.
type File struct {
	// Engines is the ordered engine list.
	Engines []Engine `toml:"engines"`
}

// Engine is one seed entry. Enabled defaults to true when omitted.
type Engine struct {
	Name      string `toml:"name"`
	URL       string `toml:"url"`
	Icon      string `toml:"icon"`
	Color     string `toml:"color"`
	Enabled   *bool  `toml:"enabled"`
	SortOrder int    `toml:"sort_order"`
}

// Record converts the seed entry to an engine record.
func (e Engine) Record() model.EngineRecord {
	enabled := true
	if e.Enabled != nil {
		enabled = *e.Enabled
	}
	return model.EngineRecord{
		Name:      e.Name,
		URL:       e.URL,
		Icon:      e.Icon,
		Color:     e.Color,
		Enabled:   enabled,
		SortOrder: e.SortOrder,
	}
}

// Result summarizes a seed application.
type Result struct {
	// Added is the number of engines added.
	Added int
	// Skipped is the number of duplicates left untouched.
	Skipped int
	// Errors collects per-entry failures.
	Errors []string
}

// Parse decodes seed file content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses a seed file from disk.
func LoadFile(path string) (*File, error) {
	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Apply adds the seed engines through the manager with merge semantics:
// entries whose name (case-insensitive) or URL matches an existing engine
// are skipped. Invalid entries are recorded and do not stop the run.
func Apply(ctx context.Context, mgr *engine.Manager, file *File) (*Result, error) {
	defer logging.Timer("seed")()

	result := &Result{}
	bar := progress.Simple(int64(len(file.Engines)), "Seeding engines")
	defer bar.Finish()

	for _, entry := range file.Engines {
		if err := bar.Add(1); err != nil {
			logging.Debug("progress update failed", logging.Err(err))
		}

		record := entry.Record()
		if isDuplicate(mgr.Engines(), record) {
			result.Skipped++
			logging.Debug("seed entry skipped", logging.Engine(record.Name))
			continue
		}

		if _, err := mgr.AddEngine(ctx, record); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", record.Name, err))
			continue
		}
		result.Added++
	}

	logging.Info("seed applied",
		logging.Count(result.Added),
		logging.Operation("seed"),
	)
	return result, nil
}

func isDuplicate(existing []model.EngineRecord, candidate model.EngineRecord) bool {
	nameKey := fold.String(candidate.Name)
	for _, e := range existing {
		if fold.String(e.Name) == nameKey || e.URL == candidate.URL {
			return true
		}
	}
	return false
}

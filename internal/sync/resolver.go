package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/searchsync/searchsync/internal/logging"
	"github.com/searchsync/searchsync/internal/model"
	"github.com/searchsync/searchsync/internal/store"
	"github.com/searchsync/searchsync/internal/validate"
)

// nameFolder canonicalizes engine names for case-insensitive comparison.
var nameFolder = cases.Fold()

// EngineReport is the outcome of resolving and applying an engine plan.
type EngineReport struct {
	// Imported is the number of engines added.
	Imported int

	// Cleared is the number of existing engines deleted (replace mode).
	Cleared int

	// Plan holds the per-engine steps in document order.
	Plan []PlanStep

	// Errors collects per-item defects (undecodable or invalid engines).
	Errors []string

	// Warnings collects duplicate skips.
	Warnings []string
}

// ConflictResolver computes and applies per-engine actions for an import.
// Engines are processed sequentially; in merge mode the duplicate check
// re-reads the current engine list for every candidate, which keeps
// detection consistent as additions land. The set is tens of engines, so
// the quadratic scan is deliberate simplicity.
type ConflictResolver struct {
	store store.Store
}

// NewConflictResolver creates a resolver over the given store.
func NewConflictResolver(st store.Store) *ConflictResolver {
	return &ConflictResolver{store: st}
}

// Resolve applies the candidate engines to the store according to mode.
// Per-item problems are recorded in the report, never raised; only a store
// failure returns an error, aborting the engine sub-resource.
func (r *ConflictResolver) Resolve(ctx context.Context, candidates []model.EngineCandidate, mode model.ImportMode, dryRun bool) (*EngineReport, error) {
	defer logging.Timer("resolve_engines")()

	logging.Debug("resolving engine plan",
		logging.Mode(string(mode)),
		logging.Count(len(candidates)),
		logging.Operation("import"),
	)

	switch mode {
	case model.ModeReplace:
		return r.resolveReplace(ctx, candidates, dryRun)
	default:
		return r.resolveMerge(ctx, candidates, dryRun)
	}
}

// resolveReplace clears the current engine set, then adds every valid
// imported engine. No duplicate checking is needed since the slate is
// cleared first.
func (r *ConflictResolver) resolveReplace(ctx context.Context, candidates []model.EngineCandidate, dryRun bool) (*EngineReport, error) {
	report := &EngineReport{}

	current, err := r.store.GetAllEngines(ctx)
	if err != nil {
		return nil, &StoreError{Resource: "engines", Err: err}
	}

	for _, existing := range current {
		if !dryRun {
			if err := r.store.DeleteEngine(ctx, existing.ID); err != nil {
				return report, &StoreError{Resource: "engines", Err: err}
			}
		}
		report.Cleared++
	}
	if report.Cleared > 0 {
		report.Plan = append(report.Plan, PlanStep{
			Name:   fmt.Sprintf("%d existing engine(s)", report.Cleared),
			Action: ActionClear,
			Note:   "replace mode clears the current set",
		})
	}

	for i, candidate := range candidates {
		step, engine, ok := checkCandidate(i, candidate)
		if !ok {
			report.Plan = append(report.Plan, step)
			report.Errors = append(report.Errors, step.Note)
			continue
		}

		if !dryRun {
			if err := r.store.AddEngine(ctx, fillIdentity(engine)); err != nil {
				return report, &StoreError{Resource: "engines", Err: err}
			}
		}
		report.Imported++
		report.Plan = append(report.Plan, PlanStep{Name: engine.Name, Action: ActionAdd})
	}

	return report, nil
}

// resolveMerge adds only non-duplicate engines. A duplicate is a
// case-insensitive name match OR an exact URL match against the current
// set; each key is independently sufficient, so a name collision with a
// different URL still counts. Merge mode never silently overwrites.
func (r *ConflictResolver) resolveMerge(ctx context.Context, candidates []model.EngineCandidate, dryRun bool) (*EngineReport, error) {
	report := &EngineReport{}

	// Dry runs cannot observe their own additions through the store, so
	// pending names/URLs are tracked alongside.
	pendingNames := make(map[string]bool)
	pendingURLs := make(map[string]bool)

	for i, candidate := range candidates {
		step, engine, ok := checkCandidate(i, candidate)
		if !ok {
			report.Plan = append(report.Plan, step)
			report.Errors = append(report.Errors, step.Note)
			continue
		}

		current, err := r.store.GetAllEngines(ctx)
		if err != nil {
			return report, &StoreError{Resource: "engines", Err: err}
		}

		nameKey := nameFolder.String(engine.Name)
		duplicate := pendingNames[nameKey] || pendingURLs[engine.URL]
		for _, existing := range current {
			if nameFolder.String(existing.Name) == nameKey || existing.URL == engine.URL {
				duplicate = true
				break
			}
		}

		if duplicate {
			warning := fmt.Sprintf("skipped duplicate engine: %s", engine.Name)
			report.Warnings = append(report.Warnings, warning)
			report.Plan = append(report.Plan, PlanStep{
				Name:   engine.Name,
				Action: ActionSkip,
				Note:   "duplicate name or URL",
			})
			logging.Debug("duplicate engine skipped", logging.Engine(engine.Name))
			continue
		}

		if !dryRun {
			if err := r.store.AddEngine(ctx, fillIdentity(engine)); err != nil {
				return report, &StoreError{Resource: "engines", Err: err}
			}
		}
		pendingNames[nameKey] = true
		pendingURLs[engine.URL] = true
		report.Imported++
		report.Plan = append(report.Plan, PlanStep{Name: engine.Name, Action: ActionAdd})
	}

	return report, nil
}

// checkCandidate screens one candidate: a decode failure or validation
// failure produces a reject step with an index-tagged note.
func checkCandidate(index int, candidate model.EngineCandidate) (PlanStep, model.EngineRecord, bool) {
	if candidate.Err != nil {
		return PlanStep{
			Name:   fmt.Sprintf("engines[%d]", index),
			Action: ActionReject,
			Note:   fmt.Sprintf("engines[%d]: %v", index, candidate.Err),
		}, model.EngineRecord{}, false
	}
	if err := validate.EngineError(candidate.Engine); err != nil {
		return PlanStep{
			Name:   candidate.Engine.Name,
			Action: ActionReject,
			Note:   fmt.Sprintf("engines[%d]: %v", index, err),
		}, model.EngineRecord{}, false
	}
	return PlanStep{}, candidate.Engine, true
}

// fillIdentity generates an identifier for engines that arrived without
// one and backfills missing timestamps.
func fillIdentity(e model.EngineRecord) model.EngineRecord {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.ModifiedAt.IsZero() {
		e.ModifiedAt = now
	}
	return e
}

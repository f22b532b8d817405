package sync

import (
	"context"
	"fmt"

	"github.com/searchsync/searchsync/internal/engine"
	"github.com/searchsync/searchsync/internal/logging"
	"github.com/searchsync/searchsync/internal/model"
	"github.com/searchsync/searchsync/internal/store"
	"github.com/searchsync/searchsync/internal/validate"
)

// Options controls how a document is imported.
type Options struct {
	// ReplaceEngines clears the current engine set before importing
	// instead of merging around duplicates.
	ReplaceEngines bool

	// ReplacePreferences overwrites stored preferences even when some
	// already exist. Without it, preferences import only into an
	// unconfigured store.
	ReplacePreferences bool

	// ReplaceHistory replaces the stored search history with the
	// document's. History is never merged; without this flag it is
	// skipped entirely.
	ReplaceHistory bool

	// SkipValidation bypasses the document validation gate. Per-engine
	// checks still apply.
	SkipValidation bool

	// DryRun computes the full plan and result without writing anything.
	DryRun bool
}

// Mode returns the engine import mode the options select.
func (o Options) Mode() model.ImportMode {
	if o.ReplaceEngines {
		return model.ModeReplace
	}
	return model.ModeMerge
}

// Importer applies configuration documents to the store. Engines,
// preferences, and history are isolated failure domains: a store failure
// in one is recorded on the result and the others still proceed.
type Importer struct {
	store    store.Store
	manager  *engine.Manager
	resolver *ConflictResolver
}

// NewImporter creates an importer over the given store and engine manager.
func NewImporter(st store.Store, mgr *engine.Manager) *Importer {
	return &Importer{
		store:    st,
		manager:  mgr,
		resolver: NewConflictResolver(st),
	}
}

// Preview computes the import plan and result without applying anything.
func (im *Importer) Preview(ctx context.Context, doc *model.ConfigDocument, opts Options) (*ImportResult, error) {
	opts.DryRun = true
	return im.Import(ctx, doc, opts)
}

// Import applies the document. A structural validation failure aborts with
// *InvalidDocumentError before anything is written; after that gate,
// per-item and per-sub-resource problems are recorded on the result and
// the call still completes. Success on the result means the call ran to
// completion, not that the result is error-free.
func (im *Importer) Import(ctx context.Context, doc *model.ConfigDocument, opts Options) (*ImportResult, error) {
	defer logging.Timer("import")()

	result := &ImportResult{
		DryRun: opts.DryRun,
		Mode:   opts.Mode(),
	}

	if !opts.SkipValidation {
		vr := validate.Document(doc)
		result.Warnings = append(result.Warnings, vr.Warnings...)
		if vr.HasErrors() {
			return nil, &InvalidDocumentError{Result: vr}
		}
	}
	if doc == nil {
		return nil, &InvalidDocumentError{Result: validate.Document(doc)}
	}

	logging.Info("importing configuration",
		logging.Mode(string(result.Mode)),
		logging.Operation("import"),
	)

	im.importEngines(ctx, doc, opts, result)
	im.importPreferences(ctx, doc, opts, result)
	im.importHistory(ctx, doc, opts, result)

	if !opts.DryRun {
		// Refresh the cached engine view and repair the default-engine
		// invariant over the post-import set.
		if err := im.manager.LoadEngines(ctx); err != nil {
			result.AddError(fmt.Sprintf("reload engines: %v", err))
		}
	}

	result.Success = true
	return result, nil
}

func (im *Importer) importEngines(ctx context.Context, doc *model.ConfigDocument, opts Options, result *ImportResult) {
	if !doc.HasEngines() {
		return
	}

	report, err := im.resolver.Resolve(ctx, doc.Engines, result.Mode, opts.DryRun)
	if report != nil {
		result.Imported.Engines = report.Imported
		result.Plan = append(result.Plan, report.Plan...)
		result.Errors = append(result.Errors, report.Errors...)
		result.Warnings = append(result.Warnings, report.Warnings...)
	}
	if err != nil {
		result.AddError(err.Error())
	}
}

func (im *Importer) importPreferences(ctx context.Context, doc *model.ConfigDocument, opts Options, result *ImportResult) {
	if !doc.HasPreferences() {
		return
	}

	current, err := im.store.GetPreferences(ctx)
	if err != nil {
		result.AddError((&StoreError{Resource: "preferences", Err: err}).Error())
		return
	}
	if current != nil && !opts.ReplacePreferences {
		result.Skipped.Preferences = true
		result.AddWarning("preferences already configured; use replace to overwrite")
		return
	}

	sanitized := validate.Preferences(doc.Preferences)
	if !opts.DryRun {
		if err := im.store.UpdatePreferences(ctx, sanitized); err != nil {
			result.AddError((&StoreError{Resource: "preferences", Err: err}).Error())
			return
		}
	}
	result.Imported.Preferences = true
}

// importHistory replaces the stored history wholesale. History is never
// merged: timestamps make near-duplicate entries meaningless to reconcile.
func (im *Importer) importHistory(ctx context.Context, doc *model.ConfigDocument, opts Options, result *ImportResult) {
	if !doc.HasHistory() {
		return
	}
	if !opts.ReplaceHistory {
		result.AddWarning("document contains search history; not imported without replace-history")
		return
	}

	if !opts.DryRun {
		if err := im.store.ClearSearchHistory(ctx); err != nil {
			result.AddError((&StoreError{Resource: "history", Err: err}).Error())
			return
		}
	}

	for i, candidate := range doc.History {
		if candidate.Err != nil {
			result.AddError(fmt.Sprintf("searchHistory[%d]: %v", i, candidate.Err))
			continue
		}
		if !candidate.Entry.Complete() {
			result.AddError(fmt.Sprintf("searchHistory[%d]: entry is missing query, engine, or timestamp", i))
			continue
		}
		if !opts.DryRun {
			if err := im.store.AddSearchHistory(ctx, candidate.Entry); err != nil {
				result.AddError((&StoreError{Resource: "history", Err: err}).Error())
				return
			}
		}
		result.Imported.History++
	}
}

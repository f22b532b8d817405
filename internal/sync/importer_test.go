package sync

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/searchsync/searchsync/internal/engine"
	"github.com/searchsync/searchsync/internal/model"
	"github.com/searchsync/searchsync/internal/store"
)

func newImporter(t *testing.T) (*Importer, *store.Memory, *engine.Manager) {
	t.Helper()
	st := store.NewMemory()
	mgr := engine.NewManager(st)
	if err := mgr.LoadEngines(context.Background()); err != nil {
		t.Fatal(err)
	}
	return NewImporter(st, mgr), st, mgr
}

func importDocument() *model.ConfigDocument {
	return &model.ConfigDocument{
		Object:       true,
		Version:      model.DocumentVersion,
		VersionShape: model.SectionPresent,
		EnginesShape: model.SectionPresent,
		Engines: []model.EngineCandidate{
			engineCandidate("DuckDuckGo", "https://duckduckgo.com/?q={query}"),
			engineCandidate("Startpage", "https://startpage.com/do/search?q={query}"),
		},
	}
}

func TestImport_MergeIntoEmptyStore(t *testing.T) {
	ctx := context.Background()
	importer, st, mgr := newImporter(t)

	result, err := importer.Import(ctx, importDocument(), Options{})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if !result.Success {
		t.Error("completed import should report success")
	}
	if result.Imported.Engines != 2 {
		t.Errorf("imported engines = %d, want 2", result.Imported.Engines)
	}
	if result.HasErrors() {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	engines, _ := st.GetAllEngines(ctx)
	if len(engines) != 2 {
		t.Fatalf("store has %d engines, want 2", len(engines))
	}

	// The manager reload repairs the default invariant over the imported set.
	def, ok := mgr.Default()
	if !ok {
		t.Fatal("an enabled engine should have been promoted to default")
	}
	if def.Name != "DuckDuckGo" {
		t.Errorf("default = %q, want first enabled by sort order", def.Name)
	}
}

func TestImport_InvalidDocumentAborts(t *testing.T) {
	ctx := context.Background()
	importer, st, _ := newImporter(t)

	doc := importDocument()
	doc.Engines = append(doc.Engines, engineCandidate("", "https://bad.example/?q={query}"))

	_, err := importer.Import(ctx, doc, Options{})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !IsInvalidDocument(err) {
		t.Fatalf("expected InvalidDocumentError, got %T: %v", err, err)
	}
	var ie *InvalidDocumentError
	if errors.As(err, &ie) && ie.Result == nil {
		t.Error("InvalidDocumentError should carry the validation result")
	}

	engines, _ := st.GetAllEngines(ctx)
	if len(engines) != 0 {
		t.Error("nothing may be written when validation fails")
	}
}

func TestImport_SkipValidationBypassesGate(t *testing.T) {
	ctx := context.Background()
	importer, st, _ := newImporter(t)

	doc := importDocument()
	doc.Engines = append(doc.Engines, engineCandidate("", "https://bad.example/?q={query}"))

	result, err := importer.Import(ctx, doc, Options{SkipValidation: true})
	if err != nil {
		t.Fatalf("skip-validation import should complete: %v", err)
	}
	if result.Imported.Engines != 2 {
		t.Errorf("imported = %d, want 2 (invalid engine rejected per item)", result.Imported.Engines)
	}
	if !result.HasErrors() {
		t.Error("the invalid engine should surface as a per-item error")
	}

	engines, _ := st.GetAllEngines(ctx)
	if len(engines) != 2 {
		t.Errorf("store has %d engines, want 2", len(engines))
	}
}

func TestImport_PreferencesIntoEmptyStore(t *testing.T) {
	ctx := context.Background()
	importer, st, _ := newImporter(t)

	doc := importDocument()
	doc.PreferencesShape = model.SectionPresent
	doc.Preferences = map[string]any{"theme": "dark", "resultsPerPage": float64(50)}

	result, err := importer.Import(ctx, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Imported.Preferences {
		t.Error("preferences should import into an unconfigured store")
	}

	prefs, _ := st.GetPreferences(ctx)
	if prefs == nil {
		t.Fatal("preferences were not stored")
	}
	if prefs.Theme != model.ThemeDark || prefs.ResultsPerPage != 50 {
		t.Errorf("stored prefs = %+v", prefs)
	}
}

func TestImport_PreferencesSkippedWhenConfigured(t *testing.T) {
	ctx := context.Background()
	importer, st, _ := newImporter(t)

	existing := model.DefaultPreferences()
	existing.Theme = model.ThemeLight
	if err := st.UpdatePreferences(ctx, existing); err != nil {
		t.Fatal(err)
	}

	doc := importDocument()
	doc.PreferencesShape = model.SectionPresent
	doc.Preferences = map[string]any{"theme": "dark"}

	result, err := importer.Import(ctx, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported.Preferences {
		t.Error("preferences must not overwrite without the replace flag")
	}
	if !result.Skipped.Preferences {
		t.Error("skip should be surfaced on the result")
	}
	warned := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "preferences") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("skip should warn, got: %v", result.Warnings)
	}

	prefs, _ := st.GetPreferences(ctx)
	if prefs.Theme != model.ThemeLight {
		t.Errorf("stored theme changed to %q", prefs.Theme)
	}
}

func TestImport_PreferencesReplaceForced(t *testing.T) {
	ctx := context.Background()
	importer, st, _ := newImporter(t)

	if err := st.UpdatePreferences(ctx, model.DefaultPreferences()); err != nil {
		t.Fatal(err)
	}

	doc := importDocument()
	doc.PreferencesShape = model.SectionPresent
	doc.Preferences = map[string]any{"theme": "dark"}

	result, err := importer.Import(ctx, doc, Options{ReplacePreferences: true})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Imported.Preferences {
		t.Error("forced preferences replace should import")
	}

	prefs, _ := st.GetPreferences(ctx)
	if prefs.Theme != model.ThemeDark {
		t.Errorf("theme = %q, want dark", prefs.Theme)
	}
}

func historyDocument() *model.ConfigDocument {
	doc := importDocument()
	doc.HistoryShape = model.SectionPresent
	doc.History = []model.HistoryCandidate{
		{Entry: model.HistoryEntry{
			Query: "go contexts", Engine: "e1",
			Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		}},
		{Entry: model.HistoryEntry{
			Query: "", Engine: "e1",
			Timestamp: time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC),
		}},
		{Entry: model.HistoryEntry{
			Query: "slog handlers", Engine: "e1",
			Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		}},
	}
	return doc
}

func TestImport_HistorySkippedWithoutReplaceFlag(t *testing.T) {
	ctx := context.Background()
	importer, st, _ := newImporter(t)

	result, err := importer.Import(ctx, historyDocument(), Options{SkipValidation: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported.History != 0 {
		t.Errorf("history imported = %d, want 0", result.Imported.History)
	}
	if len(result.Warnings) == 0 {
		t.Error("skipping carried history should warn")
	}

	entries, _ := st.GetSearchHistory(ctx, 0)
	if len(entries) != 0 {
		t.Error("history must not be written without the replace flag")
	}
}

func TestImport_HistoryReplaceWholesale(t *testing.T) {
	ctx := context.Background()
	importer, st, _ := newImporter(t)

	if err := st.AddSearchHistory(ctx, model.HistoryEntry{
		Query: "stale", Engine: "e0", Timestamp: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	result, err := importer.Import(ctx, historyDocument(), Options{
		SkipValidation: true,
		ReplaceHistory: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported.History != 2 {
		t.Errorf("history imported = %d, want 2 (incomplete entry rejected)", result.Imported.History)
	}
	if !result.HasErrors() {
		t.Error("the incomplete entry should surface as an error")
	}

	entries, _ := st.GetSearchHistory(ctx, 0)
	if len(entries) != 2 {
		t.Fatalf("store has %d history entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Query == "stale" {
			t.Error("pre-existing history should have been cleared")
		}
	}
}

func TestImport_DryRunMakesNoChanges(t *testing.T) {
	ctx := context.Background()
	importer, st, _ := newImporter(t)

	doc := historyDocument()
	doc.PreferencesShape = model.SectionPresent
	doc.Preferences = map[string]any{"theme": "dark"}

	result, err := importer.Import(ctx, doc, Options{
		SkipValidation: true,
		ReplaceHistory: true,
		DryRun:         true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !result.DryRun {
		t.Error("result should be marked as dry run")
	}
	if result.Imported.Engines != 2 || result.Imported.History != 2 || !result.Imported.Preferences {
		t.Errorf("dry run should simulate full counts, got %+v", result.Imported)
	}

	engines, _ := st.GetAllEngines(ctx)
	entries, _ := st.GetSearchHistory(ctx, 0)
	prefs, _ := st.GetPreferences(ctx)
	if len(engines) != 0 || len(entries) != 0 || prefs != nil {
		t.Error("dry run must leave the store untouched")
	}
}

func TestPreview_MatchesDryRun(t *testing.T) {
	ctx := context.Background()
	importer, st, _ := newImporter(t)

	result, err := importer.Preview(ctx, importDocument(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.DryRun {
		t.Error("preview result should be a dry run")
	}
	if len(result.Plan) != 2 {
		t.Errorf("plan has %d steps, want 2", len(result.Plan))
	}

	engines, _ := st.GetAllEngines(ctx)
	if len(engines) != 0 {
		t.Error("preview must not write")
	}
}

func TestImport_ReplaceMode(t *testing.T) {
	ctx := context.Background()
	importer, st, mgr := newImporter(t)

	if err := st.AddEngine(ctx, model.EngineRecord{
		ID: "old", Name: "Old", URL: "https://old.example/?q={query}", Enabled: true, IsDefault: true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := mgr.LoadEngines(ctx); err != nil {
		t.Fatal(err)
	}

	result, err := importer.Import(ctx, importDocument(), Options{ReplaceEngines: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Mode != model.ModeReplace {
		t.Errorf("mode = %v, want replace", result.Mode)
	}

	engines, _ := st.GetAllEngines(ctx)
	if len(engines) != 2 {
		t.Fatalf("store has %d engines, want 2", len(engines))
	}
	for _, e := range engines {
		if e.Name == "Old" {
			t.Error("replace mode should have removed the old engine")
		}
	}

	if def, ok := mgr.Default(); !ok || def.Name != "DuckDuckGo" {
		t.Errorf("default after replace = %+v", def)
	}
}

package sync

import (
	"context"
	"strings"
	"testing"

	"github.com/searchsync/searchsync/internal/model"
	"github.com/searchsync/searchsync/internal/store"
)

func engineCandidate(name, url string) model.EngineCandidate {
	return model.EngineCandidate{Engine: model.EngineRecord{
		Name:    name,
		URL:     url,
		Enabled: true,
	}}
}

func TestResolve_MergeAddsAndSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.AddEngine(ctx, model.EngineRecord{
		ID:      "existing",
		Name:    "Foo",
		URL:     "https://foo.example/?q={query}",
		Enabled: true,
	}); err != nil {
		t.Fatal(err)
	}

	resolver := NewConflictResolver(st)
	report, err := resolver.Resolve(ctx, []model.EngineCandidate{
		engineCandidate("FOO", "https://other.example/?q={query}"), // name duplicate, different URL
		engineCandidate("Bar", "https://foo.example/?q={query}"),   // URL duplicate, different name
		engineCandidate("Baz", "https://baz.example/?q={query}"),
	}, model.ModeMerge, false)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if report.Imported != 1 {
		t.Errorf("imported = %d, want 1", report.Imported)
	}
	if len(report.Warnings) != 2 {
		t.Errorf("warnings = %d, want 2: %v", len(report.Warnings), report.Warnings)
	}
	for _, w := range report.Warnings {
		if !strings.Contains(w, "duplicate") {
			t.Errorf("warning should mention duplicate: %s", w)
		}
	}

	engines, _ := st.GetAllEngines(ctx)
	if len(engines) != 2 {
		t.Errorf("store has %d engines, want 2", len(engines))
	}
}

func TestResolve_MergeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	resolver := NewConflictResolver(st)
	candidates := []model.EngineCandidate{
		engineCandidate("A", "https://a.example/?q={query}"),
		engineCandidate("B", "https://b.example/?q={query}"),
	}

	first, err := resolver.Resolve(ctx, candidates, model.ModeMerge, false)
	if err != nil {
		t.Fatal(err)
	}
	if first.Imported != 2 {
		t.Fatalf("first import = %d, want 2", first.Imported)
	}

	second, err := resolver.Resolve(ctx, candidates, model.ModeMerge, false)
	if err != nil {
		t.Fatal(err)
	}
	if second.Imported != 0 {
		t.Errorf("second import = %d, want 0", second.Imported)
	}
	if len(second.Warnings) != 2 {
		t.Errorf("second import warnings = %d, want 2", len(second.Warnings))
	}

	engines, _ := st.GetAllEngines(ctx)
	if len(engines) != 2 {
		t.Errorf("store has %d engines after re-import, want 2", len(engines))
	}
}

func TestResolve_MergeDetectsInDocumentDuplicates(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	resolver := NewConflictResolver(st)

	report, err := resolver.Resolve(ctx, []model.EngineCandidate{
		engineCandidate("Same", "https://one.example/?q={query}"),
		engineCandidate("same", "https://two.example/?q={query}"),
	}, model.ModeMerge, false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Imported != 1 {
		t.Errorf("imported = %d, want 1", report.Imported)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(report.Warnings))
	}
}

func TestResolve_ReplaceClearsExisting(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	for _, e := range []model.EngineRecord{
		{ID: "old1", Name: "Old1", URL: "https://old1.example/?q={query}", Enabled: true},
		{ID: "old2", Name: "Old2", URL: "https://old2.example/?q={query}", Enabled: true},
	} {
		if err := st.AddEngine(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	resolver := NewConflictResolver(st)
	report, err := resolver.Resolve(ctx, []model.EngineCandidate{
		engineCandidate("New", "https://new.example/?q={query}"),
	}, model.ModeReplace, false)
	if err != nil {
		t.Fatal(err)
	}

	if report.Cleared != 2 {
		t.Errorf("cleared = %d, want 2", report.Cleared)
	}
	if report.Imported != 1 {
		t.Errorf("imported = %d, want 1", report.Imported)
	}

	engines, _ := st.GetAllEngines(ctx)
	if len(engines) != 1 || engines[0].Name != "New" {
		t.Errorf("store should contain only the imported engine, got %+v", engines)
	}
	if engines[0].ID == "" {
		t.Error("imported engine should receive a generated id")
	}
}

func TestResolve_RejectsInvalidCandidates(t *testing.T) {
	ctx := context.Background()
	resolver := NewConflictResolver(store.NewMemory())

	report, err := resolver.Resolve(ctx, []model.EngineCandidate{
		engineCandidate("", "https://a.example/?q={query}"),
		engineCandidate("NoPlaceholder", "https://b.example/search"),
		engineCandidate("Good", "https://c.example/?q={query}"),
	}, model.ModeMerge, false)
	if err != nil {
		t.Fatal(err)
	}

	if report.Imported != 1 {
		t.Errorf("imported = %d, want 1", report.Imported)
	}
	if len(report.Errors) != 2 {
		t.Fatalf("errors = %d, want 2: %v", len(report.Errors), report.Errors)
	}
	if !strings.Contains(report.Errors[0], "engines[0]") {
		t.Errorf("errors should be index-tagged: %s", report.Errors[0])
	}
}

func TestResolve_DryRunDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	resolver := NewConflictResolver(st)

	report, err := resolver.Resolve(ctx, []model.EngineCandidate{
		engineCandidate("A", "https://a.example/?q={query}"),
		engineCandidate("a", "https://a2.example/?q={query}"),
	}, model.ModeMerge, true)
	if err != nil {
		t.Fatal(err)
	}

	if report.Imported != 1 {
		t.Errorf("dry-run imported = %d, want 1", report.Imported)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("dry run should still detect the in-document duplicate")
	}

	engines, _ := st.GetAllEngines(ctx)
	if len(engines) != 0 {
		t.Errorf("dry run must not write, store has %d engines", len(engines))
	}
}

func TestResolve_ReplaceDryRunKeepsExisting(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.AddEngine(ctx, model.EngineRecord{
		ID: "keep", Name: "Keep", URL: "https://keep.example/?q={query}", Enabled: true,
	}); err != nil {
		t.Fatal(err)
	}

	resolver := NewConflictResolver(st)
	report, err := resolver.Resolve(ctx, []model.EngineCandidate{
		engineCandidate("New", "https://new.example/?q={query}"),
	}, model.ModeReplace, true)
	if err != nil {
		t.Fatal(err)
	}
	if report.Cleared != 1 || report.Imported != 1 {
		t.Errorf("plan = cleared %d imported %d, want 1/1", report.Cleared, report.Imported)
	}

	engines, _ := st.GetAllEngines(ctx)
	if len(engines) != 1 || engines[0].ID != "keep" {
		t.Errorf("dry-run replace must not touch the store, got %+v", engines)
	}
}

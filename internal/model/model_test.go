package model

import (
	"testing"
	"time"
)

func TestSearchURL(t *testing.T) {
	e := EngineRecord{URL: "https://example.com/search?q={query}&lang=en"}
	got := e.SearchURL("go%20slices")
	want := "https://example.com/search?q=go%20slices&lang=en"
	if got != want {
		t.Errorf("SearchURL = %q, want %q", got, want)
	}
}

func TestNameKey(t *testing.T) {
	e := EngineRecord{Name: "  DuckDuckGo "}
	if e.NameKey() != "duckduckgo" {
		t.Errorf("NameKey = %q", e.NameKey())
	}
}

func TestHistoryEntryComplete(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		entry HistoryEntry
		want  bool
	}{
		{"complete", HistoryEntry{Query: "q", Engine: "e", Timestamp: ts}, true},
		{"missing query", HistoryEntry{Engine: "e", Timestamp: ts}, false},
		{"missing engine", HistoryEntry{Query: "q", Timestamp: ts}, false},
		{"zero timestamp", HistoryEntry{Query: "q", Engine: "e"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.entry.Complete(); got != tc.want {
				t.Errorf("Complete() = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestParseImportMode(t *testing.T) {
	for _, mode := range AllImportModes() {
		parsed, err := ParseImportMode(mode.String())
		if err != nil {
			t.Errorf("ParseImportMode(%q) failed: %v", mode, err)
		}
		if parsed != mode {
			t.Errorf("parsed = %v, want %v", parsed, mode)
		}
	}

	if _, err := ParseImportMode("sideways"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if ImportMode("sideways").IsValid() {
		t.Error("unknown mode should not be valid")
	}
}

func TestBuildMetadata(t *testing.T) {
	engines := []EngineRecord{
		{Name: "A", Enabled: true, IsDefault: true},
		{Name: "B", Enabled: false},
		{Name: "C", Enabled: true},
	}

	md := BuildMetadata(engines, 7, true)
	if md.TotalEngines != 3 || md.EnabledEngines != 2 {
		t.Errorf("counts = %+v", md)
	}
	if md.DefaultEngine == nil || *md.DefaultEngine != "A" {
		t.Errorf("default = %v, want A", md.DefaultEngine)
	}
	if md.HistoryEntries != 7 || !md.IncludesHistory {
		t.Errorf("history fields = %+v", md)
	}

	md = BuildMetadata(nil, 0, false)
	if md.DefaultEngine != nil {
		t.Error("no engines means no default name")
	}
}

func TestPreferencesMapRoundTrip(t *testing.T) {
	prefs := DefaultPreferences()
	m := prefs.Map()

	for _, key := range []string{
		"defaultEngine", "theme", "resultsPerPage", "openInNewTab",
		"showPreviews", "autoComplete", "enableHistory", "maxHistoryItems",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("Map() missing key %q", key)
		}
	}
	if len(m) != 8 {
		t.Errorf("Map() has %d keys, want 8", len(m))
	}
	if m["theme"] != "auto" {
		t.Errorf("theme = %v", m["theme"])
	}
}

func TestThemeIsValid(t *testing.T) {
	for _, theme := range []Theme{ThemeLight, ThemeDark, ThemeAuto} {
		if !theme.IsValid() {
			t.Errorf("%q should be valid", theme)
		}
	}
	if Theme("sparkly").IsValid() {
		t.Error("unknown theme should be invalid")
	}
}

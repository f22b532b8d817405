package ui

import (
	"testing"
)

func TestStatusFunctions(t *testing.T) {
	// Disable colors for consistent test output
	DisableColors()
	defer EnableColors()

	tests := []struct {
		name     string
		fn       func(string) string
		input    string
		contains string
	}{
		{"StatusSuccess empty", StatusSuccess, "", SymbolSuccess},
		{"StatusSuccess with msg", StatusSuccess, "done", SymbolSuccess + " done"},
		{"StatusError empty", StatusError, "", SymbolError},
		{"StatusError with msg", StatusError, "failed", SymbolError + " failed"},
		{"StatusWarning empty", StatusWarning, "", SymbolWarning},
		{"StatusWarning with msg", StatusWarning, "caution", SymbolWarning + " caution"},
		{"StatusSkipped empty", StatusSkipped, "", SymbolSkipped},
		{"StatusSkipped with msg", StatusSkipped, "skip", SymbolSkipped + " skip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.input)
			if got != tt.contains {
				t.Errorf("got %q, want %q", got, tt.contains)
			}
		})
	}
}

func TestDefaultMarker(t *testing.T) {
	DisableColors()
	defer EnableColors()

	if DefaultMarker() != SymbolDefault {
		t.Errorf("DefaultMarker = %q, want %q", DefaultMarker(), SymbolDefault)
	}
}

func TestColorToggle(t *testing.T) {
	initial := IsColorEnabled()
	defer func() {
		if initial {
			EnableColors()
		} else {
			DisableColors()
		}
	}()

	DisableColors()
	if IsColorEnabled() {
		t.Error("colors should be disabled")
	}
	EnableColors()
	if !IsColorEnabled() {
		t.Error("colors should be enabled")
	}
}

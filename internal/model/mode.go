package model

import "fmt"

// ImportMode defines how imported engines are combined with the current set.
type ImportMode string

const (
	// ModeMerge adds only non-duplicate engines, leaving existing ones untouched.
	ModeMerge ImportMode = "merge"

	// ModeReplace clears all existing engines before adding imported ones.
	ModeReplace ImportMode = "replace"
)

// IsValid returns true if the mode is recognized.
func (m ImportMode) IsValid() bool {
	switch m {
	case ModeMerge, ModeReplace:
		return true
	default:
		return false
	}
}

// ParseImportMode parses a mode string, rejecting unknown values.
func ParseImportMode(s string) (ImportMode, error) {
	mode := ImportMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("unknown import mode %q (valid: merge, replace)", s)
	}
	return mode, nil
}

// AllImportModes returns all supported import modes.
func AllImportModes() []ImportMode {
	return []ImportMode{ModeMerge, ModeReplace}
}

// String returns the string representation of the mode.
func (m ImportMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ImportMode) Description() string {
	switch m {
	case ModeMerge:
		return "Add non-duplicate engines, keep existing ones untouched"
	case ModeReplace:
		return "Clear all existing engines before adding imported ones"
	default:
		return "Unknown mode"
	}
}

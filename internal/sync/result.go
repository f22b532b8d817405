package sync

import (
	"fmt"
	"strings"

	"github.com/searchsync/searchsync/internal/model"
)

// PlanAction is the per-engine action the resolver decided on.
type PlanAction string

const (
	// ActionAdd indicates the engine will be added to the store.
	ActionAdd PlanAction = "add"

	// ActionSkip indicates a duplicate engine will be left untouched.
	ActionSkip PlanAction = "skip"

	// ActionReject indicates an invalid or undecodable engine was dropped.
	ActionReject PlanAction = "reject"

	// ActionClear indicates the current engine set will be deleted before
	// imported engines are added (replace mode only).
	ActionClear PlanAction = "clear"
)

// PlanStep is one row of the computed engine plan. The preview UI renders
// these; applying the plan produces the same steps.
type PlanStep struct {
	// Name is the engine name, or a description for clear steps.
	Name string

	// Action is what happens to this engine.
	Action PlanAction

	// Note explains the action (duplicate key, validation failure).
	Note string
}

// ImportedCounts reports what an import applied.
type ImportedCounts struct {
	// Engines is the number of engines added.
	Engines int

	// Preferences is true when the preferences record was written.
	Preferences bool

	// History is the number of history entries added.
	History int
}

// SkippedFlags surfaces sub-resources that were deliberately not touched.
type SkippedFlags struct {
	// Preferences is true when the document carried preferences but the
	// store already had some and replace was not forced.
	Preferences bool
}

// ImportResult is the outcome of an import call. Success reflects that the
// call completed, not that zero errors occurred; callers must inspect
// Errors.
type ImportResult struct {
	// Success is true when the import ran to completion.
	Success bool

	// DryRun indicates no changes were made.
	DryRun bool

	// Mode is the engine import mode that was applied.
	Mode model.ImportMode

	// Imported reports what was applied.
	Imported ImportedCounts

	// Skipped surfaces deliberately untouched sub-resources.
	Skipped SkippedFlags

	// Plan holds the per-engine steps the resolver computed.
	Plan []PlanStep

	// Errors collects recoverable per-item and per-sub-resource failures.
	Errors []string

	// Warnings collects expected steady-state outcomes such as duplicate
	// skips.
	Warnings []string
}

// HasErrors returns true if any per-item or sub-resource error occurred.
func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// AddError appends a recoverable error.
func (r *ImportResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning appends a warning.
func (r *ImportResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Summary returns a human-readable summary of the import result.
func (r *ImportResult) Summary() string {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("Dry run - no changes made\n")
	}

	sb.WriteString(fmt.Sprintf("Imported using %s mode\n", r.Mode))
	sb.WriteString(fmt.Sprintf("  Engines:     %d\n", r.Imported.Engines))
	sb.WriteString(fmt.Sprintf("  Preferences: %s\n", importedPreferences(r)))
	sb.WriteString(fmt.Sprintf("  History:     %d\n", r.Imported.History))

	if len(r.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", w))
		}
	}

	if len(r.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, e := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", e))
		}
	}

	return sb.String()
}

func importedPreferences(r *ImportResult) string {
	switch {
	case r.Imported.Preferences:
		return "yes"
	case r.Skipped.Preferences:
		return "skipped (already configured)"
	default:
		return "no"
	}
}

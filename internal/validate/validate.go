// Package validate provides shape and content checks for engine records,
// preference objects, and whole configuration documents. All checks are
// pure; no I/O happens here.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/searchsync/searchsync/internal/model"
)

// MaxNameLength is the longest allowed engine name, in runes.
const MaxNameLength = 50

// colorPattern matches a #RRGGBB hex color.
var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// placeholderToken substitutes the {query} placeholder when checking that a
// URL template parses.
const placeholderToken = "searchsync"

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the field or component that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Result contains the outcome of a document validation check.
type Result struct {
	// Valid indicates whether all validations passed
	Valid bool
	// Warnings contains non-fatal validation issues
	Warnings []string
	// Errors contains validation failures that prevent the operation
	Errors []string
}

// AddError adds an error to the validation result.
func (r *Result) AddError(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Summary returns a human-readable summary of the validation result.
func (r *Result) Summary() string {
	if r.Valid && len(r.Warnings) == 0 {
		return "Document is valid"
	}
	var msg string
	if r.Valid {
		msg = "Document is valid with warnings"
	} else {
		msg = fmt.Sprintf("Document is invalid (%d error(s))", len(r.Errors))
	}
	if len(r.Warnings) > 0 {
		msg += fmt.Sprintf(" (%d warning(s))", len(r.Warnings))
	}
	return msg
}

// Engine reports whether the candidate engine record is valid.
func Engine(e model.EngineRecord) bool {
	return EngineError(e) == nil
}

// EngineError validates a single engine record and returns the first
// problem found, or nil. Exposed separately from Engine so document
// validation can produce index-tagged messages.
func EngineError(e model.EngineRecord) error {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return &Error{Field: "name", Message: "engine name cannot be empty"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return &Error{
			Field:   "name",
			Message: fmt.Sprintf("engine name exceeds %d characters", MaxNameLength),
		}
	}

	if err := engineURLError(e.URL); err != nil {
		return err
	}

	if e.Icon != "" {
		if _, err := url.Parse(e.Icon); err != nil {
			return &Error{Field: "icon", Message: "icon is not a valid URL", Err: err}
		}
	}

	if e.Color != "" && !colorPattern.MatchString(e.Color) {
		return &Error{
			Field:   "color",
			Message: fmt.Sprintf("color %q is not a #RRGGBB hex value", e.Color),
		}
	}

	return nil
}

// engineURLError checks the search-template rule: http(s) scheme, exactly
// one meaningful {query} placeholder, and the URL parses once the
// placeholder is substituted with a harmless token.
func engineURLError(raw string) error {
	if raw == "" {
		return &Error{Field: "url", Message: "engine URL cannot be empty"}
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return &Error{Field: "url", Message: "engine URL must start with http:// or https://"}
	}
	if !strings.Contains(raw, model.QueryPlaceholder) {
		return &Error{
			Field:   "url",
			Message: fmt.Sprintf("engine URL must contain the %s placeholder", model.QueryPlaceholder),
		}
	}
	substituted := strings.Replace(raw, model.QueryPlaceholder, placeholderToken, 1)
	if _, err := url.Parse(substituted); err != nil {
		return &Error{Field: "url", Message: "engine URL does not parse", Err: err}
	}
	return nil
}

// Document validates a parsed configuration document. Version problems are
// warnings (forward/backward tolerance is intentional); a malformed history
// section is a warning; everything else that is off-shape is an error.
// Accumulated errors set Valid=false.
func Document(doc *model.ConfigDocument) *Result {
	result := &Result{Valid: true}

	if doc == nil || !doc.Object {
		result.AddError("document must be a JSON object")
		return result
	}

	switch doc.VersionShape {
	case model.SectionAbsent:
		result.AddWarning("document has no version; assuming " + model.DocumentVersion)
	case model.SectionWrongType:
		result.AddWarning("document version is not a string; assuming " + model.DocumentVersion)
	case model.SectionPresent:
		if doc.Version != model.DocumentVersion {
			result.AddWarning(fmt.Sprintf("document version %q differs from supported version %q",
				doc.Version, model.DocumentVersion))
		}
	}

	switch doc.EnginesShape {
	case model.SectionWrongType:
		result.AddError("engines must be a sequence")
	case model.SectionPresent:
		for i, candidate := range doc.Engines {
			if candidate.Err != nil {
				result.AddError(fmt.Sprintf("engines[%d]: %v", i, candidate.Err))
				continue
			}
			if err := EngineError(candidate.Engine); err != nil {
				result.AddError(fmt.Sprintf("engines[%d]: %v", i, err))
			}
		}
	}

	if doc.PreferencesShape == model.SectionWrongType {
		result.AddError("preferences must be an object")
	}

	if doc.HistoryShape == model.SectionWrongType {
		result.AddWarning("searchHistory is not a sequence and will be ignored")
	}

	return result
}

// Preferences sanitizes a raw preferences object into a usable record. It
// never fails: the result starts from defaults and only recognized keys
// whose values pass type and range checks are overlaid. Unknown keys and
// out-of-range values are silently dropped, never clamped.
func Preferences(raw map[string]any) model.PreferencesRecord {
	prefs := model.DefaultPreferences()
	if raw == nil {
		return prefs
	}

	if v, ok := stringValue(raw["defaultEngine"]); ok {
		prefs.DefaultEngine = v
	}
	if v, ok := stringValue(raw["theme"]); ok {
		if theme := model.Theme(v); theme.IsValid() {
			prefs.Theme = theme
		}
	}
	if v, ok := intValue(raw["resultsPerPage"]); ok {
		if v >= model.MinResultsPerPage && v <= model.MaxResultsPerPage {
			prefs.ResultsPerPage = v
		}
	}
	if v, ok := boolValue(raw["openInNewTab"]); ok {
		prefs.OpenInNewTab = v
	}
	if v, ok := boolValue(raw["showPreviews"]); ok {
		prefs.ShowPreviews = v
	}
	if v, ok := boolValue(raw["autoComplete"]); ok {
		prefs.AutoComplete = v
	}
	if v, ok := boolValue(raw["enableHistory"]); ok {
		prefs.EnableHistory = v
	}
	if v, ok := intValue(raw["maxHistoryItems"]); ok {
		if v >= model.MinHistoryItems && v <= model.MaxHistoryItems {
			prefs.MaxHistoryItems = v
		}
	}

	return prefs
}

// stringValue extracts a string, rejecting other types.
func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// boolValue extracts a bool, rejecting other types.
func boolValue(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// intValue extracts an integer. JSON numbers arrive as float64 and are
// accepted only when integral.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}

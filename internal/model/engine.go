// Package model defines the core data types for searchsync.
package model

import (
	"strings"
	"time"
)

// QueryPlaceholder is the token an engine URL template must contain. It is
// substituted with the encoded query when a search is dispatched.
const QueryPlaceholder = "{query}"

// EngineRecord represents a configured search engine template.
type EngineRecord struct {
	// ID is an opaque identifier, stable across edits.
	ID string `json:"id"`

	// Name is the human-facing engine name, unique case-insensitively.
	Name string `json:"name"`

	// URL is the search URL template containing the {query} placeholder.
	URL string `json:"url"`

	// Icon is an optional icon URL.
	Icon string `json:"icon,omitempty"`

	// Color is an optional #RRGGBB accent color.
	Color string `json:"color,omitempty"`

	// Enabled marks the engine as available for dispatch.
	Enabled bool `json:"enabled"`

	// IsDefault marks the single default engine.
	IsDefault bool `json:"isDefault"`

	// SortOrder defines display order among engines.
	SortOrder int `json:"sortOrder"`

	// CreatedAt is when the record was first stored.
	CreatedAt time.Time `json:"createdAt"`

	// ModifiedAt is when the record was last changed.
	ModifiedAt time.Time `json:"modifiedAt"`
}

// SearchURL returns the URL with the placeholder substituted by the given
// (already encoded) query term.
func (e EngineRecord) SearchURL(encoded string) string {
	return strings.Replace(e.URL, QueryPlaceholder, encoded, 1)
}

// NameKey returns the case-insensitive duplicate-detection key for the name.
// Callers that need full Unicode case folding should use the resolver's
// folded keys; this is the simple ASCII-ish fallback for display grouping.
func (e EngineRecord) NameKey() string {
	return strings.ToLower(strings.TrimSpace(e.Name))
}

package model

import "time"

// HistoryEntry records a single dispatched search. Entries are immutable
// once created; history import is whole-scale replace or skip.
type HistoryEntry struct {
	// Query is the search query string.
	Query string `json:"query"`

	// Engine is the identifier of the engine the query was dispatched to.
	Engine string `json:"engine"`

	// Timestamp is when the search happened.
	Timestamp time.Time `json:"timestamp"`

	// ResultsCount is how many results the engine reported.
	ResultsCount int `json:"resultsCount"`
}

// Complete returns true if the entry carries the fields required for
// import: query, engine, and timestamp. ResultsCount is optional.
func (h HistoryEntry) Complete() bool {
	return h.Query != "" && h.Engine != "" && !h.Timestamp.IsZero()
}

package model

import "time"

// DocumentVersion is the configuration document version this build writes.
// Version mismatches on import are tolerated with a warning.
const DocumentVersion = "1.0"

// SectionShape describes how an optional document section appeared on the
// wire. Tolerant decoding records the shape instead of failing, so document
// validation can distinguish "absent" from "present but the wrong type".
type SectionShape int

const (
	// SectionAbsent means the key was not present in the document.
	SectionAbsent SectionShape = iota

	// SectionPresent means the section was present with the expected type.
	SectionPresent

	// SectionWrongType means the section was present with the wrong type.
	SectionWrongType
)

// Metadata summarizes the exported state.
type Metadata struct {
	// TotalEngines is the number of engines in the document.
	TotalEngines int `json:"totalEngines"`

	// EnabledEngines is how many of them are enabled.
	EnabledEngines int `json:"enabledEngines"`

	// DefaultEngine is the name of the default engine, or null.
	DefaultEngine *string `json:"defaultEngine"`

	// HistoryEntries is the number of stored history entries at export time.
	HistoryEntries int `json:"historyEntries"`

	// IncludesHistory records whether history export was requested.
	IncludesHistory bool `json:"includesHistory"`
}

// EngineCandidate is one element of the document's engine sequence. A
// candidate that failed to decode carries the decode error instead of a
// record; it is a per-item defect, never a document parse failure.
type EngineCandidate struct {
	Engine EngineRecord
	Err    error
}

// HistoryCandidate is one element of the document's history sequence.
type HistoryCandidate struct {
	Entry HistoryEntry
	Err   error
}

// ConfigDocument is the portable export/import artifact: a transient,
// disposable snapshot created per export/import call and never partially
// persisted.
type ConfigDocument struct {
	// Object is true when the top-level JSON value was an object.
	Object bool

	// Version is the document format version string.
	Version string

	// VersionShape records how the version key appeared on the wire.
	VersionShape SectionShape

	// ExportedAt is when the document was produced.
	ExportedAt time.Time

	// Metadata holds the export summary, if present.
	Metadata *Metadata

	// Engines is the ordered engine sequence.
	Engines []EngineCandidate

	// EnginesShape records how the engines key appeared on the wire.
	EnginesShape SectionShape

	// Preferences is the raw preferences object. It stays loosely typed
	// until the sanitizer overlays it onto defaults.
	Preferences map[string]any

	// PreferencesShape records how the preferences key appeared on the wire.
	PreferencesShape SectionShape

	// History is the ordered history sequence, present only when the export
	// included it.
	History []HistoryCandidate

	// HistoryShape records how the searchHistory key appeared on the wire.
	HistoryShape SectionShape
}

// HasEngines returns true if the document carries a well-formed engine sequence.
func (d *ConfigDocument) HasEngines() bool {
	return d.EnginesShape == SectionPresent
}

// HasPreferences returns true if the document carries a preferences object.
func (d *ConfigDocument) HasPreferences() bool {
	return d.PreferencesShape == SectionPresent
}

// HasHistory returns true if the document carries a well-formed history sequence.
func (d *ConfigDocument) HasHistory() bool {
	return d.HistoryShape == SectionPresent
}

// EngineRecords returns the successfully decoded engine records in order.
func (d *ConfigDocument) EngineRecords() []EngineRecord {
	records := make([]EngineRecord, 0, len(d.Engines))
	for _, c := range d.Engines {
		if c.Err == nil {
			records = append(records, c.Engine)
		}
	}
	return records
}

// BuildMetadata computes the metadata summary for the document's own
// engine set and the given history count.
func BuildMetadata(engines []EngineRecord, historyEntries int, includesHistory bool) *Metadata {
	md := &Metadata{
		TotalEngines:    len(engines),
		HistoryEntries:  historyEntries,
		IncludesHistory: includesHistory,
	}
	for _, e := range engines {
		if e.Enabled {
			md.EnabledEngines++
		}
		if e.IsDefault {
			name := e.Name
			md.DefaultEngine = &name
		}
	}
	return md
}

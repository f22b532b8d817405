// Package codec serializes and deserializes configuration documents to and
// from their external JSON text form. Syntax failures are reported as
// MalformedError, which is distinct from validation failures: a malformed
// document never reaches the validator.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/searchsync/searchsync/internal/model"
)

// MalformedError indicates the document text failed to parse. Nothing was
// or will be applied from a malformed document.
type MalformedError struct {
	Err error
}

// Error returns the formatted parse failure.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed document: %v", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *MalformedError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is a document parse failure.
func IsMalformed(err error) bool {
	var me *MalformedError
	return errors.As(err, &me)
}

// wireDocument is the external JSON shape of a configuration document.
type wireDocument struct {
	Version       string               `json:"version"`
	ExportedAt    time.Time            `json:"exportedAt"`
	Metadata      *model.Metadata      `json:"metadata,omitempty"`
	Engines       []model.EngineRecord `json:"engines"`
	Preferences   map[string]any       `json:"preferences,omitempty"`
	SearchHistory []model.HistoryEntry `json:"searchHistory,omitempty"`
}

// Encode serializes the document. Pretty output is indented multi-line;
// compact output is a single line.
func Encode(doc *model.ConfigDocument, pretty bool) ([]byte, error) {
	wire := wireDocument{
		Version:     doc.Version,
		ExportedAt:  doc.ExportedAt,
		Metadata:    doc.Metadata,
		Engines:     make([]model.EngineRecord, 0, len(doc.Engines)),
		Preferences: doc.Preferences,
	}

	for i, candidate := range doc.Engines {
		if candidate.Err != nil {
			return nil, fmt.Errorf("cannot encode document: engines[%d] did not decode: %w", i, candidate.Err)
		}
		wire.Engines = append(wire.Engines, candidate.Engine)
	}

	if doc.HasHistory() {
		wire.SearchHistory = make([]model.HistoryEntry, 0, len(doc.History))
		for i, candidate := range doc.History {
			if candidate.Err != nil {
				return nil, fmt.Errorf("cannot encode document: searchHistory[%d] did not decode: %w", i, candidate.Err)
			}
			wire.SearchHistory = append(wire.SearchHistory, candidate.Entry)
		}
	}

	if pretty {
		return json.MarshalIndent(wire, "", "  ")
	}
	return json.Marshal(wire)
}

// EncodeTo writes the serialized document to w, with a trailing newline for
// pretty output.
func EncodeTo(w io.Writer, doc *model.ConfigDocument, pretty bool) error {
	data, err := Encode(doc, pretty)
	if err != nil {
		return err
	}
	if pretty {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

// Decode parses document text. Syntax errors return *MalformedError.
// Everything that parses is decoded tolerantly: wrong-typed sections are
// marked on the document for the validator, and engine or history elements
// that fail to decode become per-item candidate errors rather than a parse
// failure.
func Decode(data []byte) (*model.ConfigDocument, error) {
	var top any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&top); err != nil {
		return nil, &MalformedError{Err: err}
	}

	doc := &model.ConfigDocument{}

	if _, ok := top.(map[string]any); !ok {
		// Parsed but not an object; validation rejects it.
		return doc, nil
	}
	doc.Object = true

	// Re-read the top level as raw sections now that it is known to be an
	// object; this cannot fail.
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, &MalformedError{Err: err}
	}

	decodeVersion(doc, sections)
	decodeExportedAt(doc, sections)
	decodeMetadata(doc, sections)
	decodeEngines(doc, sections)
	decodePreferences(doc, sections)
	decodeHistory(doc, sections)

	return doc, nil
}

func decodeVersion(doc *model.ConfigDocument, sections map[string]json.RawMessage) {
	raw, ok := sections["version"]
	if !ok {
		doc.VersionShape = model.SectionAbsent
		return
	}
	if err := json.Unmarshal(raw, &doc.Version); err != nil {
		doc.VersionShape = model.SectionWrongType
		return
	}
	doc.VersionShape = model.SectionPresent
}

func decodeExportedAt(doc *model.ConfigDocument, sections map[string]json.RawMessage) {
	raw, ok := sections["exportedAt"]
	if !ok {
		return
	}
	// A bad timestamp is not worth rejecting the document over.
	_ = json.Unmarshal(raw, &doc.ExportedAt)
}

func decodeMetadata(doc *model.ConfigDocument, sections map[string]json.RawMessage) {
	raw, ok := sections["metadata"]
	if !ok {
		return
	}
	var md model.Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return
	}
	doc.Metadata = &md
}

func decodeEngines(doc *model.ConfigDocument, sections map[string]json.RawMessage) {
	raw, ok := sections["engines"]
	if !ok {
		doc.EnginesShape = model.SectionAbsent
		return
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		doc.EnginesShape = model.SectionWrongType
		return
	}
	doc.EnginesShape = model.SectionPresent

	doc.Engines = make([]model.EngineCandidate, len(elements))
	for i, element := range elements {
		var engine model.EngineRecord
		if err := json.Unmarshal(element, &engine); err != nil {
			doc.Engines[i] = model.EngineCandidate{Err: err}
			continue
		}
		doc.Engines[i] = model.EngineCandidate{Engine: engine}
	}
}

func decodePreferences(doc *model.ConfigDocument, sections map[string]json.RawMessage) {
	raw, ok := sections["preferences"]
	if !ok {
		doc.PreferencesShape = model.SectionAbsent
		return
	}

	var prefs map[string]any
	if err := json.Unmarshal(raw, &prefs); err != nil {
		doc.PreferencesShape = model.SectionWrongType
		return
	}
	doc.PreferencesShape = model.SectionPresent
	doc.Preferences = prefs
}

func decodeHistory(doc *model.ConfigDocument, sections map[string]json.RawMessage) {
	raw, ok := sections["searchHistory"]
	if !ok {
		doc.HistoryShape = model.SectionAbsent
		return
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		doc.HistoryShape = model.SectionWrongType
		return
	}
	doc.HistoryShape = model.SectionPresent

	doc.History = make([]model.HistoryCandidate, len(elements))
	for i, element := range elements {
		var entry model.HistoryEntry
		if err := json.Unmarshal(element, &entry); err != nil {
			doc.History[i] = model.HistoryCandidate{Err: err}
			continue
		}
		doc.History[i] = model.HistoryCandidate{Entry: entry}
	}
}

package sync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/searchsync/searchsync/internal/validate"
)

// InvalidDocumentError indicates the document parsed but failed structural
// validation. The import is aborted entirely; no partial plan can be
// trusted. Distinct from codec.MalformedError, which means the text never
// parsed at all.
type InvalidDocumentError struct {
	// Result holds the validation errors and warnings.
	Result *validate.Result
}

// Error returns the combined validation failure message.
func (e *InvalidDocumentError) Error() string {
	if e.Result == nil || len(e.Result.Errors) == 0 {
		return "invalid document"
	}
	return fmt.Sprintf("invalid document: %s", strings.Join(e.Result.Errors, "; "))
}

// IsInvalidDocument reports whether err is a structural validation failure.
func IsInvalidDocument(err error) bool {
	var ie *InvalidDocumentError
	return errors.As(err, &ie)
}

// StoreError indicates a store read or write failed while processing a
// sub-resource. It is fatal for that sub-resource only; sibling
// sub-resources are isolated failure domains.
type StoreError struct {
	// Resource names the sub-resource being processed (engines,
	// preferences, history).
	Resource string

	// Err is the underlying store failure.
	Err error
}

// Error returns the formatted store failure.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure (%s): %v", e.Resource, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

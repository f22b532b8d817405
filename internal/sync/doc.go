// Package sync implements configuration synchronization: exporting the
// current engine/preference/history state to a portable document, and
// importing such a document back with validation, conflict detection, and
// merge or replace semantics.
package sync

package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAgentAvailable is returned when routing cannot proceed because no
	// agent in the pool is available. Callers must handle it; the router
	// never substitutes a default silently.
	ErrNoAgentAvailable = errors.New("no agent available")

	// ErrEmptyPool is the empty-pool flavor of ErrNoAgentAvailable; it
	// matches both sentinels under errors.Is.
	ErrEmptyPool = fmt.Errorf("agent pool is empty: %w", ErrNoAgentAvailable)

	// ErrStateNotFound is returned by StateStore.Load when no state document
	// exists yet. Callers treat it as empty state.
	ErrStateNotFound = errors.New("state not found")
)

// PersistenceError indicates the backing state document could not be read or
// written. The in-memory state is unaffected; the caller decides whether to
// retry.
type PersistenceError struct {
	Path string
	Op   string // "load" or "save"
	Err  error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("state %s failed for %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *PersistenceError) Unwrap() error { return e.Err }

// MalformedEntryError indicates an external batch entry is missing a
// required field. Batch operations count it and continue.
type MalformedEntryError struct {
	Field string
}

// Error implements the error interface.
func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed knowledge entry: missing %s", e.Field)
}

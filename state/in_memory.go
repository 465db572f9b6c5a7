package state

import (
	"encoding/json"
	"sync"

	"github.com/Bbowlby22/oxproxion/core"
)

// InMemoryStore is a volatile StateStore keeping the document as marshaled
// JSON in memory. Round-tripping through JSON mirrors the file store's
// semantics (a saved document is detached from the caller's value), which
// makes it a faithful stand-in for tests and ephemeral setups.
type InMemoryStore struct {
	mu   sync.RWMutex
	doc  []byte
	fail error // when set, Save returns this error (test hook)
}

// NewInMemoryStore constructs an empty in-memory state store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Load unmarshals the last saved document into v, or returns
// core.ErrStateNotFound when nothing has been saved.
func (s *InMemoryStore) Load(v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return core.ErrStateNotFound
	}
	if err := json.Unmarshal(s.doc, v); err != nil {
		return &core.PersistenceError{Path: "memory", Op: "load", Err: err}
	}
	return nil
}

// Save marshals v and replaces the stored document.
func (s *InMemoryStore) Save(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return &core.PersistenceError{Path: "memory", Op: "save", Err: s.fail}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return &core.PersistenceError{Path: "memory", Op: "save", Err: err}
	}
	s.doc = data
	return nil
}

// FailSaves makes subsequent Save calls fail with err (nil restores normal
// operation). Intended for exercising persistence failure paths in tests.
func (s *InMemoryStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

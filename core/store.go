package core

// StateStore persists a component's whole state document. Save replaces the
// previous document; there is no partial update. Load unmarshals the current
// document into v and returns ErrStateNotFound when no document has ever
// been saved, which callers treat as empty state.
type StateStore interface {
	Load(v any) error
	Save(v any) error
}

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Bbowlby22/oxproxion/core"
)

// FileStore persists a single JSON state document at a fixed path. Save
// replaces the whole document atomically: the document is written to a
// temporary file in the same directory and renamed over the target, so a
// crash mid-write never leaves a truncated document behind.
//
// FileStore itself is not synchronized; owning components serialize access
// with their own mutex around the append-then-save step.
type FileStore struct {
	path string
}

// NewFileStore creates a store persisting to the given path. Parent
// directories are created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads and unmarshals the current document into v. Returns
// core.ErrStateNotFound when no document has been saved yet.
func (s *FileStore) Load(v any) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.ErrStateNotFound
		}
		return &core.PersistenceError{Path: s.path, Op: "load", Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &core.PersistenceError{Path: s.path, Op: "load", Err: err}
	}
	return nil
}

// Save marshals v and atomically replaces the current document.
func (s *FileStore) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &core.PersistenceError{Path: s.path, Op: "save", Err: err}
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &core.PersistenceError{Path: s.path, Op: "save", Err: err}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &core.PersistenceError{Path: s.path, Op: "save", Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &core.PersistenceError{Path: s.path, Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &core.PersistenceError{Path: s.path, Op: "save", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &core.PersistenceError{Path: s.path, Op: "save", Err: fmt.Errorf("rename: %w", err)}
	}
	return nil
}

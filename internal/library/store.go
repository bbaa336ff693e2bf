// Package library owns the persisted book collection: a JSON document on
// disk and the single-writer manager that mutates it.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mkawano/hondana/internal/entities"
)

// Store reads and writes the library document at a fixed path. Every save
// rewrites the whole file; there is no append log or partial update.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the library document.
func (s *Store) Path() string {
	return s.path
}

// Load reads the library document. A missing file is not an error and is
// returned as an empty library; unreadable or corrupt files propagate.
func (s *Store) Load() (entities.Library, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entities.Library{Books: []entities.Book{}}, nil
		}
		return entities.Library{}, fmt.Errorf("read library %s: %w", s.path, err)
	}

	var lib entities.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return entities.Library{}, fmt.Errorf("parse library %s: %w", s.path, err)
	}
	if lib.Books == nil {
		lib.Books = []entities.Book{}
	}
	return lib, nil
}

// Save serializes the document as pretty-printed JSON, stamps LastModified
// and replaces the file. The write goes through a temp file in the same
// directory followed by a rename, so readers never observe a partial file.
func (s *Store) Save(lib *entities.Library) error {
	lib.LastModified = time.Now().UTC()

	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create library dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "library_tmp_")
	if err != nil {
		return fmt.Errorf("create temp library file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write library: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close library file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace library file: %w", err)
	}
	return nil
}

// Package recent defines recent-file domain types and interfaces.
package recent

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no entry exists for a path.
var ErrNotFound = errors.New("recent entry not found")

// Entry records one recently opened file.
type Entry struct {
	Path     string    `json:"path"`
	Offset   int       `json:"offset"` // byte offset of the cursor at close
	OpenedAt time.Time `json:"opened_at"`
}

// Store persists recent-file entries, newest first.
type Store interface {
	// List returns all entries, newest first.
	List() ([]Entry, error)
	// Get returns the entry for a path. Returns ErrNotFound if absent.
	Get(path string) (Entry, error)
	// Touch records a file as most recently opened, pruning the list to
	// maxEntries. An existing entry for the same path is replaced.
	Touch(entry Entry, maxEntries int) error
	// Clear removes all entries.
	Clear() error
}

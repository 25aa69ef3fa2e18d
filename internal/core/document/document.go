// Package document models the file being edited: its content, dirty state,
// and load/save lifecycle.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrModifiedExternally is returned by Save when the file on disk changed
// since it was loaded, so a blind write would clobber someone else's edit.
var ErrModifiedExternally = errors.New("file modified externally")

// Document is one open markdown file. A zero Document is an unnamed, empty
// scratch buffer.
type Document struct {
	Path    string
	Content string
	Dirty   bool

	// modTime of the file when last read or written; zero for new files.
	modTime time.Time
}

// Load reads the file at path. A missing file is not an error: it yields an
// empty document that will create the file on first save.
func Load(path string) (*Document, error) {
	doc := &Document{Path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	doc.Content = string(data)
	doc.modTime = info.ModTime()
	return doc, nil
}

// SetContent replaces the buffer content, marking the document dirty when
// the content actually changed.
func (d *Document) SetContent(content string) {
	if content == d.Content {
		return
	}
	d.Content = content
	d.Dirty = true
}

// Name returns the file's base name, or "untitled" for a scratch buffer.
func (d *Document) Name() string {
	if d.Path == "" {
		return "untitled"
	}
	return filepath.Base(d.Path)
}

// Save writes the buffer back to its path. It refuses with
// ErrModifiedExternally when the file's mtime moved since load; the caller
// decides whether to re-load or force. Force overwrites unconditionally.
func (d *Document) Save() error {
	return d.save(false)
}

// Force writes the buffer regardless of external modifications.
func (d *Document) Force() error {
	return d.save(true)
}

func (d *Document) save(force bool) error {
	if d.Path == "" {
		return errors.New("document has no path")
	}

	if !force && !d.modTime.IsZero() {
		info, err := os.Stat(d.Path)
		if err == nil && info.ModTime().After(d.modTime) {
			return fmt.Errorf("%s: %w", d.Path, ErrModifiedExternally)
		}
	}

	if dir := filepath.Dir(d.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}

	if err := os.WriteFile(d.Path, []byte(d.Content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", d.Path, err)
	}

	info, err := os.Stat(d.Path)
	if err != nil {
		return fmt.Errorf("stat after write: %w", err)
	}

	d.modTime = info.ModTime()
	d.Dirty = false
	return nil
}

package document

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# Hello\n"), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "# Hello\n", doc.Content)
	assert.False(t, doc.Dirty)
	assert.Equal(t, "note.md", doc.Name())
}

func TestLoad_MissingFileIsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.md")

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, doc.Content)
	assert.False(t, doc.Dirty)
}

func TestSetContent_MarksDirty(t *testing.T) {
	doc := &Document{Content: "a"}

	doc.SetContent("a")
	assert.False(t, doc.Dirty, "identical content is not a change")

	doc.SetContent("b")
	assert.True(t, doc.Dirty)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	doc, err := Load(path)
	require.NoError(t, err)

	doc.SetContent("body\n")
	require.NoError(t, doc.Save())
	assert.False(t, doc.Dirty)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "body\n", string(data))
}

func TestSave_NoPath(t *testing.T) {
	doc := &Document{Content: "x"}
	require.Error(t, doc.Save())
}

func TestSave_DetectsExternalModification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)

	// Simulate another program touching the file after load.
	require.NoError(t, os.WriteFile(path, []byte("changed elsewhere"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	doc.SetContent("mine")
	err = doc.Save()
	require.ErrorIs(t, err, ErrModifiedExternally)

	// The file was not clobbered.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "changed elsewhere", string(data))

	// Force overrides.
	require.NoError(t, doc.Force())
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestName_Untitled(t *testing.T) {
	doc := &Document{}
	assert.Equal(t, "untitled", doc.Name())
}

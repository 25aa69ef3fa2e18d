package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/pkg/tuitest"
)

func newTestModel(t *testing.T, content string) (Model, *document.Document) {
	t.Helper()

	doc := &document.Document{
		Path:    filepath.Join(t.TempDir(), "notes.md"),
		Content: content,
	}
	cfg := config.DefaultConfig()
	m := New(doc, &cfg, Options{})

	next, _ := m.Update(tuitest.WindowSize(100, 30))
	return next.(Model), doc
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func ctrlKey(code rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: code, Mod: tea.ModCtrl})
}

func TestModel_TypingMarksDirtyAndDebounces(t *testing.T) {
	m, doc := newTestModel(t, "# Title\n")

	var cmd tea.Cmd
	for _, msg := range tuitest.TypeString("x") {
		m, cmd = update(t, m, msg)
	}

	assert.True(t, doc.Dirty)
	assert.Equal(t, 1, m.editGen)
	require.NotNil(t, cmd, "an edit should schedule a debounce tick")
}

func TestModel_DebounceRebuildsSourceMap(t *testing.T) {
	m, _ := newTestModel(t, "")

	for _, msg := range tuitest.TypeString("hello") {
		m, _ = update(t, m, msg)
	}
	require.Equal(t, 0, m.srcMap.Len(), "map rebuild waits for the debounce")

	m, _ = update(t, m, debounceMsg{gen: m.editGen})
	assert.Greater(t, m.srcMap.Len(), 0)
}

func TestModel_StaleDebounceIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, "")

	for _, msg := range tuitest.TypeString("hello") {
		m, _ = update(t, m, msg)
	}

	m, _ = update(t, m, debounceMsg{gen: m.editGen - 1})
	assert.Equal(t, 0, m.srcMap.Len())
}

func TestModel_QuitCleanBuffer(t *testing.T) {
	m, _ := newTestModel(t, "# Title\n")

	m, cmd := update(t, m, ctrlKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
}

func TestModel_QuitDirtyBufferAsksFirst(t *testing.T) {
	m, _ := newTestModel(t, "")
	for _, msg := range tuitest.TypeString("draft") {
		m, _ = update(t, m, msg)
	}

	m, cmd := update(t, m, ctrlKey('q'))
	assert.Nil(t, cmd)
	assert.True(t, m.confirming)
	assert.False(t, m.quitting)

	overlay := tuitest.StripANSI(m.modal.Overlay("", 100, 30))
	assert.Contains(t, overlay, "Unsaved Changes")
	assert.Contains(t, overlay, "Save & Quit")
	assert.Contains(t, overlay, "Discard")
}

func TestModel_ConfirmModalEscapeStays(t *testing.T) {
	m, _ := newTestModel(t, "")
	for _, msg := range tuitest.TypeString("draft") {
		m, _ = update(t, m, msg)
	}
	m, _ = update(t, m, ctrlKey('q'))
	require.True(t, m.confirming)

	m, _ = update(t, m, tuitest.KeyEscape())
	assert.False(t, m.confirming)
	assert.False(t, m.quitting)
}

func TestModel_ConfirmModalSaveAndQuit(t *testing.T) {
	m, doc := newTestModel(t, "")
	for _, msg := range tuitest.TypeString("draft") {
		m, _ = update(t, m, msg)
	}
	m, _ = update(t, m, ctrlKey('q'))
	require.True(t, m.confirming)

	m, cmd := update(t, m, tuitest.KeyEnter())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "draft", string(data))
}

func TestModel_ForceQuitSkipsConfirmation(t *testing.T) {
	m, _ := newTestModel(t, "")
	for _, msg := range tuitest.TypeString("draft") {
		m, _ = update(t, m, msg)
	}

	m, cmd := update(t, m, ctrlKey('c'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
}

func TestModel_SaveWritesFile(t *testing.T) {
	m, doc := newTestModel(t, "")
	for _, msg := range tuitest.TypeString("# Notes") {
		m, _ = update(t, m, msg)
	}

	m, _ = update(t, m, ctrlKey('s'))

	assert.False(t, doc.Dirty)
	assert.Contains(t, m.statusNote, "saved")

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "# Notes", string(data))
}

func TestModel_ExternalChangeRequiresSecondSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))
	doc, err := document.Load(path)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	m := New(doc, &cfg, Options{})
	next, _ := m.Update(tuitest.WindowSize(100, 30))
	m = next.(Model)

	// Another process rewrites the file after load.
	require.NoError(t, os.WriteFile(path, []byte("external edit"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	for _, msg := range tuitest.TypeString("!") {
		m, _ = update(t, m, msg)
	}

	m, _ = update(t, m, ctrlKey('s'))
	assert.True(t, m.pendingForceSave)
	assert.True(t, doc.Dirty)
	assert.Contains(t, m.statusNote, "changed on disk")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "external edit", string(data), "first save must not clobber")

	m, _ = update(t, m, ctrlKey('s'))
	assert.False(t, m.pendingForceSave)
	assert.False(t, doc.Dirty)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Content, string(data))
}

func TestModel_EditClearsPendingForceSave(t *testing.T) {
	m, _ := newTestModel(t, "")
	m.pendingForceSave = true

	for _, msg := range tuitest.TypeString("x") {
		m, _ = update(t, m, msg)
	}
	assert.False(t, m.pendingForceSave)
}

func TestModel_TogglePreview(t *testing.T) {
	m, _ := newTestModel(t, "# Title\n")
	require.True(t, m.previewOn)

	m, _ = update(t, m, ctrlKey('p'))
	assert.False(t, m.previewOn)

	m, _ = update(t, m, ctrlKey('p'))
	assert.True(t, m.previewOn)
}

func TestModel_SwitchFocus(t *testing.T) {
	m, _ := newTestModel(t, "# Title\n")
	require.Equal(t, focusEditor, m.focus)

	m, _ = update(t, m, ctrlKey('w'))
	assert.Equal(t, focusPreview, m.focus)

	m, _ = update(t, m, ctrlKey('w'))
	assert.Equal(t, focusEditor, m.focus)
}

func TestModel_SwitchFocusNoopWithoutPreview(t *testing.T) {
	m, _ := newTestModel(t, "# Title\n")
	m, _ = update(t, m, ctrlKey('p'))
	require.False(t, m.previewOn)

	m, _ = update(t, m, ctrlKey('w'))
	assert.Equal(t, focusEditor, m.focus)
}

func TestModel_CursorOffset(t *testing.T) {
	m, _ := newTestModel(t, "")
	for _, msg := range tuitest.TypeString("abc") {
		m, _ = update(t, m, msg)
	}

	assert.Equal(t, 3, m.CursorOffset())
}

func TestModal_ToggleSelection(t *testing.T) {
	modal := NewModal("Confirm", "really?", "Yes", "No")
	assert.True(t, modal.ConfirmSelected())

	modal.ToggleSelection()
	assert.False(t, modal.ConfirmSelected())
}

package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/eventbus"
	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/markdown"
)

// focusArea identifies which pane receives input.
type focusArea int

const (
	focusEditor focusArea = iota
	focusPreview
)

// Options configures optional TUI collaborators.
type Options struct {
	Bus *eventbus.EventBus // Event bus for cross-component communication (optional)
}

// debounceMsg fires after an edit pause. The generation number lets stale
// timers from earlier keystrokes fall through without triggering a rebuild.
type debounceMsg struct {
	gen int
}

// autosaveTickMsg fires on the configured autosave interval.
type autosaveTickMsg struct{}

// Model is the main Bubble Tea model for the editor.
type Model struct {
	cfg      *config.Config
	doc      *document.Document
	pipeline *markdown.Pipeline
	srcMap   *markdown.SourceMap

	editor   textarea.Model
	preview  viewport.Model
	renderer *previewRenderer

	keys      KeyMap
	focus     focusArea
	previewOn bool

	modal      Modal
	confirming bool

	width  int
	height int

	editGen    int
	statusNote string
	// Set when Save hit an external modification; the next save forces.
	pendingForceSave bool
	quitting         bool

	bus *eventbus.EventBus
}

// New creates the editor model for the given document.
func New(doc *document.Document, cfg *config.Config, opts Options) Model {
	ed := textarea.New()
	ed.CharLimit = 0
	ed.SetValue(doc.Content)
	ed.Prompt = ""
	ed.ShowLineNumbers = true
	ed.Focus()

	pipeline := markdown.NewPipeline()

	m := Model{
		cfg:       cfg,
		doc:       doc,
		pipeline:  pipeline,
		srcMap:    pipeline.SourceMap([]byte(doc.Content)),
		editor:    ed,
		preview:   viewport.New(),
		renderer:  newPreviewRenderer(),
		keys:      DefaultKeyMap(),
		previewOn: cfg.Preview.On(),
		bus:       opts.Bus,
	}
	return m
}

// CursorOffset returns the byte offset of the editor cursor.
func (m Model) CursorOffset() int {
	info := m.editor.LineInfo()
	return byteOffset(m.editor.Value(), m.editor.Line(), info.StartColumn+info.ColumnOffset)
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if interval := m.cfg.Editor.AutosaveInterval.Std(); interval > 0 {
		return scheduleAutosave(interval)
	}
	return nil
}

func scheduleAutosave(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return autosaveTickMsg{}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case debounceMsg:
		return m.handleDebounce(msg)
	case autosaveTickMsg:
		return m.handleAutosave()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.applySize()
	m.refreshPreview()
	return m, nil
}

// applySize lays out the panes for the current terminal size. One row is
// reserved for the status line, one for the key hints, and two columns per
// pane for borders.
func (m *Model) applySize() {
	contentHeight := m.height - 2
	if contentHeight < 4 {
		contentHeight = 4
	}
	// Border rows plus the pane title row.
	paneHeight := contentHeight - 3

	editorWidth := m.width
	if m.previewOn {
		editorWidth = m.width - int(float64(m.width)*m.cfg.Preview.WidthRatio)
	}
	previewWidth := m.width - editorWidth

	m.editor.SetWidth(editorWidth - 2)
	m.editor.SetHeight(paneHeight)

	if m.previewOn {
		m.preview.SetWidth(previewWidth - 2)
		m.preview.SetHeight(paneHeight)
		if err := m.renderer.SetWidth(previewWidth - 4); err != nil {
			log.Error().Err(err).Msg("failed to resize preview renderer")
		}
	}
}

// handleDebounce rebuilds the source map once typing has paused.
func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.editGen {
		return m, nil
	}
	m.rebuild()
	return m, nil
}

// rebuild re-annotates the document and refreshes the preview pane.
func (m *Model) rebuild() {
	m.srcMap = m.pipeline.SourceMap([]byte(m.doc.Content))
	if m.bus != nil {
		m.bus.PublishSourceMapRebuilt(eventbus.SourceMapRebuiltPayload{
			Path:    m.doc.Path,
			Entries: m.srcMap.Len(),
		})
	}
	m.refreshPreview()
}

// refreshPreview renders the preview pane and scrolls it so the node under
// the cursor stays roughly in view.
func (m *Model) refreshPreview() {
	if !m.previewOn || m.width == 0 {
		return
	}

	out, err := m.renderer.Render(m.doc.Content)
	if err != nil {
		log.Error().Err(err).Msg("preview render failed")
		return
	}
	m.preview.SetContent(out)
	m.syncPreviewScroll()
}

// syncPreviewScroll positions the preview proportionally to the start of
// the markdown node enclosing the cursor.
func (m *Model) syncPreviewScroll() {
	if m.focus != focusEditor || len(m.doc.Content) == 0 {
		return
	}

	anchor := m.CursorOffset()
	if id, ok := m.srcMap.FindElementByOffset(anchor); ok {
		if entry, ok := m.srcMap.Get(id); ok {
			anchor = entry.Range.Start
		}
	}

	overflow := m.preview.TotalLineCount() - m.preview.VisibleLineCount()
	if overflow <= 0 {
		return
	}
	ratio := float64(anchor) / float64(len(m.doc.Content))
	m.preview.SetYOffset(int(ratio * float64(overflow)))
}

// handleAutosave writes the buffer if it is dirty and reschedules the tick.
func (m Model) handleAutosave() (tea.Model, tea.Cmd) {
	if m.doc.Dirty {
		m.save()
	}
	interval := m.cfg.Editor.AutosaveInterval.Std()
	if interval <= 0 {
		return m, nil
	}
	return m, scheduleAutosave(interval)
}

// save writes the document, surfacing external modification in the status
// line instead of clobbering the file.
func (m *Model) save() {
	err := m.doc.Save()
	switch {
	case errors.Is(err, document.ErrModifiedExternally):
		m.statusNote = "file changed on disk, ctrl+s again to overwrite"
		m.pendingForceSave = true
		m.doc.Dirty = true
		return
	case err != nil:
		log.Error().Err(err).Str("path", m.doc.Path).Msg("save failed")
		m.statusNote = fmt.Sprintf("save failed: %v", err)
		return
	}

	m.statusNote = "saved " + m.doc.Name()
	if m.bus != nil {
		m.bus.PublishDocumentSaved(eventbus.DocumentSavedPayload{
			Path:  m.doc.Path,
			Bytes: len(m.doc.Content),
		})
	}
}

// forceSave overwrites the file even if it changed on disk.
func (m *Model) forceSave() {
	m.pendingForceSave = false
	if err := m.doc.Force(); err != nil {
		log.Error().Err(err).Str("path", m.doc.Path).Msg("force save failed")
		m.statusNote = fmt.Sprintf("save failed: %v", err)
		return
	}
	m.statusNote = "saved " + m.doc.Name()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		return m.handleConfirmModalKey(msg.String())
	}

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m.quit()

	case key.Matches(msg, m.keys.Quit):
		if !m.doc.Dirty {
			return m.quit()
		}
		m.confirming = true
		m.modal = NewModal(
			"Unsaved Changes",
			fmt.Sprintf("%s has unsaved changes.", m.doc.Name()),
			"Save & Quit", "Discard",
		)
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if m.pendingForceSave {
			m.forceSave()
		} else {
			m.save()
		}
		return m, nil

	case key.Matches(msg, m.keys.TogglePreview):
		m.previewOn = !m.previewOn
		if !m.previewOn && m.focus == focusPreview {
			m.focus = focusEditor
			return m, tea.Batch(m.sized(), m.editor.Focus())
		}
		return m, m.sized()

	case key.Matches(msg, m.keys.SwitchFocus):
		if !m.previewOn {
			return m, nil
		}
		if m.focus == focusEditor {
			m.focus = focusPreview
			m.editor.Blur()
			return m, nil
		}
		m.focus = focusEditor
		return m, m.editor.Focus()
	}

	if m.focus == focusPreview {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	return m.updateEditor(msg)
}

// sized reapplies the layout after a pane visibility change.
func (m *Model) sized() tea.Cmd {
	m.applySize()
	m.refreshPreview()
	return nil
}

// updateEditor forwards a key to the textarea and schedules a rebuild when
// the buffer changed.
func (m Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)

	if value := m.editor.Value(); value != m.doc.Content {
		m.doc.SetContent(value)
		m.statusNote = ""
		m.pendingForceSave = false
		m.editGen++
		if m.bus != nil {
			m.bus.PublishDocumentChanged(eventbus.DocumentChangedPayload{
				Path:  m.doc.Path,
				Bytes: len(value),
			})
		}

		gen := m.editGen
		debounce := tea.Tick(m.cfg.Preview.Debounce.Std(), func(time.Time) tea.Msg {
			return debounceMsg{gen: gen}
		})
		return m, tea.Batch(cmd, debounce)
	}

	m.syncPreviewScroll()
	return m, cmd
}

func (m Model) handleConfirmModalKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "enter":
		m.confirming = false
		if m.modal.ConfirmSelected() {
			m.save()
			if m.doc.Dirty {
				// Save failed, stay in the editor so nothing is lost.
				return m, nil
			}
		}
		return m.quit()
	case "esc":
		m.confirming = false
		return m, nil
	case "left", "right", "h", "l", "tab":
		m.modal.ToggleSelection()
		return m, nil
	}
	return m, nil
}

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	editorPane := m.renderPane("EDITOR", m.editor.View(), m.focus == focusEditor)

	var body string
	if m.previewOn {
		previewPane := m.renderPane("PREVIEW", m.preview.View(), m.focus == focusPreview)
		body = lipgloss.JoinHorizontal(lipgloss.Top, editorPane, previewPane)
	} else {
		body = editorPane
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		m.renderStatus(w),
		m.renderHints(),
	)

	if m.confirming {
		content = m.modal.Overlay(content, w, h)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

func (m Model) renderPane(title, inner string, focused bool) string {
	border := styles.PaneBorderStyle
	if focused {
		border = styles.PaneBorderFocusedStyle
	}
	return border.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		styles.PaneTitleStyle.Render(title),
		inner,
	))
}

func (m Model) renderHints() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return styles.TextMutedStyle.Render(" " + strings.Join(parts, " • "))
}

func (m Model) renderStatus(width int) string {
	line := m.editor.Line()
	info := m.editor.LineInfo()
	col := info.StartColumn + info.ColumnOffset
	start, end := lineSpan(m.doc.Content, line)

	return renderStatusLine(statusContext{
		FileName:   m.doc.Name(),
		Dirty:      m.doc.Dirty,
		Line:       line,
		Column:     col,
		Offset:     m.CursorOffset(),
		SourceMap:  m.srcMap,
		LineStart:  start,
		LineEnd:    end,
		StatusNote: m.statusNote,
	}, width)
}

package tui

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/markdown"
)

// statusContext carries everything the status line needs to render.
type statusContext struct {
	FileName   string
	Dirty      bool
	Line       int // zero-based
	Column     int // zero-based rune column
	Offset     int // byte offset of the cursor
	SourceMap  *markdown.SourceMap
	LineStart  int
	LineEnd    int
	StatusNote string
}

// nodeContext describes the markdown node under the cursor, like
// "strong md-3 [6,15)". Empty when the cursor is outside every node.
func nodeContext(sc statusContext) string {
	if sc.SourceMap == nil {
		return ""
	}

	id, ok := sc.SourceMap.FindElementByOffset(sc.Offset)
	if !ok {
		return ""
	}
	entry, ok := sc.SourceMap.Get(id)
	if !ok {
		return ""
	}

	ctx := fmt.Sprintf("%s %s [%d,%d)", strings.ToLower(entry.Kind), entry.ID, entry.Range.Start, entry.Range.End)

	if hits := sc.SourceMap.FindEntriesInRange(sc.LineStart, sc.LineEnd); len(hits) > 1 {
		ctx += fmt.Sprintf("  %d nodes in line", len(hits))
	}
	return ctx
}

// renderStatusLine renders the bottom status bar at the given width.
func renderStatusLine(sc statusContext, width int) string {
	name := styles.StatusFileStyle.Render(sc.FileName)
	if sc.Dirty {
		name += styles.StatusDirtyStyle.Render(" [+]")
	}

	pos := fmt.Sprintf("%d:%d @%d", sc.Line+1, sc.Column+1, sc.Offset)

	left := name + "  " + pos
	if sc.StatusNote != "" {
		left += "  " + styles.TextMutedStyle.Render(sc.StatusNote)
	}

	right := styles.StatusContextStyle.Render(nodeContext(sc))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return styles.StatusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

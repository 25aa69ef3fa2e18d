package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
)

func annotate(t *testing.T, source string) *Annotation {
	t.Helper()
	return NewPipeline().Annotate([]byte(source))
}

func spanByKind(t *testing.T, ann *Annotation, kind string) NodeSpan {
	t.Helper()
	for _, span := range ann.Spans() {
		if span.Kind == kind {
			return span
		}
	}
	t.Fatalf("no %s span in annotation", kind)
	return NodeSpan{}
}

func TestAnnotate_StrongScenario(t *testing.T) {
	// "Hello **world**!" -- strong covers the markers, text covers "world".
	ann := annotate(t, "Hello **world**!")

	para := spanByKind(t, ann, "Paragraph")
	assert.Equal(t, Range{Start: 0, End: 16}, para.Source)
	require.True(t, para.HasText)
	assert.Equal(t, Range{Start: 0, End: 16}, para.Text)

	strong := spanByKind(t, ann, "Emphasis")
	assert.Equal(t, Range{Start: 6, End: 15}, strong.Source)
	require.True(t, strong.HasText)
	assert.Equal(t, Range{Start: 8, End: 13}, strong.Text)
}

func TestAnnotate_InlineCodeStripsBackticks(t *testing.T) {
	// "Use `foo()` here" -- the code span owns one backtick on each side.
	ann := annotate(t, "Use `foo()` here")

	code := spanByKind(t, ann, "CodeSpan")
	assert.Equal(t, Range{Start: 4, End: 11}, code.Source)
	require.True(t, code.HasText)
	assert.Equal(t, Range{Start: 5, End: 10}, code.Text)
}

func TestAnnotate_LinkCoversMarkup(t *testing.T) {
	// The source range spans "[text](url)"; text covers the label only.
	ann := annotate(t, "See [docs](guide.md) now.")

	link := spanByKind(t, ann, "Link")
	assert.Equal(t, Range{Start: 4, End: 20}, link.Source)
	require.True(t, link.HasText)
	assert.Equal(t, Range{Start: 5, End: 9}, link.Text)
}

func TestAnnotate_LinkAtDocumentStart(t *testing.T) {
	ann := annotate(t, "[text](http://x)")

	link := spanByKind(t, ann, "Link")
	assert.Equal(t, Range{Start: 0, End: 16}, link.Source)
	assert.Equal(t, Range{Start: 1, End: 5}, link.Text)
}

func TestAnnotate_ReferenceLinkCoversLabel(t *testing.T) {
	ann := annotate(t, "[text][ref]\n\n[ref]: http://x\n")

	link := spanByKind(t, ann, "Link")
	assert.Equal(t, Range{Start: 0, End: 11}, link.Source)
	assert.Equal(t, Range{Start: 1, End: 5}, link.Text)
}

func TestAnnotate_ImageCoversMarkup(t *testing.T) {
	ann := annotate(t, "![alt](img.png)")

	img := spanByKind(t, ann, "Image")
	assert.Equal(t, Range{Start: 0, End: 15}, img.Source)
	require.True(t, img.HasText)
	assert.Equal(t, Range{Start: 2, End: 5}, img.Text)
}

func TestAnnotate_HeadingCoversMarkers(t *testing.T) {
	ann := annotate(t, "# Title")

	heading := spanByKind(t, ann, "Heading")
	assert.Equal(t, Range{Start: 0, End: 7}, heading.Source)
	require.True(t, heading.HasText)
	assert.Equal(t, Range{Start: 2, End: 7}, heading.Text)
}

func TestAnnotate_ListItemCoversBullet(t *testing.T) {
	ann := annotate(t, "- one\n- two")

	var items []NodeSpan
	for _, span := range ann.Spans() {
		if span.Kind == "ListItem" {
			items = append(items, span)
		}
	}
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].Source.Start, "first bullet included")
	assert.Equal(t, 6, items[1].Source.Start, "second bullet included")
	assert.Equal(t, 2, items[0].Text.Start, "text starts after the marker")
}

func TestAnnotate_EmptyDocument(t *testing.T) {
	ann := annotate(t, "")
	assert.Zero(t, ann.Len())
	assert.Empty(t, ann.Spans())
}

func TestAnnotate_TextRangeWithinSourceRange(t *testing.T) {
	// Containment: source.start <= text.start <= text.end <= source.end.
	ann := annotate(t, "# Head\n\nSome *em* and `code` text.\n\n> quoted\n\n1. first\n2. second\n")

	require.NotZero(t, ann.Len())
	for _, span := range ann.Spans() {
		assert.LessOrEqual(t, 0, span.Source.Start, "%s source start", span.Kind)
		assert.LessOrEqual(t, span.Source.Start, span.Source.End, "%s source ordered", span.Kind)
		if !span.HasText {
			continue
		}
		assert.LessOrEqual(t, span.Source.Start, span.Text.Start, "%s text start", span.Kind)
		assert.LessOrEqual(t, span.Text.Start, span.Text.End, "%s text ordered", span.Kind)
		assert.LessOrEqual(t, span.Text.End, span.Source.End, "%s text end", span.Kind)
	}
}

func TestAnnotate_ChildrenNestWithinParents(t *testing.T) {
	source := []byte("Intro with **bold `code` inside** and [a link](https://example.com).")
	doc := NewPipeline().Parse(source)
	ann := Annotate(doc, source)

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Parent() == nil {
			return ast.WalkContinue, nil
		}
		child, ok := ann.Lookup(n)
		if !ok {
			return ast.WalkContinue, nil
		}
		parent, ok := ann.Lookup(n.Parent())
		if !ok {
			return ast.WalkContinue, nil
		}
		assert.GreaterOrEqual(t, child.Source.Start, parent.Source.Start,
			"%s starts within %s", child.Kind, parent.Kind)
		assert.LessOrEqual(t, child.Source.End, parent.Source.End,
			"%s ends within %s", child.Kind, parent.Kind)
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
}

func TestAnnotate_RebuildIsIdempotent(t *testing.T) {
	source := "# Title\n\nBody with `code` and **bold**.\n"
	first := annotate(t, source)
	second := annotate(t, source)

	require.Equal(t, first.Len(), second.Len())
	assert.Equal(t, first.Spans(), second.Spans())
}

func TestAnnotate_SkipsNodesWithoutPosition(t *testing.T) {
	// A bare thematic break has no line segments and no children; the
	// document root is synthetic. Neither shows up in the table.
	ann := annotate(t, "---\n")
	for _, span := range ann.Spans() {
		assert.NotEqual(t, "Document", span.Kind)
		assert.NotEqual(t, "ThematicBreak", span.Kind)
	}
}

func TestAnnotate_NilTree(t *testing.T) {
	ann := Annotate(nil, nil)
	assert.Zero(t, ann.Len())
}

func TestRenderHTML_SurfacesAttributes(t *testing.T) {
	html, ann, err := NewPipeline().RenderHTML([]byte("Hello **world**!"))
	require.NoError(t, err)
	require.NotZero(t, ann.Len())

	assert.Contains(t, string(html),
		`<strong data-source-start="6" data-source-end="15" data-text-start="8" data-text-end="13">world</strong>`)
	assert.Contains(t, string(html), `<p data-source-start="0" data-source-end="16"`)
}

func TestRenderHTML_EmptySource(t *testing.T) {
	html, ann, err := NewPipeline().RenderHTML(nil)
	require.NoError(t, err)
	assert.Zero(t, ann.Len())
	assert.Empty(t, string(html))
}

package markdown

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

// Attribute names surfaced on rendered HTML elements.
const (
	AttrSourceStart = "data-source-start"
	AttrSourceEnd   = "data-source-end"
	AttrTextStart   = "data-text-start"
	AttrTextEnd     = "data-text-end"
)

// Range is a half-open byte interval [Start, End) into the markdown source.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the offset falls inside the half-open interval.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps reports strict overlap with the half-open interval [start, end).
func (r Range) Overlaps(start, end int) bool {
	return start < r.End && end > r.Start
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) clampTo(bound Range) Range {
	if r.Start < bound.Start {
		r.Start = bound.Start
	}
	if r.End > bound.End {
		r.End = bound.End
	}
	if r.Start > r.End {
		r.Start = r.End
	}
	return r
}

// NodeSpan holds the computed ranges for a single syntax tree node.
// Source covers the full span of markdown that produced the node, markers
// included. Text is the narrower readable-content span; HasText is false for
// nodes without inline content (thematic breaks, code blocks).
type NodeSpan struct {
	Kind    string
	Source  Range
	Text    Range
	HasText bool
}

// Annotation is the side table produced by a single annotation pass. Spans
// are recorded in document (pre-order) order. The table is rebuilt wholesale
// on every content change; there is no incremental update.
type Annotation struct {
	spans   []NodeSpan
	indexOf map[ast.Node]int
}

// Len returns the number of annotated nodes.
func (a *Annotation) Len() int {
	return len(a.spans)
}

// Spans returns all node spans in document order. The returned slice is owned
// by the annotation and must not be mutated.
func (a *Annotation) Spans() []NodeSpan {
	return a.spans
}

// Lookup returns the span computed for the given node, if the node was
// annotated. Nodes without a derivable source position are absent.
func (a *Annotation) Lookup(n ast.Node) (NodeSpan, bool) {
	i, ok := a.indexOf[n]
	if !ok {
		return NodeSpan{}, false
	}
	return a.spans[i], true
}

// Annotate walks a parsed markdown tree and computes, for every node with a
// derivable source position, the half-open byte range it was produced from
// and the narrower range of its readable text. Ranges are also attached to
// each element node's attributes so an HTML render pass can surface them as
// data-source-* / data-text-* element attributes.
//
// Nodes without position information (synthetic nodes, empty containers) are
// skipped; that is not an error. Child ranges are clamped into their parent's
// range so one malformed node cannot corrupt the whole table. Annotate never
// fails: an empty document yields an empty table.
func Annotate(doc ast.Node, source []byte) *Annotation {
	ann := &Annotation{indexOf: map[ast.Node]int{}}
	if doc == nil {
		return ann
	}

	raw := map[ast.Node]NodeSpan{}
	computeSpans(doc, source, raw)

	// Record in document order, clamping each node into its parent. The
	// parent is always recorded (and therefore clamped) first.
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() == ast.KindDocument {
			return ast.WalkContinue, nil
		}
		span, ok := raw[n]
		if !ok {
			return ast.WalkContinue, nil
		}
		if parent, ok := parentSpan(ann, n); ok {
			span.Source = span.Source.clampTo(parent.Source)
		}
		if span.HasText {
			span.Text = span.Text.clampTo(span.Source)
		}
		raw[n] = span

		ann.indexOf[n] = len(ann.spans)
		ann.spans = append(ann.spans, span)
		attach(n, span)
		return ast.WalkContinue, nil
	})

	return ann
}

func parentSpan(ann *Annotation, n ast.Node) (NodeSpan, bool) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if i, ok := ann.indexOf[p]; ok {
			return ann.spans[i], true
		}
	}
	return NodeSpan{}, false
}

// computeSpans fills spans bottom-up so parent ranges can be derived from
// child extents where the parser records no position of its own.
func computeSpans(n ast.Node, source []byte, spans map[ast.Node]NodeSpan) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		computeSpans(c, source, spans)
	}

	span, ok := spanFor(n, source, spans)
	if ok {
		span.Kind = n.Kind().String()
		spans[n] = span
	}
}

func spanFor(n ast.Node, source []byte, spans map[ast.Node]NodeSpan) (NodeSpan, bool) {
	children, haveChildren := childExtent(n, spans)

	switch t := n.(type) {
	case *ast.Document:
		return NodeSpan{}, false

	case *ast.Text:
		r := Range{Start: t.Segment.Start, End: t.Segment.Stop}
		return NodeSpan{Source: r, Text: r, HasText: true}, true

	case *ast.CodeSpan:
		// The literal span includes exactly one backtick on each side;
		// there is no child node boundary to anchor the delimiters on.
		if !haveChildren {
			return NodeSpan{}, false
		}
		src := Range{Start: children.Start - 1, End: children.End + 1}
		if src.Start < 0 {
			src.Start = 0
		}
		if src.End > len(source) {
			src.End = len(source)
		}
		return NodeSpan{Source: src, Text: children, HasText: true}, true

	case *ast.Emphasis:
		// Children cover the text between the markers; widen by the
		// marker width (* or **) on each side.
		if !haveChildren {
			return NodeSpan{}, false
		}
		src := Range{Start: children.Start - t.Level, End: children.End + t.Level}
		if src.Start < 0 {
			src.Start = 0
		}
		if src.End > len(source) {
			src.End = len(source)
		}
		return NodeSpan{Source: src, Text: children, HasText: true}, true

	case *ast.Link:
		if !haveChildren {
			return NodeSpan{}, false
		}
		return NodeSpan{Source: linkExtent(source, children), Text: children, HasText: true}, true

	case *ast.Image:
		if !haveChildren {
			return NodeSpan{}, false
		}
		return NodeSpan{Source: linkExtent(source, children), Text: children, HasText: true}, true

	case *ast.Heading:
		src, ok := lineExtent(n)
		if !ok {
			return NodeSpan{}, false
		}
		src.Start = headingStart(source, src.Start)
		span := NodeSpan{Source: src}
		if haveChildren {
			span.Text = children
			span.HasText = true
		}
		return span, true

	case *ast.ListItem:
		if !haveChildren {
			return NodeSpan{}, false
		}
		src := Range{Start: listItemStart(source, children.Start), End: children.End}
		return NodeSpan{Source: src, Text: children, HasText: true}, true

	case *ast.RawHTML:
		if t.Segments.Len() == 0 {
			return NodeSpan{}, false
		}
		r := Range{
			Start: t.Segments.At(0).Start,
			End:   t.Segments.At(t.Segments.Len() - 1).Stop,
		}
		return NodeSpan{Source: r, Text: r, HasText: true}, true
	}

	// Leaf blocks carry their line segments (paragraphs, code blocks,
	// HTML blocks). Fence and marker lines fall outside the recorded
	// segments and stay uncaptured, like any other bare markdown syntax.
	if src, ok := lineExtent(n); ok {
		span := NodeSpan{Source: src}
		if haveChildren {
			span.Text = children
			span.HasText = true
		} else if n.Kind() == ast.KindParagraph || n.Kind() == ast.KindTextBlock {
			span.Text = src
			span.HasText = true
		}
		return span, true
	}

	// Containers without native positions (blockquotes, lists) derive
	// both ranges from their first and last positioned children.
	if haveChildren {
		return NodeSpan{Source: children, Text: children, HasText: true}, true
	}

	return NodeSpan{}, false
}

func childExtent(n ast.Node, spans map[ast.Node]NodeSpan) (Range, bool) {
	var (
		extent Range
		found  bool
	)
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		span, ok := spans[c]
		if !ok {
			continue
		}
		if !found {
			extent = span.Source
			found = true
			continue
		}
		extent.End = span.Source.End
	}
	return extent, found
}

// linkExtent widens a link's child span over its markup: the leading "["
// (or "![" for images), the label's closing "]", and the "(...)" destination
// or "[ref]" label that follows. When the surrounding bytes do not look like
// link markup the child extent is returned unchanged.
func linkExtent(source []byte, children Range) Range {
	start := children.Start
	if start == 0 || source[start-1] != '[' {
		return children
	}
	start--
	if start > 0 && source[start-1] == '!' {
		start--
	}

	i := children.End
	if i >= len(source) || source[i] != ']' {
		return children
	}
	i++

	if i < len(source) && source[i] == '(' {
		depth := 0
		for j := i; j < len(source); j++ {
			switch source[j] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return Range{Start: start, End: j + 1}
				}
			case '\n':
				return children
			}
		}
		return children
	}

	if i < len(source) && source[i] == '[' {
		for j := i + 1; j < len(source); j++ {
			if source[j] == ']' {
				return Range{Start: start, End: j + 1}
			}
			if source[j] == '\n' {
				break
			}
		}
		return children
	}

	// Shortcut reference: just the bracketed label.
	return Range{Start: start, End: i}
}

func lineExtent(n ast.Node) (Range, bool) {
	if n.Type() != ast.TypeBlock {
		return Range{}, false
	}
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return Range{}, false
	}
	return Range{
		Start: lines.At(0).Start,
		End:   lines.At(lines.Len() - 1).Stop,
	}, true
}

// headingStart walks back from the content start over the ATX markers so the
// source range covers the leading '#' run. Setext headings are left at their
// content extent.
func headingStart(source []byte, start int) int {
	i := start
	for i > 0 {
		c := source[i-1]
		if c == '\n' {
			break
		}
		if c != '#' && c != ' ' && c != '\t' {
			return start
		}
		i--
	}
	return i
}

// listItemStart walks back from the first child over the item marker
// ("- ", "* ", "+ ", "1. ", "1) ") so the range covers the bullet.
func listItemStart(source []byte, start int) int {
	i := start
	for i > 0 && (source[i-1] == ' ' || source[i-1] == '\t') {
		i--
	}
	if i > 0 && (source[i-1] == '-' || source[i-1] == '*' || source[i-1] == '+') {
		return i - 1
	}
	if i > 0 && (source[i-1] == '.' || source[i-1] == ')') {
		j := i - 1
		for j > 0 && source[j-1] >= '0' && source[j-1] <= '9' {
			j--
		}
		if j < i-1 {
			return j
		}
	}
	return start
}

// attach records the computed ranges in the node's renderer-facing attribute
// bag. Text leaves render as bare character data, so attributes would have no
// element to land on.
func attach(n ast.Node, span NodeSpan) {
	if n.Kind() == ast.KindText || n.Kind() == ast.KindString {
		return
	}
	n.SetAttributeString(AttrSourceStart, []byte(strconv.Itoa(span.Source.Start)))
	n.SetAttributeString(AttrSourceEnd, []byte(strconv.Itoa(span.Source.End)))
	if span.HasText {
		n.SetAttributeString(AttrTextStart, []byte(strconv.Itoa(span.Text.Start)))
		n.SetAttributeString(AttrTextEnd, []byte(strconv.Itoa(span.Text.End)))
	}
}

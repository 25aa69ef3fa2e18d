// Package markdown implements quill's position-mapping core: parsing via
// goldmark, annotation of every syntax tree node with its originating source
// range, and the per-render source map index used to translate cursor and
// selection positions between the raw text and the rendered view.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Pipeline wraps a configured goldmark instance. A single pipeline is safe
// to reuse across parse passes; each pass produces a fresh annotation and
// source map.
type Pipeline struct {
	md goldmark.Markdown
}

// NewPipeline returns a pipeline with GFM extensions enabled. Attribute
// output needs no renderer configuration: goldmark's HTML renderers surface
// any data-* attribute attached to a node.
func NewPipeline() *Pipeline {
	return &Pipeline{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Parse parses the source into a syntax tree. The tree borrows the source
// slice; keep it alive as long as the tree is used.
func (p *Pipeline) Parse(source []byte) ast.Node {
	return p.md.Parser().Parse(text.NewReader(source))
}

// Annotate parses and annotates in one step.
func (p *Pipeline) Annotate(source []byte) *Annotation {
	return Annotate(p.Parse(source), source)
}

// SourceMap parses, annotates, and builds the offset index in one step.
// This is the whole per-edit rebuild: markdown documents are small enough
// that a full pass per change beats incremental bookkeeping.
func (p *Pipeline) SourceMap(source []byte) *SourceMap {
	return BuildSourceMap(p.Annotate(source))
}

// RenderHTML parses, annotates, and renders the source to HTML. Annotated
// elements carry data-source-start/data-source-end (and data-text-start/
// data-text-end where a text range exists) attributes. The annotation for
// the same pass is returned alongside so callers can build a source map
// without re-parsing.
func (p *Pipeline) RenderHTML(source []byte) ([]byte, *Annotation, error) {
	doc := p.Parse(source)
	ann := Annotate(doc, source)

	var buf bytes.Buffer
	if err := p.md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), ann, nil
}

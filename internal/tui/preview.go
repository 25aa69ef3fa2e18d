package tui

import (
	"fmt"
	"hash/fnv"

	"github.com/charmbracelet/glamour"

	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/pkg/kv"
)

// previewRenderer renders markdown for the preview pane. Rendered output
// is cached by content hash so scrolling and pane switches do not re-run
// the terminal renderer.
type previewRenderer struct {
	width    int
	renderer *glamour.TermRenderer
	cache    *kv.Store[uint64, string]
}

func newPreviewRenderer() *previewRenderer {
	return &previewRenderer{
		cache: kv.New[uint64, string](),
	}
}

// SetWidth rebuilds the renderer for the given wrap width and drops the
// cache, since cached output is width-dependent.
func (p *previewRenderer) SetWidth(width int) error {
	if width == p.width && p.renderer != nil {
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("build preview renderer: %w", err)
	}

	p.width = width
	p.renderer = r
	p.cache.Clear()
	return nil
}

// Render returns the styled preview for content, using the cache when the
// content has not changed since the last render at this width.
func (p *previewRenderer) Render(content string) (string, error) {
	if p.renderer == nil {
		return "", fmt.Errorf("preview renderer not sized")
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(content))
	key := h.Sum64()

	if out, ok := p.cache.Get(key); ok {
		return out, nil
	}

	out, err := p.renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}

	p.cache.Set(key, out)
	return out, nil
}

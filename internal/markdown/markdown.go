// Package markdown renders Markdown to HTML. All parsing is delegated to
// goldmark; this package only holds the configured pipeline.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/errors"
)

// Renderer converts Markdown source to HTML
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with default configuration
func NewRenderer() *Renderer {
	return NewRendererWithConfig(config.NewConfig())
}

// NewRendererWithConfig creates a Renderer with custom configuration
func NewRendererWithConfig(cfg *config.Config) *Renderer {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	var opts []renderer.Option
	if cfg.Markdown.HardWraps {
		opts = append(opts, html.WithHardWraps())
	}
	if cfg.Markdown.XHTML {
		opts = append(opts, html.WithXHTML())
	}
	if cfg.Markdown.Unsafe {
		opts = append(opts, html.WithUnsafe())
	}

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(opts...),
		),
	}
}

// Render converts Markdown source to HTML.
func (r *Renderer) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, errors.NewMarkdownError("failed to render markdown", err)
	}
	return buf.Bytes(), nil
}

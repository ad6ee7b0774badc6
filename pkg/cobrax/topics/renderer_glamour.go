package topics

import (
	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
)

// GlamourRenderer renders markdown through glamour
type GlamourRenderer struct {
	// Style is a standard style name ("dark", "light", "notty") or
	// "auto" to detect from the terminal
	Style string
	// Width wraps words at the given column, 0 leaves glamour's default
	Width int
}

// NewGlamourRenderer creates a markdown renderer that detects its style
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: glamourstyles.AutoStyle}
}

// Render renders markdown content; other formats and render failures are
// returned unchanged
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}
	rendered, err := r.RenderMarkdown(content)
	if err != nil {
		return content
	}
	return rendered
}

// RenderMarkdown renders markdown content
func (r *GlamourRenderer) RenderMarkdown(content string) (string, error) {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != glamourstyles.AutoStyle {
		options = append(options, glamour.WithStandardStyle(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}

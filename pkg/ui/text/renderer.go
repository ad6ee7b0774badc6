// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"

	"github.com/eppisapiafsl/expo-cli/pkg/prebuild"
	"github.com/eppisapiafsl/expo-cli/pkg/ui/report"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders the outcome of a pass as plain text
func (r *Renderer) RenderResult(result *prebuild.Result) error {
	return report.Write(r.output, result, report.Plain)
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// Package terminal provides styled terminal output
package terminal

import (
	"fmt"
	"io"

	"github.com/eppisapiafsl/expo-cli/pkg/prebuild"
	"github.com/eppisapiafsl/expo-cli/pkg/ui/report"
	"github.com/eppisapiafsl/expo-cli/pkg/ui/styles"
)

// Renderer paints results with the styles of the styles package
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderResult renders the outcome of a pass
func (r *Renderer) RenderResult(result *prebuild.Result) error {
	return report.Write(r.output, result, styles.Render)
}

// RenderError renders an error in the Error style
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, styles.Render("Error", fmt.Sprintf("Error: %v", err)))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, styles.Render("Info", msg))
	return err
}

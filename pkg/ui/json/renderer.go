// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/prebuild"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) *Renderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

// Result is the JSON document of a pass
type Result struct {
	RunID     string     `json:"runId"`
	DryRun    bool       `json:"dryRun"`
	Platforms []Platform `json:"platforms"`
}

// Platform is the JSON document of one platform
type Platform struct {
	Platform    string `json:"platform"`
	ProjectName string `json:"projectName,omitempty"`
	Status      string `json:"status"`
	Written     int    `json:"written"`
	Unchanged   int    `json:"unchanged"`
	Skipped     int    `json:"skipped"`
	Failed      int    `json:"failed"`
	Slots       []Slot `json:"slots"`
}

// Slot is the JSON document of one slot
type Slot struct {
	Slot       string `json:"slot"`
	Path       string `json:"path,omitempty"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Links      int    `json:"links"`
	DurationMS int64  `json:"durationMs"`
	Patch      string `json:"patch,omitempty"`
	Error      *Error `json:"error,omitempty"`
}

// Error is the JSON document of an error
type Error struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewResult converts the outcome of a pass
func NewResult(result *prebuild.Result) Result {
	out := Result{RunID: result.RunID, DryRun: result.DryRun, Platforms: []Platform{}}
	for _, p := range result.Platforms {
		jp := Platform{
			Platform:    p.Platform.String(),
			ProjectName: p.ProjectName,
			Status:      string(p.Status),
			Written:     p.Written,
			Unchanged:   p.Unchanged,
			Skipped:     p.Skipped,
			Failed:      p.Failed,
			Slots:       []Slot{},
		}
		for _, s := range p.Slots {
			js := Slot{
				Slot:       string(s.Slot),
				Path:       s.Path,
				Status:     string(s.Status),
				Reason:     s.Reason,
				Links:      s.Links,
				DurationMS: s.Duration.Milliseconds(),
			}
			if s.Change != nil {
				js.Patch = s.Change.Patch
			}
			if s.Err != nil {
				js.Error = newError(s.Err)
			}
			jp.Slots = append(jp.Slots, js)
		}
		out.Platforms = append(out.Platforms, jp)
	}
	return out
}

func newError(err error) *Error {
	return &Error{
		Message: err.Error(),
		Code:    string(errors.GetErrorCode(err)),
		Details: errors.GetErrorDetails(err),
	}
}

// RenderResult renders the outcome of a pass as one JSON document
func (r *Renderer) RenderResult(result *prebuild.Result) error {
	return r.encoder.Encode(NewResult(result))
}

// RenderError renders an error with its code and details
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]*Error{"error": newError(err)})
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}

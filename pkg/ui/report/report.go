// Package report lays out the result of a prebuild pass as lines of text.
// The caller decides how each styled fragment is painted.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/eppisapiafsl/expo-cli/pkg/prebuild"
)

// DryRunNotice heads the output of a dry-run
const DryRunNotice = "DRY RUN MODE - No files were written"

// Painter renders s with the named style
type Painter func(style, s string) string

// Plain paints nothing
func Plain(_, s string) string { return s }

var statusStyles = map[prebuild.SlotStatus]string{
	prebuild.StatusWritten:   "Written",
	prebuild.StatusChanged:   "Changed",
	prebuild.StatusUnchanged: "Unchanged",
	prebuild.StatusSkipped:   "Skipped",
	prebuild.StatusError:     "Error",
}

// Write writes one block per platform listing the outcome of each slot,
// followed by the patches of a dry-run
func Write(w io.Writer, result *prebuild.Result, paint Painter) error {
	pw := &printer{w: w}

	if result.DryRun {
		pw.println(paint("DryRunBanner", DryRunNotice))
	}

	for _, p := range result.Platforms {
		title := p.Platform.String()
		if p.ProjectName != "" {
			title += " (" + p.ProjectName + ")"
		}
		pw.println(paint("Platform", title))

		for _, s := range p.Slots {
			pw.println(slotLine(s, paint))
		}
		pw.println(paint("Muted", "  "+Summary(p, result.DryRun)))
	}

	if result.DryRun {
		for _, c := range result.Changes() {
			pw.println("")
			writePatch(pw, c.Patch, paint)
		}
	}
	return pw.err
}

// Summary counts the slot outcomes of a platform
func Summary(p *prebuild.PlatformResult, dryRun bool) string {
	verb := "written"
	if dryRun {
		verb = "would change"
	}
	return fmt.Sprintf("%d %s, %d unchanged, %d skipped, %d failed", p.Written, verb, p.Unchanged, p.Skipped, p.Failed)
}

func slotLine(s prebuild.SlotResult, paint Painter) string {
	status := string(s.Status)
	line := "  " + paint(statusStyles[s.Status], status) + strings.Repeat(" ", pad(status, 10)) +
		paint("Slot", string(s.Slot)) + strings.Repeat(" ", pad(string(s.Slot), 24))
	if s.Path != "" {
		line += paint("FilePath", s.Path)
	}
	if s.Reason != "" {
		line += " " + paint("Muted", "("+s.Reason+")")
	}
	if s.Err != nil {
		line += " " + paint("Error", s.Err.Error())
	}
	return strings.TrimRight(line, " ")
}

// pad is the number of spaces that align s to width, at least one
func pad(s string, width int) int {
	if n := width - len(s); n > 0 {
		return n
	}
	return 1
}

func writePatch(pw *printer, patch string, paint Painter) {
	for _, line := range strings.Split(strings.TrimRight(patch, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			pw.println(paint("Bold", line))
		case strings.HasPrefix(line, "@@"):
			pw.println(paint("DiffHunk", line))
		case strings.HasPrefix(line, "+"):
			pw.println(paint("DiffAdd", line))
		case strings.HasPrefix(line, "-"):
			pw.println(paint("DiffRemove", line))
		default:
			pw.println(line)
		}
	}
}

// printer keeps the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) println(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

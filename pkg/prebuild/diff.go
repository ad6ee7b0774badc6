package prebuild

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const contextLines = 3

// Change is a file a dry-run would rewrite
type Change struct {
	Path   string
	Before []byte
	After  []byte
	Patch  string
}

func newChange(path string, before, after []byte) *Change {
	return &Change{
		Path:   path,
		Before: before,
		After:  after,
		Patch:  unifiedPatch(path, string(before), string(after)),
	}
}

type patchLine struct {
	op   diffmatchpatch.Operation
	text string
	eof  bool
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []patchLine
}

// header follows diff(1): a range with no lines starts at the line before it
func (h hunk) header() string {
	oldStart, newStart := h.oldStart, h.newStart
	if h.oldCount == 0 {
		oldStart--
	}
	if h.newCount == 0 {
		newStart--
	}
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@\n", oldStart, h.oldCount, newStart, h.newCount)
}

// unifiedPatch renders a line based diff in unified format with a few lines
// of context around each change
func unifiedPatch(path, before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	oldTotal, newTotal := len(splitLines(before)), len(splitLines(after))
	oldNoEOL := before != "" && !strings.HasSuffix(before, "\n")
	newNoEOL := after != "" && !strings.HasSuffix(after, "\n")

	var all []patchLine
	oldLine, newLine := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			l := patchLine{op: d.Type, text: text}
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				newLine++
				l.eof = newNoEOL && newLine == newTotal
			case diffmatchpatch.DiffDelete:
				oldLine++
				l.eof = oldNoEOL && oldLine == oldTotal
			default:
				oldLine++
				newLine++
				l.eof = oldNoEOL && oldLine == oldTotal
			}
			all = append(all, l)
		}
	}

	// mark the lines within contextLines of a change
	keep := make([]bool, len(all))
	for i, l := range all {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		for j := i - contextLines; j <= i+contextLines; j++ {
			if j >= 0 && j < len(all) {
				keep[j] = true
			}
		}
	}

	var hunks []*hunk
	var cur *hunk
	oldLine, newLine = 1, 1
	for i, l := range all {
		if !keep[i] {
			cur = nil
		} else {
			if cur == nil {
				cur = &hunk{oldStart: oldLine, newStart: newLine}
				hunks = append(hunks, cur)
			}
			cur.lines = append(cur.lines, l)
		}

		switch l.op {
		case diffmatchpatch.DiffInsert:
			newLine++
			if cur != nil {
				cur.newCount++
			}
		case diffmatchpatch.DiffDelete:
			oldLine++
			if cur != nil {
				cur.oldCount++
			}
		default:
			oldLine++
			newLine++
			if cur != nil {
				cur.oldCount++
				cur.newCount++
			}
		}
	}

	var sb strings.Builder
	from := path
	if before == "" {
		from = "/dev/null"
	}
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", from, path)

	for _, h := range hunks {
		sb.WriteString(h.header())
		for _, l := range h.lines {
			switch l.op {
			case diffmatchpatch.DiffInsert:
				sb.WriteString("+")
			case diffmatchpatch.DiffDelete:
				sb.WriteString("-")
			default:
				sb.WriteString(" ")
			}
			sb.WriteString(l.text + "\n")
			if l.eof {
				sb.WriteString("\\ No newline at end of file\n")
			}
		}
	}
	return sb.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/term"
)

// DiffOptions configures how diffs are generated and displayed.
// All fields are optional.
type DiffOptions struct {
	// ContextLines is the number of unchanged lines around each change.
	// Default: 3
	ContextLines int

	// TabWidth is the number of spaces a tab expands to.
	// Default: 4
	TabWidth int

	// ShowLineNums prefixes each line with its number in the old file.
	ShowLineNums bool
}

// DiffGenerator produces unified diffs between an existing file and its
// regenerated content. Line matching is delegated to diffmatchpatch in
// line mode.
type DiffGenerator struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewDiffGenerator creates a diff generator that can be reused across files.
func NewDiffGenerator() *DiffGenerator {
	return &DiffGenerator{dmp: diffmatchpatch.New()}
}

// GenerateDiffDefault is GenerateDiff with default options.
func (dg *DiffGenerator) GenerateDiffDefault(oldPath, newPath string, old, newer []byte) string {
	return dg.GenerateDiff(oldPath, newPath, old, newer, nil)
}

// GenerateDiff returns a styled unified diff, or "" when the inputs are equal.
func (dg *DiffGenerator) GenerateDiff(oldPath, newPath string, old, newer []byte, opts *DiffOptions) string {
	o := DiffOptions{ContextLines: 3, TabWidth: 4}
	if opts != nil {
		o.ShowLineNums = opts.ShowLineNums
		if opts.ContextLines > 0 {
			o.ContextLines = opts.ContextLines
		}
		if opts.TabWidth > 0 {
			o.TabWidth = opts.TabWidth
		}
	}

	if bytes.Equal(old, newer) {
		return ""
	}
	if isBinary(old) || isBinary(newer) {
		return "Binary files differ\n"
	}

	lines := dg.computeEditScript(string(old), string(newer))
	hunks := buildHunks(lines, o.ContextLines)
	if len(hunks) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(headerStyle.Render("--- "+oldPath) + "\n")
	buf.WriteString(headerStyle.Render("+++ "+newPath) + "\n")

	width := getTerminalWidth()
	for _, h := range hunks {
		buf.WriteString(formatHunk(h, o, width))
	}

	return buf.String()
}

// GenerateDiff diffs two byte slices with a throwaway generator.
func GenerateDiff(oldPath, newPath string, old, newer []byte, opts *DiffOptions) string {
	return NewDiffGenerator().GenerateDiff(oldPath, newPath, old, newer, opts)
}

// GenerateDiffDefault diffs two byte slices with default options.
func GenerateDiffDefault(oldPath, newPath string, old, newer []byte) string {
	return GenerateDiff(oldPath, newPath, old, newer, nil)
}

type lineOp int

const (
	opUnchanged lineOp = iota
	opAdded
	opRemoved
)

// diffLine is one line of the edit script. oldNum and newNum are the 1-based
// positions the line occupies (or would be inserted at) in each file.
type diffLine struct {
	oldNum  int
	newNum  int
	content string
	op      lineOp
}

type hunk struct {
	oldStart int
	oldCount int
	newStart int
	newCount int
	lines    []diffLine
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
	lineNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
)

// computeEditScript runs a line-level diff and flattens it into diffLines.
func (dg *DiffGenerator) computeEditScript(old, newer string) []diffLine {
	a, b, index := dg.dmp.DiffLinesToChars(old, newer)
	diffs := dg.dmp.DiffCharsToLines(dg.dmp.DiffMain(a, b, false), index)

	var result []diffLine
	oldNum, newNum := 1, 1
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			dl := diffLine{oldNum: oldNum, newNum: newNum, content: line}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				dl.op = opUnchanged
				oldNum++
				newNum++
			case diffmatchpatch.DiffInsert:
				dl.op = opAdded
				newNum++
			case diffmatchpatch.DiffDelete:
				dl.op = opRemoved
				oldNum++
			}
			result = append(result, dl)
		}
	}
	return result
}

// buildHunks groups changes that are at most 2*context lines apart and pads
// each group with context on both sides.
func buildHunks(lines []diffLine, context int) []hunk {
	var hunks []hunk

	start, end := -1, -1
	flush := func() {
		if start < 0 {
			return
		}
		from := max(0, start-context)
		to := min(len(lines), end+context+1)
		hunks = append(hunks, newHunk(lines[from:to]))
		start, end = -1, -1
	}

	for i, line := range lines {
		if line.op == opUnchanged {
			continue
		}
		if start >= 0 && i-end-1 > 2*context {
			flush()
		}
		if start < 0 {
			start = i
		}
		end = i
	}
	flush()

	return hunks
}

func newHunk(lines []diffLine) hunk {
	h := hunk{
		oldStart: lines[0].oldNum,
		newStart: lines[0].newNum,
		lines:    lines,
	}
	for _, l := range lines {
		if l.op != opAdded {
			h.oldCount++
		}
		if l.op != opRemoved {
			h.newCount++
		}
	}
	// unified diff convention for empty ranges
	if h.oldCount == 0 {
		h.oldStart--
	}
	if h.newCount == 0 {
		h.newStart--
	}
	return h
}

func formatHunk(h hunk, opts DiffOptions, termWidth int) string {
	var buf strings.Builder

	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
	buf.WriteString(hunkStyle.Render(header) + "\n")

	for _, line := range h.lines {
		content := truncateLine(expandTabs(line.content, opts.TabWidth), termWidth-10)

		var formatted string
		switch line.op {
		case opAdded:
			formatted = addedStyle.Render("+" + content)
		case opRemoved:
			formatted = removedStyle.Render("-" + content)
		default:
			formatted = " " + content
		}

		if opts.ShowLineNums {
			num := "    "
			if line.op != opAdded {
				num = fmt.Sprintf("%4d", line.oldNum)
			}
			formatted = lineNumStyle.Render(num) + " " + formatted
		}

		buf.WriteString(formatted + "\n")
	}

	return buf.String()
}

// isBinary reports whether the first 8KB contain a NUL byte.
func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), 8192)], 0) != -1
}

// splitLines splits on newlines, dropping the empty element a trailing
// newline produces.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func expandTabs(s string, tabWidth int) string {
	var buf strings.Builder
	col := 0

	for _, r := range s {
		if r == '\t' {
			spaces := tabWidth - (col % tabWidth)
			buf.WriteString(strings.Repeat(" ", spaces))
			col += spaces
			continue
		}
		buf.WriteRune(r)
		col++
	}

	return buf.String()
}

func truncateLine(s string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 80
	}
	if utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return "..."[:maxWidth]
	}
	return string([]rune(s)[:maxWidth-3]) + "..."
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

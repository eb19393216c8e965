package generator

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConflictResolution represents what to do with an existing file
type ConflictResolution int

const (
	Skip ConflictResolution = iota
	Overwrite
	ShowDiff
	Cancel
)

// String returns the lowercase name of the resolution.
func (r ConflictResolution) String() string {
	switch r {
	case Skip:
		return "skip"
	case Overwrite:
		return "overwrite"
	case ShowDiff:
		return "diff"
	default:
		return "cancel"
	}
}

// ConflictStrategy determines how to resolve conflicts
type ConflictStrategy interface {
	Resolve(path string, existing, newer []byte) (ConflictResolution, error)
}

// Resolver decides what happens when a generated file already exists on disk
// with different content.
type Resolver struct {
	strategy ConflictStrategy
}

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

// NewResolver creates a conflict resolver from the --force, --skip and --diff
// flags. force cannot be combined with the other two.
func NewResolver(force, skip, diff bool) (*Resolver, error) {
	if force && (skip || diff) {
		return nil, fmt.Errorf("--force cannot be combined with --skip or --diff")
	}
	if skip && diff {
		return nil, fmt.Errorf("--skip cannot be combined with --diff")
	}

	return &Resolver{strategy: selectStrategy(force, skip, diff)}, nil
}

// ResolveConflict determines what to do with a file that already exists.
// ShowDiff is never returned; strategies that offer it loop until the user
// picks a final answer.
func (r *Resolver) ResolveConflict(path string, existing, newer []byte) (ConflictResolution, error) {
	return r.strategy.Resolve(path, existing, newer)
}

func selectStrategy(force, skip, diff bool) ConflictStrategy {
	switch {
	case force:
		return &ForceStrategy{}
	case skip:
		return &SkipStrategy{}
	case diff:
		return &DiffStrategy{diffGen: NewDiffGenerator(), out: os.Stdout}
	default:
		return &InteractiveStrategy{diffGen: NewDiffGenerator(), out: os.Stdout}
	}
}

// ForceStrategy always overwrites.
type ForceStrategy struct{}

func (s *ForceStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Overwrite, nil
}

// SkipStrategy always keeps the existing file.
type SkipStrategy struct{}

func (s *SkipStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Skip, nil
}

// DiffStrategy shows the diff first, then asks.
type DiffStrategy struct {
	diffGen *DiffGenerator
	out     io.Writer
}

func (s *DiffStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	cancelled, err := showDiff(s.out, s.diffGen, path, existing, newer)
	if err != nil || cancelled {
		return Cancel, err
	}

	interactive := &InteractiveStrategy{diffGen: s.diffGen, out: s.out}
	return interactive.Resolve(path, existing, newer)
}

// InteractiveStrategy shows a keyboard-driven menu.
// Choosing "Show diff" displays the diff and brings the menu back.
type InteractiveStrategy struct {
	diffGen *DiffGenerator
	out     io.Writer
}

func (s *InteractiveStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	fileInfo, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return Cancel, fmt.Errorf("failed to stat file: %w", err)
	}

	for {
		p := tea.NewProgram(newConflictMenuModel(path, fileInfo))
		finalModel, err := p.Run()
		if err != nil {
			return Cancel, fmt.Errorf("failed to show menu: %w", err)
		}

		result := finalModel.(conflictMenuModel)
		if result.selected == nil {
			return Cancel, nil
		}
		if *result.selected != ShowDiff {
			return *result.selected, nil
		}

		if _, err := showDiff(s.out, s.diffGen, path, existing, newer); err != nil {
			return Cancel, err
		}
	}
}

// showDiff prints short diffs inline and pages long ones in a full-screen
// viewport. cancelled reports whether the viewer was closed with ctrl+c.
func showDiff(out io.Writer, gen *DiffGenerator, path string, existing, newer []byte) (cancelled bool, err error) {
	if gen == nil {
		gen = NewDiffGenerator()
	}
	if out == nil {
		out = os.Stdout
	}

	diff := gen.GenerateDiffDefault(path, path+" (generated)", existing, newer)
	if strings.Count(diff, "\n") <= 20 {
		fmt.Fprintln(out, diff)
		return false, nil
	}

	p := tea.NewProgram(newDiffViewerModel(path, diff), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return true, fmt.Errorf("failed to show diff: %w", err)
	}
	return finalModel.(diffViewerModel).cancelled, nil
}

type conflictMenuModel struct {
	path     string
	fileInfo os.FileInfo
	choices  []string
	cursor   int
	selected *ConflictResolution
}

func newConflictMenuModel(path string, fileInfo os.FileInfo) conflictMenuModel {
	return conflictMenuModel{
		path:     path,
		fileInfo: fileInfo,
		choices: []string{
			"Show diff",
			"Skip (keep my file)",
			"Overwrite (use the template)",
			"Cancel generation",
		},
	}
}

func (m conflictMenuModel) Init() tea.Cmd {
	return nil
}

func (m conflictMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		resolution := mapChoiceToResolution(m.cursor)
		m.selected = &resolution
		return m, tea.Quit
	}

	return m, nil
}

func (m conflictMenuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("⚠️  File already exists: ") + titleStyle.Render(m.path) + "\n")
	if m.fileInfo != nil {
		b.WriteString(mutedStyle.Render("    Modified: ") + formatAge(time.Since(m.fileInfo.ModTime())) + "\n")
		b.WriteString(mutedStyle.Render("    Size: ") + formatFileSize(m.fileInfo.Size()) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Move    [Enter] Choose    [q] Cancel") + "\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}

	return b.String()
}

func mapChoiceToResolution(cursor int) ConflictResolution {
	switch cursor {
	case 0:
		return ShowDiff
	case 1:
		return Skip
	case 2:
		return Overwrite
	default:
		return Cancel
	}
}

type diffViewerModel struct {
	path      string
	diff      string
	viewport  viewport.Model
	ready     bool
	cancelled bool
}

func newDiffViewerModel(path, diff string) diffViewerModel {
	return diffViewerModel{path: path, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "q", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		// header and footer take two lines each
		width, height := msg.Width-2, msg.Height-4
		if !m.ready {
			m.viewport = viewport.New(width, height)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = width
			m.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Loading diff..."
	}

	rule := strings.Repeat("─", max(0, m.viewport.Width))
	return titleStyle.Render("Diff: "+m.path) + "\n" +
		borderStyle.Render(rule) + "\n" +
		m.viewport.View() + "\n" +
		borderStyle.Render(rule) + "\n" +
		mutedStyle.Render("[↑/↓/pgup/pgdn] Scroll    [q] Back to menu    [ctrl+c] Cancel")
}

// formatAge renders a duration as a coarse "N units ago" string.
func formatAge(d time.Duration) string {
	units := []struct {
		name string
		size time.Duration
	}{
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
	}

	for _, u := range units {
		if n := int(d / u.size); n >= 1 {
			if n == 1 {
				return "1 " + u.name + " ago"
			}
			return fmt.Sprintf("%d %ss ago", n, u.name)
		}
	}
	return "just now"
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrNoInput is returned when the input stream ends before an answer.
var ErrNoInput = errors.New("no input")

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
)

// Prompter reads answers line by line from one shared reader.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next trimmed line. A final line without a trailing
// newline still counts as an answer.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Prompt asks the user for text input with an optional default value.
// If the user presses Enter without typing anything, the default is returned.
//
// Example:
//
//	name, err := p.Prompt("Project name", "mybot")
//	// Displays: Project name (mybot): _
func (p *Prompter) Prompt(message, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprint(p.out, promptStyle.Render(message)+" "+
			hintStyle.Render(fmt.Sprintf("(%s)", defaultValue))+": ")
	} else {
		fmt.Fprint(p.out, promptStyle.Render(message)+": ")
	}

	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

// Required asks until a non-empty answer is given.
func (p *Prompter) Required(message string) (string, error) {
	for {
		answer, err := p.Prompt(message, "")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(p.out, errorStyle.Render("A value is required."))
	}
}

// Choose asks until the answer matches one of choices, ignoring case, and
// returns the matching choice as given. Any other answer prints an error
// line and asks again.
//
// Example:
//
//	size, err := p.Choose("Project size", []string{"small", "middle", "pro"})
//	// Displays: Project size (small/middle/pro): _
func (p *Prompter) Choose(message string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("no choices to pick from")
	}

	hint := hintStyle.Render("(" + strings.Join(choices, "/") + ")")
	for {
		fmt.Fprint(p.out, promptStyle.Render(message)+" "+hint+": ")

		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		for _, c := range choices {
			if strings.EqualFold(answer, c) {
				return c, nil
			}
		}

		fmt.Fprintln(p.out, errorStyle.Render(
			fmt.Sprintf("Invalid choice %q. Choose one of: %s", answer, strings.Join(choices, ", "))))
	}
}

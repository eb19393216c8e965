package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/simonhull/firebird-suite/nestling/internal/logger"
)

// CommandFunc builds the *exec.Cmd for a run. Tests swap it for one that
// re-executes the test binary.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Executor runs external commands with beautiful UX
type Executor struct {
	stdout  io.Writer
	stderr  io.Writer
	env     []string
	timeout time.Duration
	log     logger.Logger

	commandFunc CommandFunc
}

// Options configures command execution
type Options struct {
	Stdout      io.Writer
	Stderr      io.Writer
	Env         []string      // Additional environment variables
	Timeout     time.Duration // Zero means no timeout
	Logger      logger.Logger
	CommandFunc CommandFunc
}

// NewExecutor creates an executor with sensible defaults
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{}
	}

	e := &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		timeout:     opts.Timeout,
		log:         opts.Logger,
		commandFunc: opts.CommandFunc,
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}
	if e.log == nil {
		e.log = logger.Default()
	}
	if e.commandFunc == nil {
		e.commandFunc = exec.CommandContext
	}
	return e
}

// with returns a copy writing to different streams.
func (e *Executor) with(stdout, stderr io.Writer) *Executor {
	c := *e
	c.stdout, c.stderr = stdout, stderr
	return &c
}

// Run executes a command, streaming its output to the executor's writers.
// Cancelling ctx kills the child process.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := e.commandFunc(ctx, name, args...)
	if len(e.env) > 0 {
		base := cmd.Env
		if base == nil {
			base = os.Environ()
		}
		cmd.Env = append(base, e.env...)
	}
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	e.log.Debug("running command", logger.F("cmd", commandLine(name, args)))
	started := time.Now()

	if err := cmd.Start(); err != nil {
		if isCommandNotFound(err) {
			return enhanceError(err, name)
		}
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	err := cmd.Wait()
	e.log.Debug("command finished", logger.F("cmd", name), logger.F("took", time.Since(started).Round(time.Millisecond)))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s cancelled: %w", name, ctxErr)
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// RunWithSpinner runs a command behind a progress spinner drawn on stderr.
// The command's output is captured and only written to stderr when it fails.
func (e *Executor) RunWithSpinner(ctx context.Context, message string, name string, args ...string) error {
	var captured lockedBuffer
	quiet := e.with(&captured, &captured)

	p := tea.NewProgram(newSpinnerModel(message),
		tea.WithOutput(e.stderr),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	done := make(chan error, 1)
	go func() {
		err := quiet.Run(ctx, name, args...)
		done <- err
		p.Send(spinnerDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		e.log.Debug("spinner stopped", logger.F("error", err))
	}

	err := <-done
	if err != nil && captured.Len() > 0 {
		_, _ = io.Copy(e.stderr, &captured)
	}
	return err
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Read(p)
}

func (b *lockedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// spinnerModel is the bubbletea model for the spinner
type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("❌ %s\n", m.message)
		}
		return fmt.Sprintf("✅ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}

func isCommandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// enhanceError adds helpful message for missing commands
func enhanceError(err error, cmd string) error {
	return fmt.Errorf("%w\n💡 Command '%s' not found. Please install it and try again", err, cmd)
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// GenericCommand provides a fluent API for building and executing commands
type GenericCommand struct {
	executor    *Executor
	command     string
	args        []string
	env         []string
	showSpinner bool
	spinnerMsg  string
	stream      io.Writer
}

// NewGenericCommand creates a new generic command builder
func NewGenericCommand(executor *Executor, command string) *GenericCommand {
	return &GenericCommand{
		executor: executor,
		command:  command,
	}
}

// WithArgs adds arguments to the command
func (g *GenericCommand) WithArgs(args ...string) *GenericCommand {
	g.args = append(g.args, args...)
	return g
}

// WithEnv adds environment variables
func (g *GenericCommand) WithEnv(env ...string) *GenericCommand {
	g.env = append(g.env, env...)
	return g
}

// WithSpinner enables spinner with the given message
func (g *GenericCommand) WithSpinner(message string) *GenericCommand {
	g.showSpinner = true
	g.spinnerMsg = message
	return g
}

// WithStream sends both output streams through w, typically a
// StreamingWriter. It is ignored when a spinner is shown.
func (g *GenericCommand) WithStream(w io.Writer) *GenericCommand {
	g.stream = w
	return g
}

// Run executes the command
func (g *GenericCommand) Run(ctx context.Context) error {
	e := *g.executor
	e.env = append(append([]string{}, g.executor.env...), g.env...)

	if g.showSpinner {
		return e.RunWithSpinner(ctx, g.spinnerMsg, g.command, g.args...)
	}
	if g.stream != nil {
		err := e.with(g.stream, g.stream).Run(ctx, g.command, g.args...)
		if f, ok := g.stream.(interface{ Flush() error }); ok {
			_ = f.Flush()
		}
		return err
	}
	return e.Run(ctx, g.command, g.args...)
}

// String returns the command string representation for debugging
func (g *GenericCommand) String() string {
	return commandLine(g.command, g.args)
}

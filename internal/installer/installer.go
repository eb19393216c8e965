// Package installer installs a generated project's Python requirements by
// running the host package manager in a child process.
package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/simonhull/firebird-suite/nestling/internal/exec"
	"github.com/simonhull/firebird-suite/nestling/internal/logger"
)

// DefaultPython is used by the pip installer when no interpreter is configured.
const DefaultPython = "python3"

// RequirementsFile is the name of the file handed to the installer.
const RequirementsFile = "requirements.txt"

// pipQuietEnv keeps pip from checking PyPI for a newer pip on every install.
var pipQuietEnv = []string{"PIP_DISABLE_PIP_VERSION_CHECK=1"}

// Installer is an exec.CommandWrapper bound to one project's requirements.
type Installer interface {
	exec.CommandWrapper
	Requirements() string
}

// Pip runs "<python> -m pip install -r <requirements>".
type Pip struct {
	Python       string
	Display      Display
	requirements string
}

// UV runs "uv pip install -r <requirements>".
type UV struct {
	Display      Display
	requirements string
}

// Display controls how a running installer presents itself.
type Display struct {
	// Spinner hides installer output behind a spinner.
	Spinner bool
	// Stream receives the installer's output when Spinner is off. Nil
	// leaves it on the executor's own writers.
	Stream *exec.StreamingWriter
}

func (p *Pip) Name() string        { return "pip" }
func (p *Pip) Description() string { return "python -m pip install -r requirements.txt" }

func (p *Pip) Requirements() string { return p.requirements }

func (p *Pip) Execute(ctx context.Context, e *exec.Executor) error {
	python := p.Python
	if python == "" {
		python = DefaultPython
	}
	cmd := exec.NewGenericCommand(e, python).
		WithArgs("-m", "pip", "install", "-r", p.requirements).
		WithEnv(pipQuietEnv...)
	return run(ctx, cmd, p.Display, p.Name())
}

func (u *UV) Name() string        { return "uv" }
func (u *UV) Description() string { return "uv pip install -r requirements.txt" }

func (u *UV) Requirements() string { return u.requirements }

func (u *UV) Execute(ctx context.Context, e *exec.Executor) error {
	cmd := exec.NewGenericCommand(e, "uv").WithArgs("pip", "install", "-r", u.requirements)
	return run(ctx, cmd, u.Display, u.Name())
}

func run(ctx context.Context, cmd *exec.GenericCommand, d Display, name string) error {
	logger.Debug("installing requirements", logger.F("installer", name), logger.F("cmd", cmd.String()))

	switch {
	case d.Spinner:
		cmd.WithSpinner("Installing requirements with " + name)
	case d.Stream != nil:
		cmd.WithStream(d.Stream)
	}
	return cmd.Run(ctx)
}

// Options selects and configures the installers for one project.
type Options struct {
	ProjectRoot string
	Python      string
	Display     Display
}

// NewRegistry returns a registry holding every supported installer, each
// pointed at the project's requirements file.
func NewRegistry(opts Options) (*exec.CommandRegistry, error) {
	req := filepath.Join(opts.ProjectRoot, RequirementsFile)

	registry := exec.NewCommandRegistry()
	for _, inst := range []Installer{
		&Pip{Python: opts.Python, Display: opts.Display, requirements: req},
		&UV{Display: opts.Display, requirements: req},
	} {
		if err := registry.Register(inst); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Names lists the supported installer names.
func Names() []string {
	return []string{"pip", "uv"}
}

// Install runs the named installer against the project's requirements.
func Install(ctx context.Context, name string, opts Options, e *exec.Executor) error {
	registry, err := NewRegistry(opts)
	if err != nil {
		return err
	}
	if !registry.Has(name) {
		return fmt.Errorf("unknown installer %q (available: %v)", name, registry.List())
	}
	if err := registry.Execute(ctx, name, e); err != nil {
		return fmt.Errorf("installing requirements: %w", err)
	}
	return nil
}

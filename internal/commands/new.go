package commands

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/nestling/internal/config"
	"github.com/simonhull/firebird-suite/nestling/internal/exec"
	"github.com/simonhull/firebird-suite/nestling/internal/generator"
	"github.com/simonhull/firebird-suite/nestling/internal/input"
	"github.com/simonhull/firebird-suite/nestling/internal/installer"
	"github.com/simonhull/firebird-suite/nestling/internal/output"
	"github.com/simonhull/firebird-suite/nestling/internal/project"
)

// commandFunc builds installer processes. Nil uses os/exec.
var commandFunc exec.CommandFunc

// NewCmd creates and returns the 'new' command for scaffolding projects
func NewCmd() *cobra.Command {
	var dryRun, skip, diff bool

	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Create a new bot project",
		Long: `Creates a new aiogram bot project and installs its requirements.

Missing values are asked for interactively:
  Project name                      the directory to create
  Project size (small/middle/pro)   how much structure to generate

Existing files are overwritten unless --skip or --diff is given.

Examples:
  nestling new mybot
  nestling new mybot --tier pro --installer uv
  nestling new mybot --tier middle --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"default_tier":      "tier",
				"install.skip":      "no-install",
				"install.installer": "installer",
				"install.python":    "python",
			})
			if err != nil {
				return err
			}

			prompter := input.New(cmd.InOrStdin(), cmd.OutOrStdout())

			name, err := projectName(prompter, args)
			if err != nil {
				return err
			}
			tier, err := projectTier(prompter, cfg.DefaultTier)
			if err != nil {
				return err
			}

			if !cfg.Install.Skip && !dryRun && !slices.Contains(installer.Names(), cfg.Install.Installer) {
				return fmt.Errorf("unknown installer %q: must be one of %v", cfg.Install.Installer, installer.Names())
			}

			resolver, err := generator.NewResolver(!skip && !diff, skip, diff)
			if err != nil {
				return err
			}

			scaffolder, err := project.NewScaffolder()
			if err != nil {
				return err
			}

			output.Info(fmt.Sprintf("Generating %s project %s", tier, name))

			err = scaffolder.Scaffold(cmd.Context(), name, tier, generator.ExecuteOptions{
				DryRun:   dryRun,
				Resolver: resolver,
				Writer:   cmd.OutOrStdout(),
			})
			if errors.Is(err, generator.ErrCancelled) {
				output.Warn("Generation cancelled; files written so far were kept")
				return nil
			}
			if err != nil {
				return err
			}

			if dryRun {
				output.Info("Dry run: nothing was written and no requirements were installed")
				return nil
			}
			output.Success(fmt.Sprintf("Created %s bot project: %s", tier, name))

			if cfg.Install.Skip {
				output.Info("Skipping requirements installation")
			} else if err := installRequirements(cmd, cfg, name); err != nil {
				return err
			}

			printNextSteps(name, cfg.Install.Skip)
			return nil
		},
	}

	cmd.Flags().String("tier", "", "Project size: small, middle or pro (prompted when omitted)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without creating files")
	cmd.Flags().BoolVar(&skip, "skip", false, "Keep existing files instead of overwriting them")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a diff and ask before overwriting changed files")
	cmd.Flags().Bool("no-install", false, "Do not install requirements after generating")
	cmd.Flags().String("installer", "pip", fmt.Sprintf("Package installer to run %v", installer.Names()))
	cmd.Flags().String("python", installer.DefaultPython, "Python interpreter used by the pip installer")

	return cmd
}

func projectName(p *input.Prompter, args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	return p.Required("Project name")
}

// projectTier uses the configured tier when there is one. An invalid
// configured tier is an error, never a prompt.
func projectTier(p *input.Prompter, configured string) (project.Tier, error) {
	if configured != "" {
		return project.ParseTier(configured)
	}
	answer, err := p.Choose("Project size", project.TierNames())
	if err != nil {
		return project.Small, err
	}
	return project.ParseTier(answer)
}

func installRequirements(cmd *cobra.Command, cfg *config.Config, root string) error {
	name := cfg.Install.Installer
	out := cmd.OutOrStdout()

	display := installer.Display{
		Spinner: cfg.Output.Spinner && !output.IsVerbose() && exec.IsTerminal(out),
	}
	if output.IsVerbose() {
		display.Stream = exec.NewStreamingWriter(out, name+" │ ", "240")
	}

	output.Verbose(fmt.Sprintf("Installer %s, python %s, timeout %s", name, cfg.Install.Python, cfg.Install.Timeout))

	executor := exec.NewExecutor(&exec.Options{
		Stdout:      out,
		Stderr:      cmd.ErrOrStderr(),
		Timeout:     cfg.Install.Timeout,
		CommandFunc: commandFunc,
	})

	if !display.Spinner {
		output.Info(fmt.Sprintf("Installing requirements with %s", name))
	}
	err := installer.Install(cmd.Context(), name, installer.Options{
		ProjectRoot: root,
		Python:      cfg.Install.Python,
		Display:     display,
	}, executor)
	if err != nil {
		return err
	}

	output.Success("Requirements installed")
	return nil
}

func printNextSteps(name string, installSkipped bool) {
	output.Info("Next steps:")
	output.Step("1. cd " + name)
	output.Step("2. Create a virtual environment: python -m venv venv")
	output.Step("3. Activate it:")
	output.Step("   - Windows: venv\\Scripts\\activate")
	output.Step("   - macOS and Linux: source venv/bin/activate")
	if installSkipped {
		output.Step("   then: pip install -r requirements.txt")
	}
	output.Step("4. Create a .env file containing BOT_TOKEN=<your token>")
	output.Step("5. Run the bot: python bot.py")
}

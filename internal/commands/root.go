package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/simonhull/firebird-suite/nestling"
	"github.com/simonhull/firebird-suite/nestling/internal/config"
	"github.com/simonhull/firebird-suite/nestling/internal/logger"
	"github.com/simonhull/firebird-suite/nestling/internal/output"
)

// RootCmd creates and returns the root command for the nestling CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "nestling",
		Short: "Scaffold aiogram Telegram bot projects",
		Long: `Nestling generates ready-to-run aiogram bot projects.

Pick a size and nestling writes the project, then installs its requirements:
  small   bot entry point, config and a /start handler
  middle  adds SQLAlchemy models, keyboards, throttling and logging
  pro     adds Alembic, pytest tests and per-environment config

Example:
  nestling new mybot --tier middle`,
		Version:       nestling.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetOutput(cmd.OutOrStdout())
			output.SetVerbose(verbose)

			level := logger.LevelWarn
			if verbose {
				level = logger.LevelDebug
			}
			logger.SetDefault(logger.NewLogger(level, cmd.ErrOrStderr()))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().String("config", "", "Config file (default: ./nestling.yml or $XDG_CONFIG_HOME/nestling/nestling.yml)")

	return cmd
}

// loadConfig resolves configuration for cmd. bindings maps config keys to
// the names of cmd's flags that override them.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")

	flags := make(map[string]*pflag.Flag, len(bindings))
	for key, name := range bindings {
		flags[key] = cmd.Flags().Lookup(name)
	}

	cfg, err := config.Load(config.LoadOptions{File: file, Flags: flags})
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Debug("loaded config", logger.F("file", cfg.File))
	}
	return cfg, nil
}

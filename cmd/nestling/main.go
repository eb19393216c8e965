package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/simonhull/firebird-suite/nestling"
	"github.com/simonhull/firebird-suite/nestling/internal/commands"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := commands.RootCmd()
	rootCmd.AddCommand(commands.NewCmd())
	rootCmd.AddCommand(commands.TiersCmd())

	if err := fang.Execute(ctx, rootCmd, fang.WithVersion(nestling.Version)); err != nil {
		return 1
	}
	return 0
}

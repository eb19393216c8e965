// Package exec runs external commands for the CLI.
//
// It has three parts:
//
//  1. Executor runs a child process bound to a context, streaming its output
//     or hiding it behind a spinner.
//  2. CommandRegistry holds named CommandWrappers, such as the package
//     installers, that receive an Executor when they run.
//  3. GenericCommand is a fluent builder on top of an Executor.
//
// # Basic Usage
//
//	executor := exec.NewExecutor(nil)
//	err := executor.Run(ctx, "python3", "--version")
//
// # Command Registry Pattern
//
//	type pipInstaller struct{ python string }
//
//	func (p pipInstaller) Name() string        { return "pip" }
//	func (p pipInstaller) Description() string { return "python -m pip" }
//	func (p pipInstaller) Execute(ctx context.Context, e *exec.Executor) error {
//	    return exec.NewGenericCommand(e, p.python).
//	        WithArgs("-m", "pip", "install", "-r", "requirements.txt").
//	        Run(ctx)
//	}
//
//	registry := exec.NewCommandRegistry()
//	_ = registry.Register(pipInstaller{python: "python3"})
//	err := registry.Execute(ctx, "pip", executor)
//
// # Testing
//
// Options.CommandFunc replaces exec.CommandContext, so tests can point
// every command at the test binary's TestHelperProcess.
package exec

package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrCancelled is returned when the user cancels during conflict resolution.
var ErrCancelled = errors.New("operation cancelled")

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun   bool
	Resolver *Resolver // Decides what happens to existing files (defaults to overwrite)
	Writer   io.Writer // Where to write output (defaults to os.Stdout)
}

// Execute runs operations in order after validating all of them.
//
// A failing operation aborts the remainder. Files already written stay on
// disk; there is no rollback.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Resolver == nil {
		opts.Resolver = &Resolver{strategy: &ForceStrategy{}}
	}

	// Dry runs must not touch the disk, and validation creates parent dirs.
	if !opts.DryRun {
		for _, op := range ops {
			if err := op.Validate(ctx); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
		}
	}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}

		if opts.DryRun {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
			continue
		}

		write, ok := op.(*WriteFileOp)
		if !ok {
			if err := op.Execute(ctx); err != nil {
				return fmt.Errorf("execution failed: %w", err)
			}
			fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
			continue
		}

		if err := executeWrite(ctx, write, opts); err != nil {
			return err
		}
	}

	return nil
}

// executeWrite writes a single file, consulting the resolver when the file
// already exists with different content.
func executeWrite(ctx context.Context, op *WriteFileOp, opts ExecuteOptions) error {
	existing, exists, err := op.existing()
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	verb := "✓"
	if exists {
		if op.unchanged(existing) {
			fmt.Fprintf(opts.Writer, "= Unchanged %s\n", op.Path)
			return nil
		}

		resolution, err := opts.Resolver.ResolveConflict(op.Path, existing, op.Content)
		if err != nil {
			return fmt.Errorf("resolving conflict for %s: %w", op.Path, err)
		}

		switch resolution {
		case Skip:
			fmt.Fprintf(opts.Writer, "- Skip %s (kept existing)\n", op.Path)
			return nil
		case Cancel, ShowDiff:
			return ErrCancelled
		}
		verb = "↻ Overwrite:"
	}

	if err := op.Execute(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	fmt.Fprintf(opts.Writer, "%s %s\n", verb, op.Description())
	return nil
}

// Package generator turns planned file-system changes into validated
// operations and executes them.
//
// # Operations
//
// Generators return a slice of Operation values (MkdirOp, WriteFileOp)
// instead of touching the disk themselves. Execute validates every
// operation first, then runs them in order:
//
//	ops := []generator.Operation{
//	    &generator.MkdirOp{Path: "mybot/handlers"},
//	    &generator.WriteFileOp{Path: "mybot/bot.py", Content: content, Mode: 0644},
//	}
//	err := generator.Execute(ctx, ops, generator.ExecuteOptions{})
//
// Execution stops at the first failure. Files written before the failure are
// left in place.
//
// # Conflicts
//
// When a file already exists with different content, the Resolver decides:
// overwrite (--force, the default for new projects), skip (--skip), or ask
// after showing a diff (--diff). Identical files are left untouched.
//
// # Templates
//
// Renderer wraps text/template with an LRU cache of parsed templates and a
// small helper FuncMap. Templates usually come from an embed.FS.
package generator

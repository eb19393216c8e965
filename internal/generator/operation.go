package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks that the operation can run. It may create parent directories
// as a side effect. Execute performs the operation and must only be called
// after Validate succeeds.
//
// Description returns a human-readable summary for output
// (e.g., "Create mybot/bot.py (412 bytes)").
type Operation interface {
	Validate(ctx context.Context) error
	Execute(ctx context.Context) error
	Description() string
}

// MkdirOp creates a directory and any missing parents.
// An existing directory is not an error.
type MkdirOp struct {
	Path string
	Mode fs.FileMode
}

func (op *MkdirOp) Validate(ctx context.Context) error {
	if op.Path == "" {
		return errors.New("directory path is empty")
	}
	info, err := os.Stat(op.Path)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", op.Path)
	}
	return nil
}

func (op *MkdirOp) Execute(ctx context.Context) error {
	if err := os.MkdirAll(op.Path, op.mode()); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", op.Path, err)
	}
	return nil
}

func (op *MkdirOp) Description() string {
	return fmt.Sprintf("Create %s/", op.Path)
}

func (op *MkdirOp) mode() fs.FileMode {
	if op.Mode == 0 {
		return 0o755
	}
	return op.Mode
}

// WriteFileOp writes a file, creating parent directories as needed.
//
// Validation behavior:
//   - Creates the parent directory (idempotent side effect)
//   - Rejects nil content; empty content is allowed
//   - Rejects a path that already exists as a directory
//
// Whether an existing file is overwritten is decided by Execute's caller
// through a Resolver, not by the operation itself.
type WriteFileOp struct {
	Path    string      // File path to create
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)
}

func (op *WriteFileOp) Validate(ctx context.Context) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	if info, err := os.Stat(op.Path); err == nil && info.IsDir() {
		return fmt.Errorf("%s exists and is a directory", op.Path)
	}

	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(op.Path, op.Content, op.mode()); err != nil {
		return fmt.Errorf("cannot write %s: %w", op.Path, err)
	}
	return nil
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

func (op *WriteFileOp) mode() fs.FileMode {
	if op.Mode == 0 {
		return 0o644
	}
	return op.Mode
}

// existing returns the current content at the operation's path.
// ok is false when nothing is there yet.
func (op *WriteFileOp) existing() (content []byte, ok bool, err error) {
	data, err := os.ReadFile(op.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cannot read existing %s: %w", op.Path, err)
	}
	return data, true, nil
}

// unchanged reports whether existing content equals the content to write.
func (op *WriteFileOp) unchanged(existing []byte) bool {
	return bytes.Equal(existing, op.Content)
}

package generator_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonhull/firebird-suite/nestling/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_DryRun(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	ops := []generator.Operation{
		&generator.MkdirOp{Path: filepath.Join(tmpDir, "bot", "handlers")},
		&generator.WriteFileOp{
			Path:    filepath.Join(tmpDir, "bot", "bot.py"),
			Content: []byte("print('hi')\n"),
			Mode:    0644,
		},
	}

	var buf bytes.Buffer
	err := generator.Execute(ctx, ops, generator.ExecuteOptions{
		DryRun: true,
		Writer: &buf,
	})
	require.NoError(t, err)

	// Dry run must not even create parent directories
	_, err = os.Stat(filepath.Join(tmpDir, "bot"))
	assert.True(t, os.IsNotExist(err), "dry run created the project directory")

	output := buf.String()
	assert.Equal(t, 2, strings.Count(output, "[DRY RUN]"))
	assert.Contains(t, output, "bot.py")
}

func TestExecute_RealRun(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	ops := []generator.Operation{
		&generator.WriteFileOp{
			Path:    filepath.Join(tmpDir, "test.txt"),
			Content: []byte("hello"),
			Mode:    0644,
		},
	}

	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(tmpDir, "test.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestExecute_OverwritesByDefault(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: path, Content: []byte("new"), Mode: 0644},
	}

	var buf bytes.Buffer
	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &buf})
	require.NoError(t, err)

	content, _ := os.ReadFile(path)
	assert.Equal(t, "new", string(content))
	assert.Contains(t, buf.String(), "Overwrite")
}

func TestExecute_SkipKeepsExisting(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(path, []byte("edited by hand"), 0644))

	resolver, err := generator.NewResolver(false, true, false)
	require.NoError(t, err)

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: path, Content: []byte("template"), Mode: 0644},
		&generator.WriteFileOp{Path: filepath.Join(tmpDir, "fresh.txt"), Content: []byte("fresh"), Mode: 0644},
	}

	var buf bytes.Buffer
	err = generator.Execute(ctx, ops, generator.ExecuteOptions{Resolver: resolver, Writer: &buf})
	require.NoError(t, err)

	content, _ := os.ReadFile(path)
	assert.Equal(t, "edited by hand", string(content))
	assert.Contains(t, buf.String(), "Skip")

	// New files are still written
	_, err = os.Stat(filepath.Join(tmpDir, "fresh.txt"))
	assert.NoError(t, err)
}

func TestExecute_UnchangedFile(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "same.txt")
	require.NoError(t, os.WriteFile(path, []byte("same"), 0644))

	// A resolver that would cancel proves it is never consulted
	resolver := generator.NewResolverWithStrategy(cancelStrategy{})

	var buf bytes.Buffer
	err := generator.Execute(ctx, []generator.Operation{
		&generator.WriteFileOp{Path: path, Content: []byte("same"), Mode: 0644},
	}, generator.ExecuteOptions{Resolver: resolver, Writer: &buf})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Unchanged")
}

func TestExecute_CancelStopsExecution(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: path, Content: []byte("new"), Mode: 0644},
		&generator.WriteFileOp{Path: filepath.Join(tmpDir, "after.txt"), Content: []byte("x"), Mode: 0644},
	}

	err := generator.Execute(ctx, ops, generator.ExecuteOptions{
		Resolver: generator.NewResolverWithStrategy(cancelStrategy{}),
		Writer:   &bytes.Buffer{},
	})
	require.ErrorIs(t, err, generator.ErrCancelled)

	_, err = os.Stat(filepath.Join(tmpDir, "after.txt"))
	assert.True(t, os.IsNotExist(err), "operations after a cancel must not run")
}

func TestExecute_MultipleOperations(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	ops := []generator.Operation{
		&generator.MkdirOp{Path: filepath.Join(tmpDir, "empty")},
		&generator.WriteFileOp{
			Path:    filepath.Join(tmpDir, "file1.txt"),
			Content: []byte("content1"),
			Mode:    0644,
		},
		&generator.WriteFileOp{
			Path:    filepath.Join(tmpDir, "subdir", "file2.txt"),
			Content: []byte("content2"),
			Mode:    0644,
		},
	}

	var buf bytes.Buffer
	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &buf})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(tmpDir, "empty"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	for _, file := range []string{"file1.txt", filepath.Join("subdir", "file2.txt")} {
		_, err := os.Stat(filepath.Join(tmpDir, file))
		assert.NoError(t, err, "file not created: %s", file)
	}

	assert.Equal(t, 3, strings.Count(buf.String(), "✓"))
}

func TestExecute_ValidationBeforeExecution(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	ops := []generator.Operation{
		&generator.WriteFileOp{
			Path:    filepath.Join(tmpDir, "valid.txt"),
			Content: []byte("valid"),
			Mode:    0644,
		},
		&generator.WriteFileOp{
			Path:    filepath.Join(tmpDir, "invalid.txt"),
			Content: nil,
			Mode:    0644,
		},
	}

	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content is nil")

	_, err = os.Stat(filepath.Join(tmpDir, "valid.txt"))
	assert.True(t, os.IsNotExist(err), "valid.txt was written despite a validation failure")
}

func TestExecute_WriteFailureAbortsRemainder(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	ctx := context.Background()
	tmpDir := t.TempDir()
	locked := filepath.Join(tmpDir, "locked")
	require.NoError(t, os.Mkdir(locked, 0755))

	first := filepath.Join(tmpDir, "first.txt")
	ops := []generator.Operation{
		&generator.WriteFileOp{Path: first, Content: []byte("1"), Mode: 0644},
		&generator.WriteFileOp{Path: filepath.Join(locked, "second.txt"), Content: []byte("2"), Mode: 0644},
		&generator.WriteFileOp{Path: filepath.Join(tmpDir, "third.txt"), Content: []byte("3"), Mode: 0644},
	}

	// Lock the directory after validation would have passed
	require.NoError(t, os.Chmod(locked, 0555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second.txt")

	// No rollback: the first file stays, the third is never written
	_, err = os.Stat(first)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(tmpDir, "third.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExecute_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := generator.Execute(ctx, []generator.Operation{
		&generator.WriteFileOp{Path: filepath.Join(t.TempDir(), "x"), Content: []byte{}, Mode: 0644},
	}, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWriteFileOp_Validate(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	t.Run("creates parent directories", func(t *testing.T) {
		op := &generator.WriteFileOp{
			Path:    filepath.Join(tmpDir, "a", "b", "c.txt"),
			Content: []byte("x"),
		}
		require.NoError(t, op.Validate(ctx))

		info, err := os.Stat(filepath.Join(tmpDir, "a", "b"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty content is allowed", func(t *testing.T) {
		op := &generator.WriteFileOp{Path: filepath.Join(tmpDir, "__init__.py"), Content: []byte{}}
		assert.NoError(t, op.Validate(ctx))
	})

	t.Run("nil content is rejected", func(t *testing.T) {
		op := &generator.WriteFileOp{Path: filepath.Join(tmpDir, "nil.txt")}
		assert.Error(t, op.Validate(ctx))
	})

	t.Run("existing directory at path is rejected", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "isdir")
		require.NoError(t, os.Mkdir(dir, 0755))
		op := &generator.WriteFileOp{Path: dir, Content: []byte("x")}
		assert.Error(t, op.Validate(ctx))
	})
}

func TestWriteFileOp_EmptyContent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "handlers", "__init__.py")

	op := &generator.WriteFileOp{Path: path, Content: []byte{}, Mode: 0644}
	require.NoError(t, op.Validate(ctx))
	require.NoError(t, op.Execute(ctx))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestWriteFileOp_Description(t *testing.T) {
	op := &generator.WriteFileOp{Path: "mybot/bot.py", Content: []byte("12345")}
	assert.Equal(t, "Create mybot/bot.py (5 bytes)", op.Description())
}

func TestMkdirOp(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	t.Run("idempotent", func(t *testing.T) {
		op := &generator.MkdirOp{Path: filepath.Join(tmpDir, "alembic", "versions")}
		require.NoError(t, op.Validate(ctx))
		require.NoError(t, op.Execute(ctx))
		require.NoError(t, op.Validate(ctx))
		require.NoError(t, op.Execute(ctx))
	})

	t.Run("file in the way", func(t *testing.T) {
		path := filepath.Join(tmpDir, "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		op := &generator.MkdirOp{Path: path}
		assert.Error(t, op.Validate(ctx))
	})

	t.Run("empty path", func(t *testing.T) {
		op := &generator.MkdirOp{}
		assert.Error(t, op.Validate(ctx))
	})

	t.Run("description", func(t *testing.T) {
		op := &generator.MkdirOp{Path: "mybot/services"}
		assert.Equal(t, "Create mybot/services/", op.Description())
	})
}

type cancelStrategy struct{}

func (cancelStrategy) Resolve(string, []byte, []byte) (generator.ConflictResolution, error) {
	return generator.Cancel, nil
}

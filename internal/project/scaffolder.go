// Package project turns a project name and tier into the files of a new
// aiogram bot.
package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/simonhull/firebird-suite/nestling/internal/generator"
	"github.com/simonhull/firebird-suite/nestling/internal/logger"
)

// Data is passed to every template.
type Data struct {
	Name         string
	Tier         string
	Requirements []string
}

// Scaffolder plans and writes new projects.
type Scaffolder struct {
	manifest  *Manifest
	templates fs.FS
	renderer  *generator.Renderer
	log       logger.Logger
}

// NewScaffolder creates a scaffolder over the embedded templates.
func NewScaffolder() (*Scaffolder, error) {
	return NewScaffolderFS(Templates)
}

// NewScaffolderFS creates a scaffolder over templates and a manifest.yml
// read from fsys.
func NewScaffolderFS(fsys fs.FS) (*Scaffolder, error) {
	m, err := ParseManifest(fsys)
	if err != nil {
		return nil, err
	}
	return &Scaffolder{
		manifest:  m,
		templates: fsys,
		renderer:  generator.NewRenderer(),
		log:       logger.Default().WithFields(logger.F("component", "scaffolder")),
	}, nil
}

// Manifest returns the manifest the scaffolder plans from.
func (s *Scaffolder) Manifest() *Manifest {
	return s.manifest
}

// Plan renders every file for a project named name at the given tier and
// returns the operations that would create it, in order: the root
// directory, the remaining directories, then the files. Nothing is written.
func (s *Scaffolder) Plan(name string, tier Tier) ([]generator.Operation, error) {
	if name == "" {
		return nil, errors.New("project name is empty")
	}

	layout, err := s.manifest.Layout(tier)
	if err != nil {
		return nil, err
	}

	data := Data{
		Name:         filepath.Base(filepath.Clean(name)),
		Tier:         tier.String(),
		Requirements: layout.Requirements,
	}

	ops := make([]generator.Operation, 0, 1+len(layout.Dirs)+len(layout.Files))
	ops = append(ops, &generator.MkdirOp{Path: name})

	for _, dir := range layout.Dirs {
		ops = append(ops, &generator.MkdirOp{Path: filepath.Join(name, filepath.FromSlash(dir))})
	}

	for _, f := range layout.Files {
		content := []byte{}
		if f.Template != "" {
			content, err = s.renderer.RenderFS(s.templates, f.Template, data)
			if err != nil {
				return nil, fmt.Errorf("rendering %s: %w", f.Path, err)
			}
		}
		ops = append(ops, &generator.WriteFileOp{
			Path:    filepath.Join(name, filepath.FromSlash(f.Path)),
			Content: content,
		})
	}

	s.log.Debug("planned project",
		logger.F("name", name),
		logger.F("tier", tier),
		logger.F("dirs", len(layout.Dirs)),
		logger.F("files", len(layout.Files)),
	)
	return ops, nil
}

// Scaffold plans the project and executes the plan. A failure stops at the
// failing operation and leaves what was already written in place.
func (s *Scaffolder) Scaffold(ctx context.Context, name string, tier Tier, opts generator.ExecuteOptions) error {
	ops, err := s.Plan(name, tier)
	if err != nil {
		return err
	}

	for _, op := range ops {
		s.log.Debug("operation", logger.F("op", op.Description()))
	}

	if err := generator.Execute(ctx, ops, opts); err != nil {
		return fmt.Errorf("generating %s: %w", name, err)
	}
	return nil
}

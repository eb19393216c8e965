package project

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

//go:embed templates
var embedded embed.FS

// Templates holds the manifest and every file template.
var Templates fs.FS = mustSub(embedded, "templates")

const manifestFile = "manifest.yml"

// Manifest describes what each tier adds to a project.
type Manifest struct {
	Tiers []TierSpec `yaml:"tiers"`
}

// TierSpec is one tier's additions.
type TierSpec struct {
	Name         string     `yaml:"name"`
	Summary      string     `yaml:"summary"`
	Dirs         []string   `yaml:"dirs"`
	Files        []FileSpec `yaml:"files"`
	Requirements []string   `yaml:"requirements"`
}

// FileSpec maps a project-relative path to the template that renders it.
// An empty Template produces an empty file.
type FileSpec struct {
	Path     string `yaml:"path"`
	Template string `yaml:"template"`
}

// Layout is the accumulated content of a project at one tier.
type Layout struct {
	Tier         Tier
	Dirs         []string
	Files        []FileSpec
	Requirements []string
}

// LoadManifest parses the embedded manifest.
func LoadManifest() (*Manifest, error) {
	return ParseManifest(Templates)
}

// ParseManifest reads manifest.yml from fsys and checks it against the
// templates in the same filesystem.
func ParseManifest(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, manifestFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifestFile, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestFile, err)
	}
	if err := m.validate(fsys); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", manifestFile, err)
	}
	return &m, nil
}

func (m *Manifest) validate(fsys fs.FS) error {
	tiers := Tiers()
	if len(m.Tiers) != len(tiers) {
		return fmt.Errorf("expected %d tiers, found %d", len(tiers), len(m.Tiers))
	}

	seen := make(map[string]string)
	claim := func(p, what string) error {
		if !fs.ValidPath(p) {
			return fmt.Errorf("%s path %q must be a clean relative path", what, p)
		}
		if prev, ok := seen[p]; ok {
			return fmt.Errorf("%s %q already declared as %s", what, p, prev)
		}
		seen[p] = what
		return nil
	}

	for i, spec := range m.Tiers {
		if spec.Name != tiers[i].String() {
			return fmt.Errorf("tier %d is %q, expected %q", i, spec.Name, tiers[i])
		}
		for _, d := range spec.Dirs {
			if err := claim(d, "directory"); err != nil {
				return err
			}
		}
		for _, f := range spec.Files {
			if err := claim(f.Path, "file"); err != nil {
				return err
			}
			if f.Template == "" {
				continue
			}
			if _, err := fs.Stat(fsys, f.Template); err != nil {
				return fmt.Errorf("file %q: template %w", f.Path, err)
			}
		}
	}
	return nil
}

// Spec returns the additions of a single tier.
func (m *Manifest) Spec(t Tier) (TierSpec, error) {
	if int(t) < 0 || int(t) >= len(m.Tiers) {
		return TierSpec{}, fmt.Errorf("%w: %s", ErrInvalidTier, t)
	}
	return m.Tiers[t], nil
}

// Layout accumulates every tier up to and including t.
func (m *Manifest) Layout(t Tier) (Layout, error) {
	if _, err := m.Spec(t); err != nil {
		return Layout{}, err
	}

	l := Layout{Tier: t}
	for _, tier := range Tiers() {
		if !t.Includes(tier) {
			break
		}
		spec := m.Tiers[tier]
		l.Dirs = append(l.Dirs, spec.Dirs...)
		l.Files = append(l.Files, spec.Files...)
		l.Requirements = append(l.Requirements, spec.Requirements...)
	}
	return l, nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

package project

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest()
	require.NoError(t, err)
	require.Len(t, m.Tiers, 3)

	for i, tier := range Tiers() {
		assert.Equal(t, tier.String(), m.Tiers[i].Name)
		assert.NotEmpty(t, m.Tiers[i].Summary)
	}
}

func TestManifest_LayoutAccumulates(t *testing.T) {
	m, err := LoadManifest()
	require.NoError(t, err)

	small, err := m.Layout(Small)
	require.NoError(t, err)
	middle, err := m.Layout(Middle)
	require.NoError(t, err)
	pro, err := m.Layout(Pro)
	require.NoError(t, err)

	assert.Len(t, small.Requirements, 4)
	assert.Len(t, middle.Requirements, 7)
	assert.Len(t, pro.Requirements, 9)

	assert.Subset(t, middle.Files, small.Files)
	assert.Subset(t, pro.Files, middle.Files)
	assert.Subset(t, middle.Dirs, small.Dirs)
	assert.Subset(t, pro.Dirs, middle.Dirs)
	assert.Subset(t, pro.Requirements, middle.Requirements)
}

func TestManifest_SpecInvalidTier(t *testing.T) {
	m, err := LoadManifest()
	require.NoError(t, err)

	_, err = m.Spec(Tier(5))
	assert.ErrorIs(t, err, ErrInvalidTier)

	_, err = m.Layout(Tier(-1))
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func validFS() fstest.MapFS {
	return fstest.MapFS{
		"manifest.yml": {Data: []byte(`
tiers:
  - name: small
    files:
      - path: bot.py
        template: bot.tmpl
  - name: middle
  - name: pro
`)},
		"bot.tmpl": {Data: []byte("# {{ .Name }}\n")},
	}
}

func TestParseManifest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		errMsg   string
	}{
		{"bad yaml", "tiers: [", "parsing manifest.yml"},
		{"missing tier", "tiers:\n  - name: small\n  - name: middle\n", "expected 3 tiers"},
		{"wrong order", "tiers:\n  - name: middle\n  - name: small\n  - name: pro\n", `expected "small"`},
		{"missing template", "tiers:\n  - name: small\n    files:\n      - path: a.py\n        template: nope.tmpl\n  - name: middle\n  - name: pro\n", "nope.tmpl"},
		{"duplicate file", "tiers:\n  - name: small\n    files:\n      - path: a.py\n  - name: middle\n    files:\n      - path: a.py\n  - name: pro\n", "already declared"},
		{"escaping path", "tiers:\n  - name: small\n    dirs: [../x]\n  - name: middle\n  - name: pro\n", "clean relative path"},
		{"absolute path", "tiers:\n  - name: small\n    dirs: [/etc]\n  - name: middle\n  - name: pro\n", "clean relative path"},
		{"escaping file", "tiers:\n  - name: small\n    files:\n      - path: ../outside.py\n  - name: middle\n  - name: pro\n", "clean relative path"},
		{"unclean path", "tiers:\n  - name: small\n    dirs: [a/../b]\n  - name: middle\n  - name: pro\n", "clean relative path"},
		{"empty path", "tiers:\n  - name: small\n    files:\n      - path: \"\"\n  - name: middle\n  - name: pro\n", "clean relative path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := validFS()
			fsys["manifest.yml"] = &fstest.MapFile{Data: []byte(tt.manifest)}

			_, err := ParseManifest(fsys)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseManifest_Missing(t *testing.T) {
	_, err := ParseManifest(fstest.MapFS{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading manifest.yml")
}

func TestParseManifest_Valid(t *testing.T) {
	m, err := ParseManifest(validFS())
	require.NoError(t, err)

	l, err := m.Layout(Pro)
	require.NoError(t, err)
	assert.Equal(t, []FileSpec{{Path: "bot.py", Template: "bot.tmpl"}}, l.Files)
}

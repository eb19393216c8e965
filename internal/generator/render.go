package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultCacheSize bounds the number of parsed templates kept in memory.
const defaultCacheSize = 128

// Renderer parses and executes text/templates, caching parsed templates.
// It is safe for concurrent use.
type Renderer struct {
	funcMap template.FuncMap
	cache   *lru.Cache[string, *template.Template]
}

// NewRenderer creates a renderer with the built-in helper functions.
func NewRenderer() *Renderer {
	cache, err := lru.New[string, *template.Template](defaultCacheSize)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   cache,
	}
}

// RenderFS renders a template read from fsys (typically an embed.FS).
func (r *Renderer) RenderFS(fsys fs.FS, path string, data any) ([]byte, error) {
	tmpl, err := r.load(path, func() (string, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return "", fmt.Errorf("failed to read template '%s': %w", path, err)
		}
		return string(b), nil
	})
	if err != nil {
		return nil, err
	}
	return r.executeTemplate(tmpl, data)
}

func (r *Renderer) load(name string, source func() (string, error)) (*template.Template, error) {
	if tmpl, ok := r.cache.Get(name); ok {
		return tmpl, nil
	}

	text, err := source()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	r.cache.Add(name, tmpl)
	return tmpl, nil
}

func (r *Renderer) executeTemplate(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"title": Title,
		"quote": Quote,
		"join":  strings.Join,
	}
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Title capitalizes the first letter of each word and lowercases the rest.
func Title(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
	}
	return strings.Join(words, " ")
}

package textmate

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed grammars/*.yaml
var builtinFS embed.FS

// Registry holds grammars by name and answers file-path lookups. Build it
// once at startup; lookups never modify it.
type Registry struct {
	grammars []*Grammar
	byName   map[string]*Grammar
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Grammar)}
}

// LoadBuiltin returns a registry with the embedded grammars.
func LoadBuiltin() (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadFS(builtinFS, "grammars"); err != nil {
		return nil, err
	}
	return r, nil
}

// Add registers a grammar. A later grammar with the same name replaces the
// earlier one and takes precedence in file lookups.
func (r *Registry) Add(g *Grammar) {
	if old, ok := r.byName[strings.ToLower(g.Name)]; ok {
		for i, existing := range r.grammars {
			if existing == old {
				r.grammars = append(r.grammars[:i], r.grammars[i+1:]...)
				break
			}
		}
	}
	r.byName[strings.ToLower(g.Name)] = g
	r.grammars = append(r.grammars, g)
}

// LoadFS parses every .yaml or .yml file in dir of fsys.
func (r *Registry) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("textmate: read %s: %w", dir, err)
	}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, dir+"/"+e.Name())
		if err != nil {
			return fmt.Errorf("textmate: read %s: %w", e.Name(), err)
		}
		g, err := Parse(data)
		if err != nil {
			return fmt.Errorf("textmate: %s: %w", e.Name(), err)
		}
		r.Add(g)
	}
	return nil
}

// LoadDir parses user grammars from a directory on disk.
func (r *Registry) LoadDir(dir string) error {
	return r.LoadFS(os.DirFS(dir), ".")
}

// Get returns a grammar by name, case-insensitively.
func (r *Registry) Get(name string) (*Grammar, bool) {
	g, ok := r.byName[strings.ToLower(name)]
	return g, ok
}

// ForPath finds the grammar for a file by its base name, then its extension.
func (r *Registry) ForPath(path string) (*Grammar, bool) {
	base := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	for i := len(r.grammars) - 1; i >= 0; i-- {
		if r.grammars[i].Handles(base) {
			return r.grammars[i], true
		}
	}
	if ext == "" {
		return nil, false
	}
	for i := len(r.grammars) - 1; i >= 0; i-- {
		if r.grammars[i].Handles(ext) {
			return r.grammars[i], true
		}
	}
	return nil, false
}

// Names returns the registered grammar names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.grammars))
	for _, g := range r.grammars {
		names = append(names, g.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered grammars.
func (r *Registry) Len() int {
	return len(r.grammars)
}

// Package projects maps project names to filesystem roots and enumerates
// the files under a root.
//
// Information Hiding:
// - Catalog backing (YAML file, SQLite registry) hidden behind Catalog
// - Walk rules for file discovery (hidden directories skipped)
package projects

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a catalog has no project with the given name.
var ErrNotFound = errors.New("project not found")

// Project is a named project root.
type Project struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// Catalog looks up project roots by name.
type Catalog interface {
	// Root returns the filesystem root for name, or an error wrapping ErrNotFound.
	Root(ctx context.Context, name string) (string, error)

	// List returns every known project ordered by name.
	List(ctx context.Context) ([]Project, error)
}

// StaticCatalog is an in-memory catalog, typically loaded from YAML.
type StaticCatalog struct {
	projects map[string]string
}

// NewStaticCatalog creates a catalog from projects. A later entry with the
// same name replaces an earlier one.
func NewStaticCatalog(projects ...Project) *StaticCatalog {
	c := &StaticCatalog{projects: make(map[string]string, len(projects))}
	for _, p := range projects {
		c.projects[p.Name] = p.Path
	}
	return c
}

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Projects []Project `yaml:"projects"`
}

// LoadCatalogFile reads a YAML catalog of the form
//
//	projects:
//	  - name: demo
//	    path: /work/demo
//
// Relative paths are resolved against the directory holding the file.
func LoadCatalogFile(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse project catalog %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, p := range file.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("project catalog %s: entry %d has no name", path, i)
		}
		if strings.TrimSpace(p.Path) == "" {
			return nil, fmt.Errorf("project catalog %s: project %q has no path", path, p.Name)
		}
		if !filepath.IsAbs(p.Path) {
			file.Projects[i].Path = filepath.Join(base, p.Path)
		}
	}

	return NewStaticCatalog(file.Projects...), nil
}

// Root returns the root registered for name.
func (c *StaticCatalog) Root(_ context.Context, name string) (string, error) {
	root, ok := c.projects[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return root, nil
}

// List returns the projects ordered by name.
func (c *StaticCatalog) List(_ context.Context) ([]Project, error) {
	projects := make([]Project, 0, len(c.projects))
	for name, path := range c.projects {
		projects = append(projects, Project{Name: name, Path: path})
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// Verify StaticCatalog implements Catalog
var _ Catalog = (*StaticCatalog)(nil)

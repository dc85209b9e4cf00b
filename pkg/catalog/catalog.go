// Package catalog holds the immutable mapping from city names to the CSV
// sources that back them.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one city as written in a catalog file.
type Entry struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

type file struct {
	Cities []Entry `yaml:"cities"`
}

// Catalog maps lowercase city names to source locations (file paths or
// http(s) URLs). It is never modified after construction.
type Catalog struct {
	order   []string
	sources map[string]string
}

// DefaultEntries is the built-in city table.
func DefaultEntries() []Entry {
	return []Entry{
		{Name: "chicago", Source: "chicago.csv"},
		{Name: "new york", Source: "new_york_city.csv"},
		{Name: "washington", Source: "washington.csv"},
	}
}

// Default returns the built-in catalog with sources under dataDir.
func Default(dataDir string) *Catalog {
	c, err := New(DefaultEntries(), dataDir)
	if err != nil {
		// built-in entries are valid
		panic(err)
	}
	return c
}

// New validates entries and builds a catalog. Relative file sources are
// resolved against dataDir; URLs and absolute paths are kept as given.
func New(entries []Entry, dataDir string) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.New("catalog must list at least one city")
	}

	c := &Catalog{sources: make(map[string]string, len(entries))}
	for i, e := range entries {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" {
			return nil, fmt.Errorf("catalog entry %d: city name is required", i)
		}
		if strings.TrimSpace(e.Source) == "" {
			return nil, fmt.Errorf("catalog entry %q: source is required", name)
		}
		if _, dup := c.sources[name]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate city", name)
		}
		c.order = append(c.order, name)
		c.sources[name] = resolveSource(strings.TrimSpace(e.Source), dataDir)
	}
	return c, nil
}

// Load reads a YAML catalog file:
//
//	cities:
//	  - name: chicago
//	    source: chicago.csv
func Load(path, dataDir string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	return New(f.Cities, dataDir)
}

// Source returns the location backing city.
func (c *Catalog) Source(city string) (string, bool) {
	src, ok := c.sources[strings.ToLower(strings.TrimSpace(city))]
	return src, ok
}

// Cities returns the city names in catalog order.
func (c *Catalog) Cities() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Contains reports whether city is in the catalog.
func (c *Catalog) Contains(city string) bool {
	_, ok := c.Source(city)
	return ok
}

// IsURL reports whether a source location is fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func resolveSource(source, dataDir string) string {
	if IsURL(source) || filepath.IsAbs(source) || dataDir == "" {
		return source
	}
	return filepath.Join(dataDir, source)
}

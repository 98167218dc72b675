package content

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the full content set as stored on disk.
type Catalog struct {
	About        About         `yaml:"about"`
	Projects     []Project     `yaml:"projects"`
	Achievements []Achievement `yaml:"achievements"`
}

// Validate checks ids are unique and every record is well formed.
func (c *Catalog) Validate() error {
	seen := make(map[int]bool, len(c.Projects))
	for _, p := range c.Projects {
		if err := validateProject(p); err != nil {
			return err
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate project id %d: %w", p.ID, ErrInvalidCatalog)
		}
		seen[p.ID] = true
	}
	clear(seen)
	for _, a := range c.Achievements {
		if err := validateAchievement(a); err != nil {
			return err
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate achievement id %d: %w", a.ID, ErrInvalidCatalog)
		}
		seen[a.ID] = true
	}
	return nil
}

// Static is a read-only Provider over an in-memory Catalog.
type Static struct {
	catalog Catalog
}

var _ Provider = (*Static)(nil)

// Default returns the embedded catalog.
func Default() (*Static, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Load reads a catalog from r.
func Load(r io.Reader) (*Static, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog. Unknown keys are rejected.
func Parse(data []byte) (*Static, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %v: %w", err, ErrInvalidCatalog)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Static{catalog: c}, nil
}

// Catalog returns a copy of the underlying records.
func (s *Static) Catalog() Catalog {
	return Catalog{
		About:        s.catalog.About,
		Projects:     slices.Clone(s.catalog.Projects),
		Achievements: slices.Clone(s.catalog.Achievements),
	}
}

func (s *Static) About(context.Context) (About, error) {
	return s.catalog.About, nil
}

func (s *Static) Projects(context.Context) ([]Project, error) {
	return slices.Clone(s.catalog.Projects), nil
}

func (s *Static) Project(_ context.Context, id int) (Project, error) {
	i := slices.IndexFunc(s.catalog.Projects, func(p Project) bool { return p.ID == id })
	if i < 0 {
		return Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return s.catalog.Projects[i], nil
}

func (s *Static) Achievements(_ context.Context, category Category) ([]Achievement, error) {
	var out []Achievement
	for _, a := range s.catalog.Achievements {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Static) Achievement(_ context.Context, id int) (Achievement, error) {
	i := slices.IndexFunc(s.catalog.Achievements, func(a Achievement) bool { return a.ID == id })
	if i < 0 {
		return Achievement{}, fmt.Errorf("achievement %d: %w", id, ErrNotFound)
	}
	return s.catalog.Achievements[i], nil
}

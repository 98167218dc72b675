// Package content holds the portfolio's catalog: the biography, projects
// and achievements the page sections render.
package content

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidCatalog  = errors.New("invalid catalog")
)

// Category groups achievements under the tabs of the achievements section.
type Category string

const (
	Certificate Category = "certificate"
	Academic    Category = "academic"
	Scholarship Category = "scholarship"
	Result      Category = "result"
	Event       Category = "event"
)

// Categories in tab order.
var Categories = []Category{Certificate, Academic, Scholarship, Result, Event}

// Label is the tab caption.
func (c Category) Label() string {
	switch c {
	case Certificate:
		return "Certificates"
	case Academic:
		return "Academic"
	case Scholarship:
		return "Scholarships"
	case Result:
		return "Results"
	case Event:
		return "Events"
	}
	return string(c)
}

// ParseCategory maps a tab name to a Category. The empty string selects the
// first tab.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return Certificate, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownCategory)
}

type Skill struct {
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
}

type Social struct {
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
	Link string `json:"link" yaml:"link"`
}

// About is the hero and about section copy.
type About struct {
	Name    string   `json:"name" yaml:"name"`
	Tagline string   `json:"tagline" yaml:"tagline"`
	Bio     string   `json:"bio" yaml:"bio"`
	Skills  []Skill  `json:"skills" yaml:"skills"`
	Socials []Social `json:"socials" yaml:"socials"`
}

type Project struct {
	ID              int      `json:"id" yaml:"id"`
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description" yaml:"description"`
	FullDescription string   `json:"fullDescription,omitempty" yaml:"full_description"`
	Image           string   `json:"image" yaml:"image"`
	Tags            []string `json:"tags" yaml:"tags"`
	Likes           int      `json:"likes" yaml:"likes"`
}

type Achievement struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Date        string   `json:"date" yaml:"date"`
	Category    Category `json:"category" yaml:"category"`
	Image       string   `json:"image,omitempty" yaml:"image"`
	Likes       int      `json:"likes" yaml:"likes"`
}

// HasCertificate reports whether the achievement opens the certificate
// viewer.
func (a Achievement) HasCertificate() bool {
	return a.Category == Certificate && a.Image != ""
}

// Provider serves catalog records in display order.
type Provider interface {
	About(ctx context.Context) (About, error)
	Projects(ctx context.Context) ([]Project, error)
	Project(ctx context.Context, id int) (Project, error)
	Achievements(ctx context.Context, category Category) ([]Achievement, error)
	Achievement(ctx context.Context, id int) (Achievement, error)
}

func validateProject(p Project) error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("project %q: id must be positive: %w", p.Title, ErrInvalidCatalog)
	case p.Title == "":
		return fmt.Errorf("project %d: missing title: %w", p.ID, ErrInvalidCatalog)
	case p.Likes < 0:
		return fmt.Errorf("project %d: negative likes: %w", p.ID, ErrInvalidCatalog)
	}
	return nil
}

func validateAchievement(a Achievement) error {
	switch {
	case a.ID <= 0:
		return fmt.Errorf("achievement %q: id must be positive: %w", a.Title, ErrInvalidCatalog)
	case a.Title == "":
		return fmt.Errorf("achievement %d: missing title: %w", a.ID, ErrInvalidCatalog)
	case a.Likes < 0:
		return fmt.Errorf("achievement %d: negative likes: %w", a.ID, ErrInvalidCatalog)
	}
	if _, err := ParseCategory(string(a.Category)); err != nil || a.Category == "" {
		return fmt.Errorf("achievement %d: category %q: %w", a.ID, a.Category, ErrInvalidCatalog)
	}
	return nil
}

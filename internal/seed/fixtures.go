package seed

import (
	"fmt"
	"os"

	"quill/internal/models"
	"quill/internal/validation"

	"gopkg.in/yaml.v3"
)

type groupFixture struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// LoadGroups reads group definitions from a YAML fixture file, for deployments
// that want their own categories instead of the built-in presets.
//
// Expected layout:
//
//	groups:
//	  - title: Technology
//	    slug: technology
//	    description: Hardware and software.
func LoadGroups(path string) ([]models.Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read group fixtures: %w", err)
	}

	var doc struct {
		Groups []groupFixture `yaml:"groups"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse group fixtures: %w", err)
	}
	if len(doc.Groups) == 0 {
		return nil, fmt.Errorf("group fixtures %s define no groups", path)
	}

	groups := make([]models.Group, 0, len(doc.Groups))
	for _, fixture := range doc.Groups {
		if fixture.Title == "" {
			return nil, fmt.Errorf("group fixture with slug %q has no title", fixture.Slug)
		}
		if err := validation.ValidateGroupSlug(fixture.Slug); err != nil {
			return nil, fmt.Errorf("group fixture %q: %w", fixture.Title, err)
		}
		groups = append(groups, models.Group{
			Title:       fixture.Title,
			Slug:        fixture.Slug,
			Description: fixture.Description,
		})
	}
	return groups, nil
}

package config

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// TagConfig is one entry of the tag registry.
type TagConfig struct {
	Label string `yaml:"label" json:"label"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Registries holds the externally managed tag and category lookup tables.
// The board reads them but never changes them.
type Registries struct {
	Tags       []TagConfig `yaml:"tags" json:"tags"`
	Categories []string    `yaml:"categories" json:"categories"`
}

// NewDefaultRegistries returns the registries written by `cutboard init`.
func NewDefaultRegistries() *Registries {
	return &Registries{
		Tags:       append([]TagConfig{}, DefaultTags...),
		Categories: append([]string{}, DefaultCategories...),
	}
}

// LoadRegistries reads a registries file. A missing file yields the defaults.
func LoadRegistries(path string) (*Registries, error) {
	data, err := os.ReadFile(path) //nolint:gosec // registries path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefaultRegistries(), nil
		}
		return nil, fmt.Errorf("reading registries: %w", err)
	}

	var r Registries
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing registries: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Save writes the registries to path.
func (r *Registries) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling registries: %w", err)
	}
	return os.WriteFile(path, data, fileMode)
}

// Validate checks the registries for errors.
func (r *Registries) Validate() error {
	if len(r.Tags) == 0 {
		return fmt.Errorf("%w: registries: at least 1 tag is required", ErrInvalid)
	}
	labels := r.TagLabels()
	for _, l := range labels {
		if l == "" {
			return fmt.Errorf("%w: registries: tag label is required", ErrInvalid)
		}
	}
	if hasDuplicates(labels) {
		return fmt.Errorf("%w: registries: tags contain duplicates", ErrInvalid)
	}
	return nil
}

// TagLabels returns the tag labels in registry order.
func (r *Registries) TagLabels() []string {
	labels := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		labels[i] = t.Label
	}
	return labels
}

// Tag returns the tag entry with the given label.
func (r *Registries) Tag(label string) (TagConfig, bool) {
	for _, t := range r.Tags {
		if t.Label == label {
			return t, true
		}
	}
	return TagConfig{}, false
}

// TagForCategory picks the tag whose label equals the upper-cased category,
// falling back to the first registered tag.
func (r *Registries) TagForCategory(category string) string {
	if t, ok := r.Tag(strings.ToUpper(strings.TrimSpace(category))); ok {
		return t.Label
	}
	if len(r.Tags) == 0 {
		return ""
	}
	return r.Tags[0].Label
}

// HasCategory reports whether category is registered (case-insensitive).
func (r *Registries) HasCategory(category string) bool {
	for _, c := range r.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

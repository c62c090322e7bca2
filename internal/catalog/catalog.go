// Package catalog holds the static table of hosted models and their pricing.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/j-veylop/uranus/internal/models"
)

//go:embed models.yaml
var defaultModels []byte

// DefaultModelID is used by the URL and OCR flows when no model is given.
const DefaultModelID = "gemini-2.5-pro"

// Catalog maps model ids to descriptors. It is immutable after construction.
type Catalog struct {
	models []models.ModelDescriptor
	byID   map[string]models.ModelDescriptor
}

type catalogFile struct {
	Models []models.ModelDescriptor `yaml:"models"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog built from the embedded model table.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultModels)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded model table is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse builds a catalog from a YAML model table.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse model table: %w", err)
	}
	return New(file.Models)
}

// New builds a catalog from descriptors, preserving their order.
func New(descriptors []models.ModelDescriptor) (*Catalog, error) {
	c := &Catalog{
		models: make([]models.ModelDescriptor, 0, len(descriptors)),
		byID:   make(map[string]models.ModelDescriptor, len(descriptors)),
	}

	for _, d := range descriptors {
		if d.ID == "" {
			return nil, fmt.Errorf("model %q has an empty id", d.Label)
		}
		if _, exists := c.byID[d.ID]; exists {
			return nil, fmt.Errorf("duplicate model id %q", d.ID)
		}
		if !d.Type.Valid() {
			return nil, fmt.Errorf("model %q has unknown type %q", d.ID, d.Type)
		}
		if d.InputCostPerMillion < 0 || d.OutputCostPerMillion < 0 {
			return nil, fmt.Errorf("model %q has a negative price", d.ID)
		}
		if d.Label == "" {
			d.Label = d.ID
		}
		c.models = append(c.models, d)
		c.byID[d.ID] = d
	}

	return c, nil
}

// Lookup returns the descriptor for id. A missing id is a normal outcome.
func (c *Catalog) Lookup(id string) (models.ModelDescriptor, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// All returns a copy of every descriptor in table order.
func (c *Catalog) All() []models.ModelDescriptor {
	out := make([]models.ModelDescriptor, len(c.models))
	copy(out, c.models)
	return out
}

// IDs returns every model id in table order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.models))
	for i, d := range c.models {
		ids[i] = d.ID
	}
	return ids
}

// Len returns the number of models.
func (c *Catalog) Len() int {
	return len(c.models)
}

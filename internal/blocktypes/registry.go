// Package blocktypes serves the block type-picker catalog: the label,
// description and search keywords for every block type, grouped by
// display category, loaded from an embedded YAML file.
package blocktypes

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"crok/internal/domain/models"
)

//go:embed config/blocks.yaml
var configFiles embed.FS

// Registry holds the immutable block-type catalog.
type Registry struct {
	categories []Category
	byType     map[models.BlockType]BlockInfo
}

// NewRegistry loads the embedded catalog and checks it covers every
// block type exactly once.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/blocks.yaml")
	if err != nil {
		return nil, fmt.Errorf("read block catalog: %w", err)
	}

	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal block catalog: %w", err)
	}

	r := &Registry{
		categories: c.Categories,
		byType:     make(map[models.BlockType]BlockInfo),
	}
	for _, cat := range c.Categories {
		for _, info := range cat.Blocks {
			if !info.Type.Valid() {
				return nil, fmt.Errorf("block catalog lists unknown type %q", info.Type)
			}
			if _, dup := r.byType[info.Type]; dup {
				return nil, fmt.Errorf("block catalog lists type %q twice", info.Type)
			}
			r.byType[info.Type] = info
		}
	}
	for _, t := range models.AllBlockTypes {
		if _, ok := r.byType[t]; !ok {
			return nil, fmt.Errorf("block catalog missing type %q", t)
		}
	}
	return r, nil
}

// Categories returns the full catalog in display order.
func (r *Registry) Categories() []Category {
	return r.categories
}

// Lookup returns the catalog entry for a block type.
func (r *Registry) Lookup(t models.BlockType) (BlockInfo, bool) {
	info, ok := r.byType[t]
	return info, ok
}

// Search filters the catalog the way the type-picker menu does: a
// case-insensitive match against label, description or any keyword.
// Categories left with no entries are dropped. An empty query returns
// the full catalog.
func (r *Registry) Search(query string) []Category {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return r.categories
	}

	var out []Category
	for _, cat := range r.categories {
		var kept []BlockInfo
		for _, info := range cat.Blocks {
			if matches(info, query) {
				kept = append(kept, info)
			}
		}
		if len(kept) > 0 {
			out = append(out, Category{Name: cat.Name, Blocks: kept})
		}
	}
	return out
}

func matches(info BlockInfo, query string) bool {
	if strings.Contains(strings.ToLower(info.Label), query) {
		return true
	}
	if strings.Contains(strings.ToLower(info.Description), query) {
		return true
	}
	for _, kw := range info.Keywords {
		if strings.Contains(kw, query) {
			return true
		}
	}
	return false
}

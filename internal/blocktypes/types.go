package blocktypes

import "crok/internal/domain/models"

// BlockInfo describes one entry of the type-picker catalog.
type BlockInfo struct {
	Type        models.BlockType `yaml:"type" json:"type"`
	Label       string           `yaml:"label" json:"label"`
	Description string           `yaml:"description" json:"description"`
	Keywords    []string         `yaml:"keywords" json:"keywords"`
}

// Category groups catalog entries under a display heading.
type Category struct {
	Name   string      `yaml:"name" json:"name"`
	Blocks []BlockInfo `yaml:"blocks" json:"blocks"`
}

// catalog is the root of the embedded YAML file.
type catalog struct {
	Categories []Category `yaml:"categories"`
}

package service

import (
	"strings"

	"crok/internal/domain/models"
	"crok/internal/service/editor"
)

// The save projection translates a fully-edited in-memory document into
// what actually persists. It runs on create and on any update that
// carries the affected field; editing state (an empty title mid-rename,
// placeholder blocks) is never persisted as-is.

// NormalizeTitle substitutes the default title for an empty or
// whitespace-only one.
func NormalizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return models.DefaultTitle
	}
	return title
}

// NormalizeIcon substitutes the default glyph for an empty icon.
func NormalizeIcon(icon string) string {
	if icon == "" {
		return models.DefaultIcon
	}
	return icon
}

// ProjectBlocks drops blocks that carry no meaning at rest: anything
// with empty content except dividers, images and tables, which are
// meaningful without text. The survivors are renumbered. A never
// typed-into document projects to zero blocks.
func ProjectBlocks(blocks []models.Block) []models.Block {
	kept := make([]models.Block, 0, len(blocks))
	for _, b := range blocks {
		switch {
		case b.Content != "":
			kept = append(kept, b)
		case b.Type == models.BlockTypeDivider, b.Type == models.BlockTypeImage, b.Type == models.BlockTypeTable:
			kept = append(kept, b)
		}
	}
	return editor.Renumber(kept)
}

// NormalizeTags trims each tag, drops empties and exact duplicates, and
// preserves first-occurrence order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

package models

import (
	"time"
)

// DefaultIcon is the glyph a document shows until its owner picks one.
const DefaultIcon = "📄"

// DefaultTitle is substituted for an empty title at save time.
const DefaultTitle = "Untitled"

// Document is an ordered collection of blocks plus metadata and
// sharing state.
type Document struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Icon         string    `json:"icon"`
	CoverImage   string    `json:"cover_image,omitempty"`
	Blocks       []Block   `json:"blocks"`
	IsPublic     bool      `json:"is_public"`
	IsFavorite   bool      `json:"is_favorite"`
	Tags         []string  `json:"tags"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	LastEditedAt time.Time `json:"last_edited_at"`
	ParentID     *string   `json:"parent_id,omitempty"`
}

// DocumentPatch is a partial document update. Nil fields are left
// untouched. Blocks and Tags use pointer-to-slice so that "absent"
// (leave child rows alone) stays distinct from "present but empty"
// (delete all child rows).
type DocumentPatch struct {
	Title      *string   `json:"title,omitempty"`
	Icon       *string   `json:"icon,omitempty"`
	CoverImage *string   `json:"cover_image,omitempty"`
	IsPublic   *bool     `json:"is_public,omitempty"`
	IsFavorite *bool     `json:"is_favorite,omitempty"`
	ParentID   *string   `json:"parent_id,omitempty"`
	Blocks     *[]Block  `json:"blocks,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
}

// Empty reports whether the patch changes nothing. The repository still
// refreshes last_edited_at for an empty patch.
func (p *DocumentPatch) Empty() bool {
	return p.Title == nil && p.Icon == nil && p.CoverImage == nil &&
		p.IsPublic == nil && p.IsFavorite == nil && p.ParentID == nil &&
		p.Blocks == nil && p.Tags == nil
}

package postgres

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"crok/internal/domain/models"
)

// Row shapes mirror the relational schema. The in-memory document model
// converts to and from these losslessly; block properties travel as an
// opaque JSONB blob decoded by block type on the way back in.

type documentRow struct {
	ID           string
	Title        string
	Icon         string
	CoverImage   string
	IsPublic     bool
	IsFavorite   bool
	CreatedBy    string
	CreatedAt    time.Time
	LastEditedAt time.Time
	ParentID     *string
}

type blockRow struct {
	ID         string
	DocumentID string
	Type       string
	Content    string
	Properties []byte
	BlockOrder int
}

type tagRow struct {
	ID         string
	DocumentID string
	Tag        string
}

// documentToRow projects a document's scalar fields onto its row.
func documentToRow(doc *models.Document) documentRow {
	return documentRow{
		ID:           doc.ID,
		Title:        doc.Title,
		Icon:         doc.Icon,
		CoverImage:   doc.CoverImage,
		IsPublic:     doc.IsPublic,
		IsFavorite:   doc.IsFavorite,
		CreatedBy:    doc.CreatedBy,
		CreatedAt:    doc.CreatedAt,
		LastEditedAt: doc.LastEditedAt,
		ParentID:     doc.ParentID,
	}
}

// blocksToRows converts a document's block sequence to rows. block_order
// is the array index, which by construction always agrees with each
// block's own Order field.
func blocksToRows(docID string, blocks []models.Block) ([]blockRow, error) {
	rows := make([]blockRow, 0, len(blocks))
	for i, b := range blocks {
		props, err := models.EncodeProperties(b.Properties)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", b.ID, err)
		}
		if props == nil {
			props = json.RawMessage("{}")
		}
		rows = append(rows, blockRow{
			ID:         b.ID,
			DocumentID: docID,
			Type:       string(b.Type),
			Content:    b.Content,
			Properties: props,
			BlockOrder: i,
		})
	}
	return rows, nil
}

// blocksFromRows converts block rows back to the in-memory sequence.
// Rows are sorted by block_order ascending and each block's Order is
// re-derived from its final position, so array position and Order can
// never disagree after a load.
func blocksFromRows(rows []blockRow) ([]models.Block, error) {
	sorted := make([]blockRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BlockOrder < sorted[j].BlockOrder
	})

	blocks := make([]models.Block, 0, len(sorted))
	for i, r := range sorted {
		props, err := models.DecodeProperties(models.BlockType(r.Type), r.Properties)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", r.ID, err)
		}
		blocks = append(blocks, models.Block{
			ID:         r.ID,
			Type:       models.BlockType(r.Type),
			Content:    r.Content,
			Properties: props,
			Order:      i,
		})
	}
	return blocks, nil
}

// tagsToRows converts a document's tag set to rows.
func tagsToRows(docID string, tags []string) []tagRow {
	rows := make([]tagRow, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, tagRow{DocumentID: docID, Tag: t})
	}
	return rows
}

// tagsFromRows extracts the tag values from tag rows.
func tagsFromRows(rows []tagRow) []string {
	tags := make([]string, 0, len(rows))
	for _, r := range rows {
		tags = append(tags, r.Tag)
	}
	return tags
}

// documentFromRows assembles the in-memory document from its three row
// sets.
func documentFromRows(doc documentRow, blocks []blockRow, tags []tagRow) (*models.Document, error) {
	assembled, err := blocksFromRows(blocks)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}
	return &models.Document{
		ID:           doc.ID,
		Title:        doc.Title,
		Icon:         doc.Icon,
		CoverImage:   doc.CoverImage,
		Blocks:       assembled,
		IsPublic:     doc.IsPublic,
		IsFavorite:   doc.IsFavorite,
		Tags:         tagsFromRows(tags),
		CreatedBy:    doc.CreatedBy,
		CreatedAt:    doc.CreatedAt,
		LastEditedAt: doc.LastEditedAt,
		ParentID:     doc.ParentID,
	}, nil
}

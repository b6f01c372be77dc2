package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"crok/internal/domain"
	"crok/internal/domain/models"
	"crok/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface.
// Multi-statement writes pick up the transaction from the context when
// the service layer opened one.
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ListAll retrieves every document with its blocks and tags, ordered by
// last_edited_at descending.
func (r *PostgresDocumentRepository) ListAll(ctx context.Context) ([]models.Document, error) {
	exec := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, title, icon, cover_image, is_public, is_favorite, created_by, created_at, last_edited_at, parent_id
		FROM %s
		ORDER BY last_edited_at DESC
	`, r.tables.Documents)

	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docRows []documentRow
	for rows.Next() {
		var d documentRow
		if err := rows.Scan(&d.ID, &d.Title, &d.Icon, &d.CoverImage, &d.IsPublic, &d.IsFavorite, &d.CreatedBy, &d.CreatedAt, &d.LastEditedAt, &d.ParentID); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docRows = append(docRows, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	documents := make([]models.Document, 0, len(docRows))
	for _, d := range docRows {
		doc, err := r.assemble(ctx, d)
		if err != nil {
			return nil, err
		}
		documents = append(documents, *doc)
	}
	return documents, nil
}

// GetByID retrieves a single document with its blocks and tags.
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	exec := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, title, icon, cover_image, is_public, is_favorite, created_by, created_at, last_edited_at, parent_id
		FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	var d documentRow
	err := exec.QueryRow(ctx, query, id).Scan(&d.ID, &d.Title, &d.Icon, &d.CoverImage, &d.IsPublic, &d.IsFavorite, &d.CreatedBy, &d.CreatedAt, &d.LastEditedAt, &d.ParentID)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return r.assemble(ctx, d)
}

// assemble attaches block and tag rows to a document row.
func (r *PostgresDocumentRepository) assemble(ctx context.Context, d documentRow) (*models.Document, error) {
	exec := GetExecutor(ctx, r.pool)

	blockQuery := fmt.Sprintf(`
		SELECT id, document_id, type, content, properties, block_order
		FROM %s
		WHERE document_id = $1
		ORDER BY block_order ASC
	`, r.tables.Blocks)

	rows, err := exec.Query(ctx, blockQuery, d.ID)
	if err != nil {
		return nil, fmt.Errorf("load blocks for %s: %w", d.ID, err)
	}
	defer rows.Close()

	var blockRows []blockRow
	for rows.Next() {
		var b blockRow
		if err := rows.Scan(&b.ID, &b.DocumentID, &b.Type, &b.Content, &b.Properties, &b.BlockOrder); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blockRows = append(blockRows, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}

	tagQuery := fmt.Sprintf(`
		SELECT id, document_id, tag
		FROM %s
		WHERE document_id = $1
	`, r.tables.Tags)

	tagRows, err := exec.Query(ctx, tagQuery, d.ID)
	if err != nil {
		return nil, fmt.Errorf("load tags for %s: %w", d.ID, err)
	}
	defer tagRows.Close()

	var tagList []tagRow
	for tagRows.Next() {
		var t tagRow
		if err := tagRows.Scan(&t.ID, &t.DocumentID, &t.Tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tagList = append(tagList, t)
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return documentFromRows(d, blockRows, tagList)
}

// Insert creates the document row plus its block and tag rows.
func (r *PostgresDocumentRepository) Insert(ctx context.Context, doc *models.Document) error {
	exec := GetExecutor(ctx, r.pool)
	row := documentToRow(doc)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, icon, cover_image, is_public, is_favorite, created_by, created_at, last_edited_at, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Documents)

	_, err := exec.Exec(ctx, query,
		row.ID, row.Title, row.Icon, row.CoverImage, row.IsPublic, row.IsFavorite,
		row.CreatedBy, row.CreatedAt, row.LastEditedAt, row.ParentID,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert document: %w", err)
	}

	if err := r.insertBlocks(ctx, doc.ID, doc.Blocks); err != nil {
		return err
	}
	return r.insertTags(ctx, doc.ID, doc.Tags)
}

// Update applies a partial patch. Scalar fields present in the patch go
// into the row update; last_edited_at is refreshed unconditionally.
// A blocks or tags slice in the patch replaces the child rows wholesale.
func (r *PostgresDocumentRepository) Update(ctx context.Context, id string, patch *models.DocumentPatch, editedAt time.Time) error {
	exec := GetExecutor(ctx, r.pool)

	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Icon != nil {
		set("icon", *patch.Icon)
	}
	if patch.CoverImage != nil {
		set("cover_image", *patch.CoverImage)
	}
	if patch.IsPublic != nil {
		set("is_public", *patch.IsPublic)
	}
	if patch.IsFavorite != nil {
		set("is_favorite", *patch.IsFavorite)
	}
	if patch.ParentID != nil {
		set("parent_id", *patch.ParentID)
	}
	set("last_edited_at", editedAt)

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		r.tables.Documents, strings.Join(sets, ", "), len(args))

	result, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	if patch.Blocks != nil {
		if err := r.replaceBlocks(ctx, id, *patch.Blocks); err != nil {
			return err
		}
	}
	if patch.Tags != nil {
		if err := r.replaceTags(ctx, id, *patch.Tags); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the document row. Block and tag rows go with it via
// the store's ON DELETE CASCADE rules.
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// replaceBlocks deletes and reinserts all block rows for a document.
// No diffing: the new set wins wholesale.
func (r *PostgresDocumentRepository) replaceBlocks(ctx context.Context, docID string, blocks []models.Block) error {
	exec := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.Blocks)
	if _, err := exec.Exec(ctx, query, docID); err != nil {
		return fmt.Errorf("delete blocks for %s: %w", docID, err)
	}
	return r.insertBlocks(ctx, docID, blocks)
}

func (r *PostgresDocumentRepository) insertBlocks(ctx context.Context, docID string, blocks []models.Block) error {
	if len(blocks) == 0 {
		return nil
	}
	exec := GetExecutor(ctx, r.pool)

	rows, err := blocksToRows(docID, blocks)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, type, content, properties, block_order)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Blocks)

	for _, b := range rows {
		if _, err := exec.Exec(ctx, query, b.ID, b.DocumentID, b.Type, b.Content, b.Properties, b.BlockOrder); err != nil {
			return fmt.Errorf("insert block %s: %w", b.ID, err)
		}
	}
	return nil
}

// replaceTags deletes and reinserts all tag rows for a document.
func (r *PostgresDocumentRepository) replaceTags(ctx context.Context, docID string, tags []string) error {
	exec := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.Tags)
	if _, err := exec.Exec(ctx, query, docID); err != nil {
		return fmt.Errorf("delete tags for %s: %w", docID, err)
	}
	return r.insertTags(ctx, docID, tags)
}

func (r *PostgresDocumentRepository) insertTags(ctx context.Context, docID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	exec := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, tag)
		VALUES ($1, $2, $3)
	`, r.tables.Tags)

	for _, row := range tagsToRows(docID, tags) {
		if _, err := exec.Exec(ctx, query, uuid.NewString(), row.DocumentID, row.Tag); err != nil {
			if isPgDuplicateError(err) {
				return fmt.Errorf("tag %q on document %s: %w", row.Tag, docID, domain.ErrConflict)
			}
			return fmt.Errorf("insert tag %q: %w", row.Tag, err)
		}
	}
	return nil
}

package repositories

import (
	"context"
	"time"

	"crok/internal/domain/models"
)

// DocumentRepository defines data access operations for documents and
// their block and tag child rows.
type DocumentRepository interface {
	// ListAll retrieves every document with its blocks and tags,
	// ordered by last_edited_at descending. Visibility filtering
	// happens in the service layer, not here.
	ListAll(ctx context.Context) ([]models.Document, error)

	// GetByID retrieves a single document with its blocks and tags.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// Insert creates the document row plus its block and tag rows.
	Insert(ctx context.Context, doc *models.Document) error

	// Update applies a partial patch to the document row and, when the
	// patch carries blocks or tags, replaces those child rows
	// wholesale. last_edited_at is set to editedAt unconditionally.
	Update(ctx context.Context, id string, patch *models.DocumentPatch, editedAt time.Time) error

	// Delete removes the document row; block and tag rows are removed
	// by the store's ON DELETE CASCADE rules.
	Delete(ctx context.Context, id string) error
}

package services

import (
	"context"

	"crok/internal/auth"
	"crok/internal/domain/models"
)

// SortOrder selects how a document listing is sorted.
type SortOrder string

const (
	SortRecent  SortOrder = "recent"  // last_edited_at descending (default)
	SortTitle   SortOrder = "title"   // title ascending
	SortCreated SortOrder = "created" // created_at descending
)

// VisibilityFilter narrows a document listing.
type VisibilityFilter string

const (
	FilterAll       VisibilityFilter = "all"
	FilterPublic    VisibilityFilter = "public"
	FilterPrivate   VisibilityFilter = "private" // viewer's own private documents
	FilterFavorites VisibilityFilter = "favorites"
)

// ListOptions control the listing returned by ListDocuments. The zero
// value means every document, most recently edited first.
type ListOptions struct {
	// Search matches case-insensitively against document titles and
	// block content.
	Search string
	Sort   SortOrder
	Filter VisibilityFilter
}

// CreateDocumentRequest carries the fields of a new document. ID and
// timestamps are assigned by the service; CreatedBy comes from the
// caller's session.
type CreateDocumentRequest struct {
	Title      string         `json:"title"`
	Icon       string         `json:"icon"`
	CoverImage string         `json:"cover_image"`
	Blocks     []models.Block `json:"blocks"`
	IsPublic   bool           `json:"is_public"`
	IsFavorite bool           `json:"is_favorite"`
	Tags       []string       `json:"tags"`
	ParentID   *string        `json:"parent_id"`
}

// DocumentService is the orchestration layer over the document
// repository: CRUD plus the edit-capability rule and list views.
type DocumentService interface {
	// ListDocuments returns all loaded documents filtered and sorted
	// per opts. Filtering is done on the loaded set, never in SQL.
	ListDocuments(ctx context.Context, sess *auth.Session, opts ListOptions) ([]models.Document, error)

	// GetDocument retrieves a single document.
	GetDocument(ctx context.Context, id string) (*models.Document, error)

	// CreateDocument applies the save projection to req and persists
	// the result. The whole write (document + blocks + tags) runs in
	// one transaction.
	CreateDocument(ctx context.Context, sess *auth.Session, req *CreateDocumentRequest) (*models.Document, error)

	// UpdateDocument applies the save projection to the patch and
	// persists it. Fails with domain.ErrForbidden unless the session
	// may edit the document.
	UpdateDocument(ctx context.Context, sess *auth.Session, id string, patch *models.DocumentPatch) (*models.Document, error)

	// DeleteDocument removes a document. Owner only.
	DeleteDocument(ctx context.Context, sess *auth.Session, id string) error

	// CanEdit reports whether the session may edit doc: an
	// authenticated session is required, and the document must be
	// public or owned by the session's user.
	CanEdit(sess *auth.Session, doc *models.Document) bool
}

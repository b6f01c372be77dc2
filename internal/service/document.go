package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"crok/internal/auth"
	"crok/internal/domain"
	"crok/internal/domain/models"
	"crok/internal/domain/repositories"
	"crok/internal/domain/services"
)

// documentService implements the DocumentService interface.
type documentService struct {
	docRepo   repositories.DocumentRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:   docRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// ListDocuments returns the loaded document set filtered and sorted per
// opts. A load failure leaves nothing half-applied: the error aborts
// the whole listing.
func (s *documentService) ListDocuments(ctx context.Context, sess *auth.Session, opts services.ListOptions) ([]models.Document, error) {
	docs, err := s.docRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("document load failed", "error", err)
		return nil, err
	}

	filtered := filterDocuments(docs, sess, opts)
	sortDocuments(filtered, opts.Sort)
	return filtered, nil
}

// GetDocument retrieves a single document.
func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

// CreateDocument applies the save projection and persists the new
// document. Document row, block rows and tag rows are written in one
// transaction.
func (s *documentService) CreateDocument(ctx context.Context, sess *auth.Session, req *services.CreateDocumentRequest) (*models.Document, error) {
	if !sess.Authenticated() {
		return nil, fmt.Errorf("create document: %w", domain.ErrUnauthorized)
	}
	if err := validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	doc := &models.Document{
		ID:           uuid.NewString(),
		Title:        NormalizeTitle(req.Title),
		Icon:         NormalizeIcon(req.Icon),
		CoverImage:   req.CoverImage,
		Blocks:       ProjectBlocks(req.Blocks),
		IsPublic:     req.IsPublic,
		IsFavorite:   req.IsFavorite,
		Tags:         NormalizeTags(req.Tags),
		CreatedBy:    sess.UserID,
		CreatedAt:    now,
		LastEditedAt: now,
		ParentID:     req.ParentID,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.docRepo.Insert(txCtx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"blocks", len(doc.Blocks),
		"created_by", doc.CreatedBy,
	)
	return doc, nil
}

// UpdateDocument applies the save projection to the patch and persists
// it, then returns the freshly loaded document. last_edited_at is
// refreshed even for an empty patch.
func (s *documentService) UpdateDocument(ctx context.Context, sess *auth.Session, id string, patch *models.DocumentPatch) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.CanEdit(sess, doc) {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrForbidden)
	}
	if err := validatePatch(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if patch.Title != nil {
		normalized := NormalizeTitle(*patch.Title)
		patch.Title = &normalized
	}
	if patch.Icon != nil {
		normalized := NormalizeIcon(*patch.Icon)
		patch.Icon = &normalized
	}
	if patch.Blocks != nil {
		projected := ProjectBlocks(*patch.Blocks)
		patch.Blocks = &projected
	}
	if patch.Tags != nil {
		normalized := NormalizeTags(*patch.Tags)
		patch.Tags = &normalized
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.docRepo.Update(txCtx, id, patch, time.Now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document updated", "id", id, "by", sess.UserID)
	return s.docRepo.GetByID(ctx, id)
}

// DeleteDocument removes a document. Only the owner may delete; public
// visibility grants editing, not deletion.
func (s *documentService) DeleteDocument(ctx context.Context, sess *auth.Session, id string) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !sess.Authenticated() || doc.CreatedBy != sess.UserID {
		return fmt.Errorf("document %s: %w", id, domain.ErrForbidden)
	}

	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id, "by", sess.UserID)
	return nil
}

// CanEdit implements the sole access-control rule: an authenticated
// session may edit public documents and its own private ones.
func (s *documentService) CanEdit(sess *auth.Session, doc *models.Document) bool {
	if !sess.Authenticated() {
		return false
	}
	return doc.IsPublic || doc.CreatedBy == sess.UserID
}

// filterDocuments narrows the loaded set per the search text and
// visibility filter. The private view shows only the viewer's own
// private documents.
func filterDocuments(docs []models.Document, sess *auth.Session, opts services.ListOptions) []models.Document {
	search := strings.ToLower(strings.TrimSpace(opts.Search))
	out := make([]models.Document, 0, len(docs))
	for _, doc := range docs {
		switch opts.Filter {
		case services.FilterPublic:
			if !doc.IsPublic {
				continue
			}
		case services.FilterPrivate:
			if doc.IsPublic || !sess.Authenticated() || doc.CreatedBy != sess.UserID {
				continue
			}
		case services.FilterFavorites:
			if !doc.IsFavorite {
				continue
			}
		}
		if search != "" && !matchesSearch(&doc, search) {
			continue
		}
		out = append(out, doc)
	}
	return out
}

// matchesSearch checks the title and every block's content.
func matchesSearch(doc *models.Document, search string) bool {
	if strings.Contains(strings.ToLower(doc.Title), search) {
		return true
	}
	for _, b := range doc.Blocks {
		if strings.Contains(strings.ToLower(b.Content), search) {
			return true
		}
	}
	return false
}

func sortDocuments(docs []models.Document, order services.SortOrder) {
	switch order {
	case services.SortTitle:
		sort.SliceStable(docs, func(i, j int) bool {
			return strings.ToLower(docs[i].Title) < strings.ToLower(docs[j].Title)
		})
	case services.SortCreated:
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		})
	default:
		// SortRecent: last edited first.
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].LastEditedAt.After(docs[j].LastEditedAt)
		})
	}
}

// validateCreateRequest validates a document creation request.
func validateCreateRequest(req *services.CreateDocumentRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(0, 512)),
		validation.Field(&req.Tags, validation.Each(validation.Length(0, 128))),
	); err != nil {
		return err
	}
	for _, b := range req.Blocks {
		if !b.Type.Valid() {
			return fmt.Errorf("unknown block type %q", b.Type)
		}
	}
	return nil
}

// validatePatch applies the creation constraints to whichever fields a
// partial update carries.
func validatePatch(patch *models.DocumentPatch) error {
	if err := validation.ValidateStruct(patch,
		validation.Field(&patch.Title, validation.Length(0, 512)),
		validation.Field(&patch.Tags, validation.Each(validation.Length(0, 128))),
	); err != nil {
		return err
	}
	if patch.Blocks != nil {
		for _, b := range *patch.Blocks {
			if !b.Type.Valid() {
				return fmt.Errorf("unknown block type %q", b.Type)
			}
		}
	}
	return nil
}

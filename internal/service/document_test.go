package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"crok/internal/auth"
	"crok/internal/domain"
	"crok/internal/domain/models"
	"crok/internal/domain/repositories"
	"crok/internal/domain/services"
)

// fakeDocumentRepository is an in-memory DocumentRepository.
type fakeDocumentRepository struct {
	docs map[string]*models.Document
}

func newFakeDocumentRepository(docs ...*models.Document) *fakeDocumentRepository {
	repo := &fakeDocumentRepository{docs: make(map[string]*models.Document)}
	for _, d := range docs {
		repo.docs[d.ID] = d
	}
	return repo
}

func (r *fakeDocumentRepository) ListAll(ctx context.Context) ([]models.Document, error) {
	out := make([]models.Document, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepository) Insert(ctx context.Context, doc *models.Document) error {
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepository) Update(ctx context.Context, id string, patch *models.DocumentPatch, editedAt time.Time) error {
	doc, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Icon != nil {
		doc.Icon = *patch.Icon
	}
	if patch.CoverImage != nil {
		doc.CoverImage = *patch.CoverImage
	}
	if patch.IsPublic != nil {
		doc.IsPublic = *patch.IsPublic
	}
	if patch.IsFavorite != nil {
		doc.IsFavorite = *patch.IsFavorite
	}
	if patch.Blocks != nil {
		doc.Blocks = *patch.Blocks
	}
	if patch.Tags != nil {
		doc.Tags = *patch.Tags
	}
	doc.LastEditedAt = editedAt
	return nil
}

func (r *fakeDocumentRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

// fakeTxManager runs the function directly, counting invocations.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	return fn(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDocumentService(repo repositories.DocumentRepository) (services.DocumentService, *fakeTxManager) {
	tx := &fakeTxManager{}
	return NewDocumentService(repo, tx, discardLogger()), tx
}

func testSession() *auth.Session {
	return &auth.Session{UserID: "user-1", Username: "alice"}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Untitled"},
		{"   ", "Untitled"},
		{"\t\n", "Untitled"},
		{"Notes", "Notes"},
		{"  padded  ", "  padded  "},
	}

	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProjectBlocks(t *testing.T) {
	blocks := []models.Block{
		{ID: "b1", Type: models.BlockTypeHeading1, Content: "Title", Order: 0},
		{ID: "b2", Type: models.BlockTypeParagraph, Content: "", Order: 1},
		{ID: "b3", Type: models.BlockTypeDivider, Content: "", Order: 2},
		{ID: "b4", Type: models.BlockTypeImage, Content: "", Order: 3},
		{ID: "b5", Type: models.BlockTypeTable, Content: "", Order: 4},
		{ID: "b6", Type: models.BlockTypeTodo, Content: "", Order: 5},
		{ID: "b7", Type: models.BlockTypeParagraph, Content: "text", Order: 6},
	}

	got := ProjectBlocks(blocks)

	wantIDs := []string{"b1", "b3", "b4", "b5", "b7"}
	if len(got) != len(wantIDs) {
		t.Fatalf("kept %d blocks, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("position %d holds %q, want %q", i, got[i].ID, id)
		}
		if got[i].Order != i {
			t.Errorf("block %q has order %d, want %d", id, got[i].Order, i)
		}
	}
}

func TestProjectBlocksAllEmpty(t *testing.T) {
	blocks := []models.Block{
		{ID: "b1", Type: models.BlockTypeParagraph},
		{ID: "b2", Type: models.BlockTypeHeading2},
	}
	if got := ProjectBlocks(blocks); len(got) != 0 {
		t.Errorf("kept %d blocks, want 0", len(got))
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "trims", in: []string{" travel ", "work"}, want: []string{"travel", "work"}},
		{name: "drops empty", in: []string{"", "  ", "a"}, want: []string{"a"}},
		{name: "dedupes keeping first", in: []string{"a", "b", "a"}, want: []string{"a", "b"}},
		{name: "dedupes after trim", in: []string{"a", " a"}, want: []string{"a"}},
		{name: "nil in empty out", in: nil, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTags(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateDocumentAppliesProjection(t *testing.T) {
	repo := newFakeDocumentRepository()
	svc, tx := newTestDocumentService(repo)

	doc, err := svc.CreateDocument(context.Background(), testSession(), &services.CreateDocumentRequest{
		Title: "   ",
		Blocks: []models.Block{
			{ID: "b1", Type: models.BlockTypeParagraph, Content: ""},
			{ID: "b2", Type: models.BlockTypeParagraph, Content: "kept"},
		},
		Tags:     []string{" a ", "a", ""},
		IsPublic: true,
	})
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	if doc.Title != models.DefaultTitle {
		t.Errorf("title = %q, want %q", doc.Title, models.DefaultTitle)
	}
	if doc.Icon != models.DefaultIcon {
		t.Errorf("icon = %q, want default", doc.Icon)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].ID != "b2" || doc.Blocks[0].Order != 0 {
		t.Errorf("blocks = %+v, want only b2 at order 0", doc.Blocks)
	}
	if !reflect.DeepEqual(doc.Tags, []string{"a"}) {
		t.Errorf("tags = %v, want [a]", doc.Tags)
	}
	if doc.CreatedBy != "user-1" {
		t.Errorf("created_by = %q", doc.CreatedBy)
	}
	if doc.ID == "" || doc.CreatedAt.IsZero() || doc.LastEditedAt.IsZero() {
		t.Error("identity fields not assigned")
	}
	if tx.calls != 1 {
		t.Errorf("insert ran in %d transactions, want 1", tx.calls)
	}
	if _, err := repo.GetByID(context.Background(), doc.ID); err != nil {
		t.Errorf("document not persisted: %v", err)
	}
}

func TestCreateDocumentRequiresSession(t *testing.T) {
	svc, _ := newTestDocumentService(newFakeDocumentRepository())

	_, err := svc.CreateDocument(context.Background(), nil, &services.CreateDocumentRequest{Title: "x"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestCreateDocumentRejectsUnknownBlockType(t *testing.T) {
	svc, _ := newTestDocumentService(newFakeDocumentRepository())

	_, err := svc.CreateDocument(context.Background(), testSession(), &services.CreateDocumentRequest{
		Blocks: []models.Block{{ID: "b1", Type: "spreadsheet"}},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestUpdateDocumentProjectsPatch(t *testing.T) {
	existing := &models.Document{
		ID:        "doc-1",
		Title:     "Old",
		IsPublic:  true,
		CreatedBy: "someone-else",
	}
	repo := newFakeDocumentRepository(existing)
	svc, tx := newTestDocumentService(repo)

	newTitle := "  "
	blocks := []models.Block{
		{ID: "b1", Type: models.BlockTypeParagraph, Content: ""},
		{ID: "b2", Type: models.BlockTypeDivider},
	}
	got, err := svc.UpdateDocument(context.Background(), testSession(), "doc-1", &models.DocumentPatch{
		Title:  &newTitle,
		Blocks: &blocks,
	})
	if err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}

	if got.Title != models.DefaultTitle {
		t.Errorf("title = %q, want %q", got.Title, models.DefaultTitle)
	}
	if len(got.Blocks) != 1 || got.Blocks[0].ID != "b2" {
		t.Errorf("blocks = %+v, want only the divider", got.Blocks)
	}
	if got.LastEditedAt.IsZero() {
		t.Error("last_edited_at not refreshed")
	}
	if tx.calls != 1 {
		t.Errorf("update ran in %d transactions, want 1", tx.calls)
	}
}

func TestUpdateDocumentRejectsUnknownBlockType(t *testing.T) {
	repo := newFakeDocumentRepository(&models.Document{
		ID:        "doc-1",
		IsPublic:  true,
		CreatedBy: "user-1",
	})
	svc, _ := newTestDocumentService(repo)

	blocks := []models.Block{{ID: "b1", Type: "spreadsheet", Content: "x"}}
	_, err := svc.UpdateDocument(context.Background(), testSession(), "doc-1", &models.DocumentPatch{
		Blocks: &blocks,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	// The rejected patch must not have touched the stored blocks.
	stored, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.Blocks) != 0 {
		t.Errorf("stored blocks = %+v, want none", stored.Blocks)
	}
}

func TestUpdateDocumentNormalizesIcon(t *testing.T) {
	repo := newFakeDocumentRepository(&models.Document{
		ID:        "doc-1",
		Icon:      "🎯",
		IsPublic:  true,
		CreatedBy: "user-1",
	})
	svc, _ := newTestDocumentService(repo)

	emptyIcon := ""
	got, err := svc.UpdateDocument(context.Background(), testSession(), "doc-1", &models.DocumentPatch{
		Icon: &emptyIcon,
	})
	if err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	if got.Icon != models.DefaultIcon {
		t.Errorf("icon = %q, want the default glyph", got.Icon)
	}
}

func TestUpdateDocumentForbiddenForPrivateOfOthers(t *testing.T) {
	repo := newFakeDocumentRepository(&models.Document{
		ID:        "doc-1",
		IsPublic:  false,
		CreatedBy: "someone-else",
	})
	svc, _ := newTestDocumentService(repo)

	title := "hijacked"
	_, err := svc.UpdateDocument(context.Background(), testSession(), "doc-1", &models.DocumentPatch{Title: &title})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestUpdateDocumentEmptyPatchRefreshesTimestamp(t *testing.T) {
	repo := newFakeDocumentRepository(&models.Document{
		ID:           "doc-1",
		IsPublic:     true,
		CreatedBy:    "user-1",
		LastEditedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	svc, _ := newTestDocumentService(repo)

	got, err := svc.UpdateDocument(context.Background(), testSession(), "doc-1", &models.DocumentPatch{})
	if err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	if !got.LastEditedAt.After(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last_edited_at = %v, want refreshed", got.LastEditedAt)
	}
}

func TestDeleteDocumentOwnerOnly(t *testing.T) {
	repo := newFakeDocumentRepository(
		&models.Document{ID: "mine", CreatedBy: "user-1", IsPublic: true},
		&models.Document{ID: "theirs", CreatedBy: "someone-else", IsPublic: true},
	)
	svc, _ := newTestDocumentService(repo)
	ctx := context.Background()

	if err := svc.DeleteDocument(ctx, testSession(), "mine"); err != nil {
		t.Fatalf("deleting own document: %v", err)
	}

	// Public grants editing, not deletion.
	err := svc.DeleteDocument(ctx, testSession(), "theirs")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("deleting someone else's document = %v, want ErrForbidden", err)
	}

	err = svc.DeleteDocument(ctx, testSession(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleting missing document = %v, want ErrNotFound", err)
	}
}

func TestCanEdit(t *testing.T) {
	svc, _ := newTestDocumentService(newFakeDocumentRepository())

	publicDoc := &models.Document{IsPublic: true, CreatedBy: "someone-else"}
	ownPrivate := &models.Document{IsPublic: false, CreatedBy: "user-1"}
	otherPrivate := &models.Document{IsPublic: false, CreatedBy: "someone-else"}

	tests := []struct {
		name string
		sess *auth.Session
		doc  *models.Document
		want bool
	}{
		{name: "anonymous cannot edit public", sess: nil, doc: publicDoc, want: false},
		{name: "authenticated edits public", sess: testSession(), doc: publicDoc, want: true},
		{name: "owner edits own private", sess: testSession(), doc: ownPrivate, want: true},
		{name: "non-owner cannot edit private", sess: testSession(), doc: otherPrivate, want: false},
		{name: "anonymous cannot edit private", sess: nil, doc: otherPrivate, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.CanEdit(tt.sess, tt.doc); got != tt.want {
				t.Errorf("CanEdit = %v, want %v", got, tt.want)
			}
		})
	}
}

func listDocs() []*models.Document {
	return []*models.Document{
		{ID: "d1", Title: "Alpha notes", IsPublic: true, CreatedBy: "user-1",
			CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			LastEditedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: "d2", Title: "beta plan", IsPublic: false, CreatedBy: "user-1", IsFavorite: true,
			CreatedAt:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			LastEditedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Blocks:       []models.Block{{Type: models.BlockTypeParagraph, Content: "quarterly BUDGET"}}},
		{ID: "d3", Title: "Gamma", IsPublic: false, CreatedBy: "someone-else",
			CreatedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			LastEditedAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
	}
}

func TestListDocumentsFilters(t *testing.T) {
	svc, _ := newTestDocumentService(newFakeDocumentRepository(listDocs()...))
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    services.ListOptions
		wantIDs map[string]bool
	}{
		{name: "all", opts: services.ListOptions{}, wantIDs: map[string]bool{"d1": true, "d2": true, "d3": true}},
		{name: "public", opts: services.ListOptions{Filter: services.FilterPublic}, wantIDs: map[string]bool{"d1": true}},
		{name: "private shows own only", opts: services.ListOptions{Filter: services.FilterPrivate}, wantIDs: map[string]bool{"d2": true}},
		{name: "favorites", opts: services.ListOptions{Filter: services.FilterFavorites}, wantIDs: map[string]bool{"d2": true}},
		{name: "search title", opts: services.ListOptions{Search: "alpha"}, wantIDs: map[string]bool{"d1": true}},
		{name: "search block content", opts: services.ListOptions{Search: "budget"}, wantIDs: map[string]bool{"d2": true}},
		{name: "search no match", opts: services.ListOptions{Search: "zzz"}, wantIDs: map[string]bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := svc.ListDocuments(ctx, testSession(), tt.opts)
			if err != nil {
				t.Fatalf("ListDocuments: %v", err)
			}
			if len(docs) != len(tt.wantIDs) {
				t.Fatalf("got %d documents, want %d", len(docs), len(tt.wantIDs))
			}
			for _, d := range docs {
				if !tt.wantIDs[d.ID] {
					t.Errorf("unexpected document %q", d.ID)
				}
			}
		})
	}
}

func TestListDocumentsPrivateFilterAnonymous(t *testing.T) {
	svc, _ := newTestDocumentService(newFakeDocumentRepository(listDocs()...))

	docs, err := svc.ListDocuments(context.Background(), nil, services.ListOptions{Filter: services.FilterPrivate})
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("anonymous private view shows %d documents, want 0", len(docs))
	}
}

func TestListDocumentsSorting(t *testing.T) {
	svc, _ := newTestDocumentService(newFakeDocumentRepository(listDocs()...))
	ctx := context.Background()

	tests := []struct {
		name string
		sort services.SortOrder
		want []string
	}{
		{name: "recent is default", sort: "", want: []string{"d3", "d1", "d2"}},
		{name: "title is case-insensitive ascending", sort: services.SortTitle, want: []string{"d1", "d2", "d3"}},
		{name: "created is newest first", sort: services.SortCreated, want: []string{"d3", "d2", "d1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := svc.ListDocuments(ctx, testSession(), services.ListOptions{Sort: tt.sort})
			if err != nil {
				t.Fatalf("ListDocuments: %v", err)
			}
			got := make([]string, len(docs))
			for i, d := range docs {
				got[i] = d.ID
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

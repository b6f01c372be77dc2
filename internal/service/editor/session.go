package editor

import (
	"errors"

	"crok/internal/domain/models"
)

// Mode is the editor's focus state. The three modes are mutually
// exclusive.
type Mode string

const (
	// ModeViewingList means no document is open.
	ModeViewingList Mode = "viewing-list"
	// ModeEditingExisting means a loaded document is open.
	ModeEditingExisting Mode = "editing-existing"
	// ModeCreatingNew means a blank, not yet persisted document is open.
	ModeCreatingNew Mode = "creating-new"
)

var (
	// ErrUnsavedChanges is returned by Close when edits are pending and
	// the close was not forced. The caller turns this into a
	// confirmation prompt.
	ErrUnsavedChanges = errors.New("unsaved changes")
	// ErrNoDocumentOpen is returned by operations that need an open
	// document while the session is viewing the list.
	ErrNoDocumentOpen = errors.New("no document open")
	// ErrDocumentOpen is returned by Open/OpenNew while a document is
	// already open.
	ErrDocumentOpen = errors.New("a document is already open")
)

// Session is the editor focus state machine. Closing always discards
// in-memory edits; nothing editing-related survives a return to the
// list.
type Session struct {
	mode  Mode
	doc   *models.Document
	dirty bool
}

// NewSession creates a session in the viewing-list mode.
func NewSession() *Session {
	return &Session{mode: ModeViewingList}
}

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Dirty reports whether any tracked field differs from the loaded
// baseline.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Document returns the open document, or nil in viewing-list mode.
func (s *Session) Document() *models.Document {
	return s.doc
}

// Open switches from the list to editing an existing document. An open
// document that is never typed into still starts with one empty
// paragraph so the editor has a block to focus.
func (s *Session) Open(doc *models.Document) error {
	if s.mode != ModeViewingList {
		return ErrDocumentOpen
	}
	opened := *doc
	if len(opened.Blocks) == 0 {
		opened.Blocks = []models.Block{NewParagraph()}
	}
	s.mode = ModeEditingExisting
	s.doc = &opened
	s.dirty = false
	return nil
}

// OpenNew switches from the list to a blank unsaved document.
func (s *Session) OpenNew() error {
	if s.mode != ModeViewingList {
		return ErrDocumentOpen
	}
	s.mode = ModeCreatingNew
	s.doc = &models.Document{
		Icon:     models.DefaultIcon,
		Blocks:   []models.Block{NewParagraph()},
		IsPublic: true,
	}
	s.dirty = false
	return nil
}

// Apply runs a block mutation against the open document and marks the
// session dirty.
func (s *Session) Apply(mutate func([]models.Block) []models.Block) error {
	if s.doc == nil {
		return ErrNoDocumentOpen
	}
	s.doc.Blocks = mutate(s.doc.Blocks)
	s.dirty = true
	return nil
}

// Touch marks the session dirty after a metadata edit (title, icon,
// visibility, tags, cover).
func (s *Session) Touch() error {
	if s.doc == nil {
		return ErrNoDocumentOpen
	}
	s.dirty = true
	return nil
}

// Saved records a successful save and returns the session to the list.
func (s *Session) Saved() error {
	if s.doc == nil {
		return ErrNoDocumentOpen
	}
	s.mode = ModeViewingList
	s.doc = nil
	s.dirty = false
	return nil
}

// Close returns the session to the list, discarding in-memory edits.
// While edits are pending it refuses unless forced.
func (s *Session) Close(force bool) error {
	if s.doc == nil {
		return ErrNoDocumentOpen
	}
	if s.dirty && !force {
		return ErrUnsavedChanges
	}
	s.mode = ModeViewingList
	s.doc = nil
	s.dirty = false
	return nil
}

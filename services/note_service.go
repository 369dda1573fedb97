package services

import (
	"context"
	"strings"

	"notes-backend/models"
)

// DefaultSearchLimit caps search pages when the caller does not pick a limit.
const DefaultSearchLimit = 50

// NoteService handles business logic for notes
type NoteService struct {
	repo NoteRepository
}

// NewNoteService creates a new note service
func NewNoteService(repo NoteRepository) *NoteService {
	return &NoteService{repo: repo}
}

// List returns all notes, most recently updated first.
func (ns *NoteService) List(ctx context.Context) ([]models.Note, error) {
	return ns.repo.ListNotes(ctx)
}

// Get retrieves a note by id.
func (ns *NoteService) Get(ctx context.Context, id int64) (*models.Note, error) {
	note, err := ns.repo.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// Create stores a new note. The title is trimmed of surrounding whitespace;
// content is stored verbatim.
func (ns *NoteService) Create(ctx context.Context, title, content string) (*models.Note, error) {
	return ns.repo.CreateNote(ctx, strings.TrimSpace(title), content)
}

// Update applies a partial update. At least one field must be provided; the
// no-fields case fails before touching storage.
func (ns *NoteService) Update(ctx context.Context, id int64, title, content *string) (*models.Note, error) {
	if title == nil && content == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		title = &trimmed
	}

	note, err := ns.repo.UpdateNote(ctx, id, title, content)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// Delete removes a note permanently.
func (ns *NoteService) Delete(ctx context.Context, id int64) error {
	deleted, err := ns.repo.DeleteNote(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNoteNotFound
	}
	return nil
}

// Search matches notes whose title or content contains query as a
// case-insensitive substring. A non-positive limit falls back to
// DefaultSearchLimit.
func (ns *NoteService) Search(ctx context.Context, query string, limit int) (*models.SearchResults, error) {
	query = strings.TrimSpace(query)
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	items, total, err := ns.repo.SearchNotes(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	return &models.SearchResults{Query: query, Items: items, Total: total}, nil
}

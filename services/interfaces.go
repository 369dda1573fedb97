package services

import (
	"context"

	"notes-backend/models"
)

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	ListNotes(ctx context.Context) ([]models.Note, error)
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	CreateNote(ctx context.Context, title, content string) (*models.Note, error)
	UpdateNote(ctx context.Context, id int64, title, content *string) (*models.Note, error)
	DeleteNote(ctx context.Context, id int64) (bool, error)
	SearchNotes(ctx context.Context, query string, limit int) ([]models.Note, int, error)
}

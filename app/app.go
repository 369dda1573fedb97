package app

import (
	"log/slog"

	"notes-backend/services"
	"notes-backend/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Notes     *services.NoteService
	Validator *validator.Validator
	Logger    *slog.Logger
}

// New creates a new App instance with all dependencies
func New(notes *services.NoteService, logger *slog.Logger) *App {
	return &App{
		Notes:     notes,
		Validator: validator.New(),
		Logger:    logger,
	}
}

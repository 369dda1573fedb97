package services

import "errors"

// Common service-level errors
var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrNoFieldsToUpdate = errors.New("at least one of 'title' or 'content' must be provided")
)

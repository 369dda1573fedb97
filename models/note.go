package models

// Note is the persisted record. Timestamps are the storage engine's
// datetime strings; their lexicographic order matches temporal order.
type Note struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

// UpdateNoteRequest carries a partial update; nil fields keep their stored
// values.
type UpdateNoteRequest struct {
	Title   *string `json:"title" validate:"omitempty,notblank,max=200"`
	Content *string `json:"content" validate:"omitempty,min=1,max=10000"`
}

type SearchRequest struct {
	Query string `json:"q" validate:"required,notblank,max=200"`
	Limit int    `json:"limit" validate:"gte=1,lte=200"`
}

type NotesList struct {
	Items []Note `json:"items"`
}

// SearchResults pairs one page of matches with the total match count so
// callers can detect truncation (total > len(items)).
type SearchResults struct {
	Query string `json:"q"`
	Items []Note `json:"items"`
	Total int    `json:"total"`
}

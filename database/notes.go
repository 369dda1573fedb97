package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"notes-backend/models"
)

type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

const noteColumns = "id, title, content, created_at, updated_at"

// queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// dbNow returns the storage engine's clock as a sortable string. Reading it
// through the same connection as the surrounding write keeps created_at and
// updated_at on a single authoritative clock instead of the caller's.
func dbNow(ctx context.Context, q queryer) (string, error) {
	var now string
	if err := q.QueryRowContext(ctx, "SELECT strftime('%Y-%m-%d %H:%M:%f', 'now')").Scan(&now); err != nil {
		return "", fmt.Errorf("failed to read database clock: %w", err)
	}
	return now, nil
}

func scanNote(row *sql.Row) (*models.Note, error) {
	var note models.Note
	err := row.Scan(&note.ID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func collectNotes(rows *sql.Rows) ([]models.Note, error) {
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	notes := make([]models.Note, 0)
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// ==================== NOTE OPERATIONS ====================

// ListNotes returns every note, most recently updated first; equal
// timestamps break ties by higher id first.
func (r *Repository) ListNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		ORDER BY updated_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	return collectNotes(rows)
}

// GetNote retrieves a single note by id. Returns nil when no such note exists.
func (r *Repository) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	return scanNote(r.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE id = ?
	`, id))
}

// CreateNote inserts a new note. The engine assigns the id; created_at and
// updated_at share a single timestamp taken from the engine clock inside the
// same transaction, and the fresh row is read back before committing.
func (r *Repository) CreateNote(ctx context.Context, title, content string) (*models.Note, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts, err := dbNow(ctx, tx)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO notes (title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, title, content, ts, ts)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	note, err := scanNote(tx.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if note == nil {
		// The row was inserted in this transaction; not finding it is a
		// defect, not a missing note.
		return nil, fmt.Errorf("note %d not readable after insert", id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote merges the provided fields into the stored note; nil fields
// keep their stored values. updated_at is refreshed unconditionally, even
// when the merged values equal the stored ones (touch semantics). Returns
// nil when the note does not exist.
func (r *Repository) UpdateNote(ctx context.Context, id int64, title, content *string) (*models.Note, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := scanNote(tx.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	newTitle := existing.Title
	if title != nil {
		newTitle = *title
	}
	newContent := existing.Content
	if content != nil {
		newContent = *content
	}

	ts, err := dbNow(ctx, tx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE notes
		SET title = ?, content = ?, updated_at = ?
		WHERE id = ?
	`, newTitle, newContent, ts, id); err != nil {
		return nil, err
	}

	note, err := scanNote(tx.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("note %d not readable after update", id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes the note permanently. Ids are never reassigned
// afterwards (AUTOINCREMENT). Returns false when no row matched.
func (r *Repository) DeleteNote(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// escapeLike neutralizes LIKE metacharacters so the query matches as a
// literal substring rather than a pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SearchNotes returns up to limit notes whose title or content contains
// query as a case-insensitive substring (SQLite's LIKE folds ASCII only),
// ordered like ListNotes, together with the total match count so callers
// can detect truncation. Both queries run on one scoped connection.
func (r *Repository) SearchNotes(ctx context.Context, query string, limit int) ([]models.Note, int, error) {
	pattern := "%" + escapeLike(query) + "%"

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE title LIKE ? ESCAPE '\'
		   OR content LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC, id DESC
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, 0, err
	}
	notes, err := collectNotes(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM notes
		WHERE title LIKE ? ESCAPE '\'
		   OR content LIKE ? ESCAPE '\'
	`, pattern, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

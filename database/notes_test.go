package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())

	return NewRepository(db)
}

// tick sleeps long enough for the engine clock (millisecond precision) to
// advance between operations.
func tick() {
	time.Sleep(25 * time.Millisecond)
}

func TestCreateNote(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	note, err := repo.CreateNote(ctx, "Grocery list", "Milk\nEggs\nBread")
	require.NoError(t, err)
	require.NotNil(t, note)

	assert.Equal(t, int64(1), note.ID)
	assert.Equal(t, "Grocery list", note.Title)
	assert.Equal(t, "Milk\nEggs\nBread", note.Content)
	assert.NotEmpty(t, note.CreatedAt)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt, "created_at must equal updated_at at creation")

	second, err := repo.CreateNote(ctx, "Second", "content")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID, "ids must be assigned monotonically")
}

func TestGetNote(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateNote(ctx, "Title", "Content")
	require.NoError(t, err)

	t.Run("existing note", func(t *testing.T) {
		note, err := repo.GetNote(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, note)
		assert.Equal(t, created, note)
	})

	t.Run("missing note", func(t *testing.T) {
		note, err := repo.GetNote(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, note)
	})
}

func TestUpdateNote(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		created, err := repo.CreateNote(ctx, "Grocery list", "Milk\nEggs\nBread")
		require.NoError(t, err)

		tick()
		content := "Milk\nEggs"
		updated, err := repo.UpdateNote(ctx, created.ID, nil, &content)
		require.NoError(t, err)
		require.NotNil(t, updated)

		assert.Equal(t, "Grocery list", updated.Title, "omitted title must keep its stored value")
		assert.Equal(t, "Milk\nEggs", updated.Content)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt, "created_at is immutable")
		assert.Greater(t, updated.UpdatedAt, created.UpdatedAt)
	})

	t.Run("identical values still touch updated_at", func(t *testing.T) {
		created, err := repo.CreateNote(ctx, "Same", "Same content")
		require.NoError(t, err)

		tick()
		title, content := created.Title, created.Content
		updated, err := repo.UpdateNote(ctx, created.ID, &title, &content)
		require.NoError(t, err)
		require.NotNil(t, updated)

		assert.Equal(t, created.Title, updated.Title)
		assert.Equal(t, created.Content, updated.Content)
		assert.Greater(t, updated.UpdatedAt, created.UpdatedAt)
	})

	t.Run("missing note", func(t *testing.T) {
		title := "x"
		updated, err := repo.UpdateNote(ctx, 999, &title, nil)
		require.NoError(t, err)
		assert.Nil(t, updated)
	})
}

func TestDeleteNote(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateNote(ctx, "Doomed", "content")
	require.NoError(t, err)

	deleted, err := repo.DeleteNote(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	note, err := repo.GetNote(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, note, "deleted note must not be retrievable")

	deleted, err = repo.DeleteNote(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete must report no row matched")

	next, err := repo.CreateNote(ctx, "After", "content")
	require.NoError(t, err)
	assert.Greater(t, next.ID, created.ID, "ids are never reused after deletion")
}

func TestListNotes(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		notes, err := repo.ListNotes(ctx)
		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("most recently touched first", func(t *testing.T) {
		first, err := repo.CreateNote(ctx, "first", "a")
		require.NoError(t, err)
		tick()
		second, err := repo.CreateNote(ctx, "second", "b")
		require.NoError(t, err)
		tick()
		third, err := repo.CreateNote(ctx, "third", "c")
		require.NoError(t, err)

		tick()
		content := "a touched"
		_, err = repo.UpdateNote(ctx, first.ID, nil, &content)
		require.NoError(t, err)

		notes, err := repo.ListNotes(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, first.ID, notes[0].ID, "updated note moves to the front")
		assert.Equal(t, third.ID, notes[1].ID)
		assert.Equal(t, second.ID, notes[2].ID)
	})
}

func TestSearchNotes(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateNote(ctx, "Grocery List", "Milk\nEggs\nBread")
	require.NoError(t, err)
	tick()
	_, err = repo.CreateNote(ctx, "Todo list", "Call the plumber")
	require.NoError(t, err)
	tick()
	_, err = repo.CreateNote(ctx, "Journal", "Nothing to report")
	require.NoError(t, err)

	t.Run("case-insensitive substring match", func(t *testing.T) {
		for _, query := range []string{"grocery", "GROCERY", "ery li"} {
			items, total, err := repo.SearchNotes(ctx, query, 50)
			require.NoError(t, err)
			require.Equal(t, 1, total, "query %q", query)
			require.Len(t, items, 1)
			assert.Equal(t, "Grocery List", items[0].Title)
		}
	})

	t.Run("matches title or content", func(t *testing.T) {
		items, total, err := repo.SearchNotes(ctx, "plumber", 50)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "Todo list", items[0].Title)
	})

	t.Run("total reports matches beyond the limit", func(t *testing.T) {
		items, total, err := repo.SearchNotes(ctx, "list", 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, items, 1)
		assert.Equal(t, "Todo list", items[0].Title, "page is ordered like List")
	})

	t.Run("no matches is not an error", func(t *testing.T) {
		items, total, err := repo.SearchNotes(ctx, "nonexistent", 50)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)
	})

	t.Run("LIKE metacharacters match literally", func(t *testing.T) {
		_, err := repo.CreateNote(ctx, "Discount", "50% off this_week")
		require.NoError(t, err)

		items, total, err := repo.SearchNotes(ctx, "%", 50)
		require.NoError(t, err)
		assert.Equal(t, 1, total, "%% must only match a literal percent sign")
		require.Len(t, items, 1)
		assert.Equal(t, "Discount", items[0].Title)

		_, total, err = repo.SearchNotes(ctx, "this_week", 50)
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		_, total, err = repo.SearchNotes(ctx, "thisXweek", 50)
		require.NoError(t, err)
		assert.Zero(t, total, "underscore in the query must not act as a wildcard")
	})
}

func TestMigrate(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		db, err := New(dbPath)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, db.Migrate())

		repo := NewRepository(db)
		created, err := repo.CreateNote(context.Background(), "kept", "content")
		require.NoError(t, err)

		require.NoError(t, db.Migrate())

		note, err := repo.GetNote(context.Background(), created.ID)
		require.NoError(t, err)
		require.NotNil(t, note, "re-running migrations must not drop data")
	})

	t.Run("refuses incompatible schema", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		db, err := New(dbPath)
		require.NoError(t, err)
		defer db.Close()

		_, err = db.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL)")
		require.NoError(t, err)

		err = db.Migrate()
		require.Error(t, err)

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "notes", schemaErr.Table)
		assert.Equal(t, []string{"content", "created_at", "updated_at"}, schemaErr.Missing)
	})
}

func TestSchemaErrorMessage(t *testing.T) {
	err := &SchemaError{Table: "notes", Missing: []string{"content", "updated_at"}}
	assert.EqualError(t, err, `table "notes" is missing required columns: content, updated_at`)
}

package database

import (
	"context"
	"testing"

	"pgregory.net/rapid"
)

// TestRepositoryInvariants drives the repository with random operations and
// checks the ordering and search-totality invariants after each one.
func TestRepositoryInvariants(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	var ids []int64

	rapid.Check(t, func(rt *rapid.T) {
		switch rapid.IntRange(0, 2).Draw(rt, "op") {
		case 0:
			title := rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,19}`).Draw(rt, "title")
			content := rapid.StringMatching(`[A-Za-z0-9 %_.]{1,40}`).Draw(rt, "content")
			note, err := repo.CreateNote(ctx, title, content)
			if err != nil {
				rt.Fatalf("create failed: %v", err)
			}
			ids = append(ids, note.ID)
		case 1:
			if len(ids) == 0 {
				return
			}
			id := ids[rapid.IntRange(0, len(ids)-1).Draw(rt, "idx")]
			content := rapid.StringMatching(`[A-Za-z0-9 ]{1,40}`).Draw(rt, "newContent")
			if _, err := repo.UpdateNote(ctx, id, nil, &content); err != nil {
				rt.Fatalf("update failed: %v", err)
			}
		case 2:
			if len(ids) == 0 {
				return
			}
			idx := rapid.IntRange(0, len(ids)-1).Draw(rt, "delIdx")
			if _, err := repo.DeleteNote(ctx, ids[idx]); err != nil {
				rt.Fatalf("delete failed: %v", err)
			}
			ids = append(ids[:idx], ids[idx+1:]...)
		}

		notes, err := repo.ListNotes(ctx)
		if err != nil {
			rt.Fatalf("list failed: %v", err)
		}
		for i := 1; i < len(notes); i++ {
			prev, cur := notes[i-1], notes[i]
			if prev.UpdatedAt < cur.UpdatedAt {
				rt.Fatalf("list not ordered by updated_at desc at %d: %q < %q", i, prev.UpdatedAt, cur.UpdatedAt)
			}
			if prev.UpdatedAt == cur.UpdatedAt && prev.ID < cur.ID {
				rt.Fatalf("equal timestamps not ordered by id desc at %d: %d < %d", i, prev.ID, cur.ID)
			}
		}

		query := rapid.StringMatching(`[a-z]{1,3}`).Draw(rt, "query")
		limit := rapid.IntRange(1, 5).Draw(rt, "limit")
		items, total, err := repo.SearchNotes(ctx, query, limit)
		if err != nil {
			rt.Fatalf("search failed: %v", err)
		}
		if len(items) > limit {
			rt.Fatalf("search returned %d items with limit %d", len(items), limit)
		}
		if total < len(items) {
			rt.Fatalf("search total %d below page size %d", total, len(items))
		}
		if total <= limit && total != len(items) {
			rt.Fatalf("search total %d fits limit %d but page has %d items", total, limit, len(items))
		}
	})
}

package jobs

import (
	"context"
	"errors"
	"testing"

	"storyglot/internal/services"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry, err := store.Record(ctx, "2026-03-01T10-20-30Z__kazka", "Казка", "kazka", "/jobs/x", StatusDraft)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if entry.RunID == "" {
		t.Fatal("expected a run id")
	}
	if entry.Status != StatusDraft || entry.Title != "Казка" || entry.LineCount != 0 {
		t.Fatalf("unexpected entry %+v", entry)
	}

	got, err := store.GetByJobID(ctx, entry.JobID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RunID != entry.RunID {
		t.Fatalf("run id mismatch: %q vs %q", got.RunID, entry.RunID)
	}
}

func TestRecordUpsertsOnJobID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, "job-1", "Old Title", "old", "/a", StatusFailed)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	second, err := store.Record(ctx, "job-1", "New Title", "new", "/b", StatusDraft)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	if second.RunID != first.RunID {
		t.Fatal("upsert must preserve the original run id")
	}
	if second.Title != "New Title" || second.Status != StatusDraft || second.Dir != "/b" {
		t.Fatalf("upsert did not update fields: %+v", second)
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one row after upsert, got %d", len(all))
	}
}

func TestUpdateStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, "job-1", "T", "t", "/a", StatusDraft); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.UpdateStatus(ctx, "job-1", StatusTTS, 42); err != nil {
		t.Fatalf("update: %v", err)
	}
	entry, err := store.GetByJobID(ctx, "job-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Status != StatusTTS || entry.LineCount != 42 {
		t.Fatalf("unexpected entry after update: %+v", entry)
	}

	// Negative line count keeps the stored value.
	if err := store.UpdateStatus(ctx, "job-1", StatusComplete, -1); err != nil {
		t.Fatalf("update: %v", err)
	}
	entry, _ = store.GetByJobID(ctx, "job-1")
	if entry.Status != StatusComplete || entry.LineCount != 42 {
		t.Fatalf("line count should be preserved: %+v", entry)
	}
}

func TestUpdateStatusUnknownJob(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdateStatus(context.Background(), "nope", StatusTTS, 1)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestGetUnknownJob(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetByJobID(context.Background(), "nope")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, j := range []struct{ id, status string }{
		{"job-a", StatusDraft},
		{"job-b", StatusFailed},
		{"job-c", StatusDraft},
	} {
		if _, err := store.Record(ctx, j.id, j.id, j.id, "/"+j.id, j.status); err != nil {
			t.Fatalf("record %s: %v", j.id, err)
		}
	}

	drafts, err := store.List(ctx, StatusDraft)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(all))
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Record(context.Background(), "job-1", "T", "t", "/a", StatusDraft); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entry, err := reopened.GetByJobID(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if entry.Title != "T" {
		t.Fatalf("unexpected entry after reopen: %+v", entry)
	}
}

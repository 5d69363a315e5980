package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("empty path must fail")
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{RequestID: "req-1", JobType: "class2d", JobName: "job011", OutputDir: "Class2D/job011",
			Command: "relion_refine --i particles.star", Valid: true,
			CreatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)},
		{RequestID: "req-2", JobType: "ctffind", JobName: "job003",
			Error: "input micrograph star file is required",
			CreatedAt: time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].RequestID != "req-2" {
		t.Fatalf("entries not newest-first: %+v", got)
	}
	if got[0].Valid {
		t.Error("failed compile recorded as valid")
	}
	if got[0].Error == "" {
		t.Error("validation error not persisted")
	}
	if !got[1].Valid || got[1].Command == "" {
		t.Errorf("successful compile lost data: %+v", got[1])
	}
	if got[1].CreatedAt.IsZero() {
		t.Error("timestamp not round-tripped")
	}
}

func TestRecentDefaultLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if err := store.Record(ctx, Entry{RequestID: "req", JobType: "class2d", Valid: true}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	got, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("got %d entries, want default page of 20", len(got))
	}
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := Entry{RequestID: "old", JobType: "refine3d", Valid: true,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour)}
	fresh := Entry{RequestID: "fresh", JobType: "refine3d", Valid: true}
	if err := store.Record(ctx, old); err != nil {
		t.Fatalf("record old: %v", err)
	}
	if err := store.Record(ctx, fresh); err != nil {
		t.Fatalf("record fresh: %v", err)
	}

	removed, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed %d entries, want 1", removed)
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].RequestID != "fresh" {
		t.Fatalf("unexpected survivors: %+v", got)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Record(context.Background(), Entry{RequestID: "req-1", JobType: "class2d"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries after reopen, want 1", len(got))
	}
}

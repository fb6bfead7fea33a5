package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"episodic/internal/journal"
)

func openTestStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestRecordAndStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := journal.Entry{
		Filename:   "episode_1700000000.json",
		Bytes:      48,
		RequestID:  "req-1",
		RemoteAddr: "127.0.0.1:54321",
		ReceivedAt: time.Unix(1700000000, 0).UTC(),
	}
	second := journal.Entry{
		Filename:   "episode_1700000010.json",
		Bytes:      12,
		ReceivedAt: time.Unix(1700000010, 0).UTC(),
	}
	if err := store.Record(ctx, first); err != nil {
		t.Fatalf("Record first: %v", err)
	}
	if err := store.Record(ctx, second); err != nil {
		t.Fatalf("Record second: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Saves != 2 {
		t.Fatalf("expected 2 saves, got %d", stats.Saves)
	}
	if stats.BytesWritten != 60 {
		t.Fatalf("expected 60 bytes, got %d", stats.BytesWritten)
	}
	if stats.LastFilename != second.Filename {
		t.Fatalf("unexpected last filename: %q", stats.LastFilename)
	}
	if !stats.LastSaveAt.Equal(second.ReceivedAt) {
		t.Fatalf("unexpected last save time: %v", stats.LastSaveAt)
	}
}

func TestStatsOnEmptyJournal(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Saves != 0 || stats.BytesWritten != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
	if stats.LastFilename != "" {
		t.Fatalf("expected no last filename, got %q", stats.LastFilename)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "journal.db")
	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	defer store.Close()
	if store.Path() != path {
		t.Fatalf("unexpected path: %q", store.Path())
	}
}

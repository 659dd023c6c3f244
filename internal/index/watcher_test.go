package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/skald/internal/storage"
)

// watcherTestEnv sets up a library dir, storage, and DB for watcher tests.
func watcherTestEnv(t *testing.T) (string, storage.Provider, *DB) {
	t.Helper()
	libDir := t.TempDir()
	store, err := storage.NewFS(libDir)
	if err != nil {
		t.Fatal(err)
	}
	dbFile, err := os.CreateTemp("", "skald-watcher-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })
	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return libDir, store, db
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWatcher_NewDeckIndexed(t *testing.T) {
	libDir, store, db := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, db, store, libDir, quietLogger(), func(kind, id string) {
		mu.Lock()
		events = append(events, kind+":"+id)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(libDir, "new-deck.json"),
		[]byte(`{"id":"new-deck","mainTitle":"Fresh","slides":[],"includeImages":false}`), 0o644)

	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("new-deck")
		return cs != ""
	}, "new deck was not indexed")

	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) > 0
	}, "no watcher event received")
}

func TestWatcher_RemoveDeletesFromIndex(t *testing.T) {
	libDir, store, db := watcherTestEnv(t)

	path := filepath.Join(libDir, "doomed.json")
	_ = os.WriteFile(path, []byte(`{"id":"doomed","mainTitle":"Bye","slides":[]}`), 0o644)
	data, _ := os.ReadFile(path)
	if err := IndexDocument(db, "doomed", data); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, db, store, libDir, quietLogger(), nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Remove(path)

	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("doomed")
		return cs == ""
	}, "removed deck still indexed")
}

func TestWatcher_IgnoresNonDeckFiles(t *testing.T) {
	libDir, store, db := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string
	go Watch(ctx, db, store, libDir, quietLogger(), func(kind, id string) {
		mu.Lock()
		events = append(events, kind+":"+id)
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(libDir, "notes.txt"), []byte("not a deck"), 0o644)
	_ = os.WriteFile(filepath.Join(libDir, ".skald-tmp-123"), []byte("temp"), 0o644)

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(events) != 0 {
		t.Errorf("unexpected events for non-deck files: %v", events)
	}
}

func TestWatcher_AtomicWriteIndexed(t *testing.T) {
	// The storage layer saves via temp file + rename; the watcher must pick
	// up the final path.
	libDir, store, db := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, db, store, libDir, quietLogger(), nil)
	time.Sleep(100 * time.Millisecond)

	if err := store.Write("atomic-deck", []byte(`{"id":"atomic-deck","mainTitle":"Atomic","slides":[]}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("atomic-deck")
		return cs != ""
	}, "atomically written deck was not indexed")
}

func TestSync_IndexesAndPrunes(t *testing.T) {
	libDir, store, db := watcherTestEnv(t)

	_ = os.WriteFile(filepath.Join(libDir, "kept.json"),
		[]byte(`{"id":"kept","mainTitle":"Kept","subTitle":"Sub","slides":[{"id":"s1","title":"One","content":["alpha"]}]}`), 0o644)

	// Stale entry with no file behind it.
	_ = db.UpsertDeck(DeckRow{ID: "stale", Checksum: "old", UpdatedAt: time.Now()}, "")

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	d, err := db.GetDeck("kept")
	if err != nil {
		t.Fatalf("kept deck not indexed: %v", err)
	}
	if d.Title != "Kept" || d.SlideCount != 1 {
		t.Errorf("indexed row = %+v", d)
	}

	cs, _ := db.GetChecksum("stale")
	if cs != "" {
		t.Error("stale entry not pruned")
	}
}

func TestSync_SkipsUnchanged(t *testing.T) {
	libDir, store, db := watcherTestEnv(t)

	path := filepath.Join(libDir, "same.json")
	_ = os.WriteFile(path, []byte(`{"id":"same","mainTitle":"Same","slides":[]}`), 0o644)

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	before, _ := db.GetChecksum("same")

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	after, _ := db.GetChecksum("same")
	if before != after || before == "" {
		t.Errorf("checksum changed across no-op sync: %q vs %q", before, after)
	}
}

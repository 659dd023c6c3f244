package index

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/skald/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "skald-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM decks`).Scan(&count); err != nil {
		t.Fatalf("decks table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := DeckRow{
		ID:         "d1",
		Title:      "Hello World",
		Subtitle:   "An Introduction",
		SlideCount: 3,
		Checksum:   "abc123",
		UpdatedAt:  time.Now(),
	}
	if err := db.UpsertDeck(row, "hello world an introduction opening"); err != nil {
		t.Fatalf("UpsertDeck: %v", err)
	}
	cs, err := db.GetChecksum("d1")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestGetDeck(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDeck(DeckRow{ID: "d1", Title: "T", SlideCount: 2, Checksum: "1", UpdatedAt: time.Now()}, "body")

	d, err := db.GetDeck("d1")
	if err != nil {
		t.Fatalf("GetDeck: %v", err)
	}
	if d.Title != "T" || d.SlideCount != 2 {
		t.Errorf("row = %+v", d)
	}

	_, err = db.GetDeck("missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDeck(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDeck(DeckRow{ID: "del", Checksum: "x", UpdatedAt: time.Now()}, "body")

	if err := db.DeleteDeck("del"); err != nil {
		t.Fatalf("DeleteDeck: %v", err)
	}
	cs, _ := db.GetChecksum("del")
	if cs != "" {
		t.Errorf("deleted deck still has checksum %q", cs)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertDeck(DeckRow{ID: "up", Title: "Old", SlideCount: 1, Checksum: "1", UpdatedAt: now}, "old body")
	_ = db.UpsertDeck(DeckRow{ID: "up", Title: "New", SlideCount: 5, Checksum: "2", UpdatedAt: now}, "new body")

	d, err := db.GetDeck("up")
	if err != nil {
		t.Fatalf("GetDeck: %v", err)
	}
	if d.Title != "New" || d.SlideCount != 5 || d.Checksum != "2" {
		t.Errorf("row not replaced: %+v", d)
	}

	var total int
	_ = db.conn.QueryRow(`SELECT count(*) FROM decks`).Scan(&total)
	if total != 1 {
		t.Errorf("expected 1 row after upsert, got %d", total)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestListDecks_PaginationAndSort(t *testing.T) {
	db := testDB(t)
	base := time.Now().Add(-time.Hour)
	_ = db.UpsertDeck(DeckRow{ID: "a", Title: "Zebra", Checksum: "1", UpdatedAt: base}, "")
	_ = db.UpsertDeck(DeckRow{ID: "b", Title: "apple", Checksum: "2", UpdatedAt: base.Add(time.Minute)}, "")
	_ = db.UpsertDeck(DeckRow{ID: "c", Title: "Mango", Checksum: "3", UpdatedAt: base.Add(2 * time.Minute)}, "")

	rows, total, err := db.ListDecks(2, 0, "updated")
	if err != nil {
		t.Fatalf("ListDecks: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(rows) != 2 || rows[0].ID != "c" || rows[1].ID != "b" {
		t.Errorf("updated sort page = %+v", rows)
	}

	rows, _, err = db.ListDecks(10, 0, "title")
	if err != nil {
		t.Fatalf("ListDecks title sort: %v", err)
	}
	if rows[0].Title != "apple" || rows[1].Title != "Mango" || rows[2].Title != "Zebra" {
		t.Errorf("title sort order = %v, %v, %v", rows[0].Title, rows[1].Title, rows[2].Title)
	}

	rows, _, _ = db.ListDecks(10, 2, "updated")
	if len(rows) != 1 || rows[0].ID != "a" {
		t.Errorf("offset page = %+v", rows)
	}
}

func TestAllIDsAndChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDeck(DeckRow{ID: "x", Checksum: "cx", UpdatedAt: time.Now()}, "")
	_ = db.UpsertDeck(DeckRow{ID: "y", Checksum: "cy", UpdatedAt: time.Now()}, "")

	ids, err := db.AllIDs()
	if err != nil {
		t.Fatalf("AllIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ids = %v", ids)
	}

	sums, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if sums["x"] != "cx" || sums["y"] != "cy" {
		t.Errorf("checksums = %v", sums)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDeck(DeckRow{ID: "s", Title: "Search Me", Checksum: "1", UpdatedAt: time.Now()}, "uniqueword appears here")

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "s" {
		t.Errorf("search results = %+v, want 1 hit for s", results)
	}
}

// Package testutil provides shared test helpers for setting up deck
// libraries and databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/starford/skald/internal/index"
	"github.com/starford/skald/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "skald-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLibrary creates a temporary deck library with a storage.Provider.
func TestLibrary(t *testing.T) (string, storage.Provider) {
	t.Helper()
	libDir := t.TempDir()
	store, err := storage.NewFS(libDir)
	if err != nil {
		t.Fatal(err)
	}
	return libDir, store
}

// QuietLogger returns a logger that discards all output.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

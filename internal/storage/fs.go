package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/skald/internal/apperr"
	"github.com/starford/skald/internal/checksum"
	"github.com/starford/skald/internal/models"
)

const deckExt = ".json"

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the library directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute library directory, for file watchers.
func (f *FS) Root() string {
	return f.root
}

// deckPath maps a deck id to its absolute file path. Ids carrying path
// separators or traversal sequences are rejected so a crafted id can never
// escape the library directory.
func (f *FS) deckPath(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("storage: empty deck id: %w", apperr.ErrInvalid)
	}
	if id != filepath.Base(id) || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("storage: invalid deck id %q: %w", id, apperr.ErrInvalid)
	}
	abs := filepath.Join(f.root, id+deckExt)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: deck id escapes library root: %q: %w", id, apperr.ErrInvalid)
	}
	return abs, nil
}

// DeckID extracts the deck id from a library file path, or "" if the path is
// not a deck file.
func DeckID(path string) string {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, deckExt) || strings.HasPrefix(base, ".") {
		return ""
	}
	return strings.TrimSuffix(base, deckExt)
}

// List scans the library root and returns metadata for every deck file.
func (f *FS) List() ([]models.DeckMetadata, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []models.DeckMetadata
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id := DeckID(e.Name())
		if id == "" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: stat %s: %w", e.Name(), err)
		}
		data, err := os.ReadFile(filepath.Join(f.root, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("storage: read %s: %w", e.Name(), err)
		}
		out = append(out, models.DeckMetadata{
			ID:        id,
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the raw bytes of a deck file.
func (f *FS) Read(id string) ([]byte, error) {
	abs, err := f.deckPath(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: deck %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", id, err)
	}
	return data, nil
}

// Exists reports whether a deck file for id is present.
func (f *FS) Exists(id string) (bool, error) {
	abs, err := f.deckPath(id)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %s: %w", id, err)
	}
	return true, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(id string, content []byte) error {
	abs, err := f.deckPath(id)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".skald-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes a deck file from the library.
func (f *FS) Delete(id string) error {
	abs, err := f.deckPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage: deck %s: %w", id, apperr.ErrNotFound)
		}
		return fmt.Errorf("storage: delete %s: %w", id, err)
	}
	return nil
}

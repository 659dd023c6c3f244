// Package storage defines the deck-library file-system abstraction. Each deck
// is one JSON document stored as <id>.json in the library directory.
package storage

import "github.com/starford/skald/internal/models"

// Provider is the interface for deck library file operations.
type Provider interface {
	// List returns metadata for every deck file in the library.
	List() ([]models.DeckMetadata, error)
	// Read returns the raw JSON bytes of the deck with the given id.
	Read(id string) ([]byte, error)
	// Write atomically writes the deck document for id.
	Write(id string, content []byte) error
	// Delete removes the deck file for id.
	Delete(id string) error
	// Exists reports whether a deck file for id is present.
	Exists(id string) (bool, error)
}

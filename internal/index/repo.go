package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/skald/internal/apperr"
)

// DeckRow represents a row in the decks table.
type DeckRow struct {
	ID         string
	Title      string
	Subtitle   string
	SlideCount int
	Checksum   string
	UpdatedAt  time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string
	Title   string
	Snippet string
}

// UpsertDeck inserts or replaces a deck row and its FTS entry within a transaction.
// body carries the deck's searchable text (titles, bullets, presenter notes).
func (db *DB) UpsertDeck(d DeckRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO decks (id, title, subtitle, slide_count, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title       = excluded.title,
			subtitle    = excluded.subtitle,
			slide_count = excluded.slide_count,
			checksum    = excluded.checksum,
			body        = excluded.body,
			updated_at  = excluded.updated_at
	`, d.ID, d.Title, d.Subtitle, d.SlideCount, d.Checksum, body, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert deck: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, d.ID, d.Title, body); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteDeck removes a deck row and its FTS entry.
func (db *DB) DeleteDeck(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	_, _ = tx.Exec(`DELETE FROM decks WHERE id = ?`, id)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a deck, or empty string if not found.
func (db *DB) GetChecksum(id string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM decks WHERE id = ?`, id).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// GetDeck returns the indexed row for one deck.
func (db *DB) GetDeck(id string) (*DeckRow, error) {
	var d DeckRow
	err := db.conn.QueryRow(`
		SELECT id, title, subtitle, slide_count, checksum, updated_at
		FROM decks WHERE id = ?
	`, id).Scan(&d.ID, &d.Title, &d.Subtitle, &d.SlideCount, &d.Checksum, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: deck %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get deck: %w", err)
	}
	return &d, nil
}

// ListDecks returns one page of deck rows plus the total count.
// sort is "updated" (newest first, the default) or "title".
func (db *DB) ListDecks(limit, offset int, sort string) ([]DeckRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	order := `updated_at DESC`
	if sort == "title" {
		order = `title COLLATE NOCASE ASC`
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM decks`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count decks: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT id, title, subtitle, slide_count, checksum, updated_at
		FROM decks
		ORDER BY `+order+`
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list decks: %w", err)
	}
	defer rows.Close()

	var out []DeckRow
	for rows.Next() {
		var d DeckRow
		if err := rows.Scan(&d.ID, &d.Title, &d.Subtitle, &d.SlideCount, &d.Checksum, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// AllIDs returns every indexed deck id.
func (db *DB) AllIDs() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT id FROM decks`)
	if err != nil {
		return nil, fmt.Errorf("index: all ids: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns id → checksum for every indexed deck.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM decks`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

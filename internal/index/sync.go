package index

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/starford/skald/internal/checksum"
	"github.com/starford/skald/internal/models"
	"github.com/starford/skald/internal/storage"
)

// Sync walks the library and brings the index up to date:
//   - new/changed deck files are decoded and upserted
//   - decks removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.ID] = struct{}{}

		if checksums[m.ID] == m.Checksum {
			continue
		}

		data, err := store.Read(m.ID)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("id", m.ID), slog.String("error", err.Error()))
			continue
		}
		if err := IndexDocument(db, m.ID, data); err != nil {
			logger.Warn("sync: index failed", slog.String("id", m.ID), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("id", m.ID))
		}
	}

	// Remove stale entries.
	for id := range checksums {
		if _, ok := disk[id]; !ok {
			if err := db.DeleteDeck(id); err != nil {
				logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("id", id))
			}
		}
	}

	return nil
}

// IndexDocument decodes a deck document and upserts it into the DB.
// Exported so the deck service can index after its own writes.
func IndexDocument(db *DB, id string, data []byte) error {
	var deck models.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return err
	}

	row := DeckRow{
		ID:         id,
		Title:      deck.MainTitle,
		Subtitle:   deck.SubTitle,
		SlideCount: len(deck.Slides),
		Checksum:   checksum.Sum(data),
		UpdatedAt:  deck.UpdatedAt,
	}
	return db.UpsertDeck(row, deckBody(&deck))
}

// deckBody flattens a deck's visible and spoken text into one searchable blob.
func deckBody(d *models.Deck) string {
	var b strings.Builder
	b.WriteString(d.MainTitle)
	b.WriteByte('\n')
	b.WriteString(d.SubTitle)
	for _, s := range d.Slides {
		b.WriteByte('\n')
		b.WriteString(s.Title)
		for _, line := range s.Content {
			b.WriteByte('\n')
			b.WriteString(line)
		}
		if s.SpeakerNotes != "" {
			b.WriteByte('\n')
			b.WriteString(s.SpeakerNotes)
		}
	}
	return b.String()
}

// Package deckservice coordinates deck storage, indexing, image resolution,
// and export rendering behind one API used by the HTTP handlers and the MCP
// server.
package deckservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/starford/skald/internal/apperr"
	"github.com/starford/skald/internal/checksum"
	"github.com/starford/skald/internal/export"
	"github.com/starford/skald/internal/genai"
	"github.com/starford/skald/internal/images"
	"github.com/starford/skald/internal/index"
	"github.com/starford/skald/internal/models"
	"github.com/starford/skald/internal/storage"
	"github.com/starford/skald/internal/theme"
)

// DeckDetail is a deck plus its storage checksum, used for optimistic
// concurrency on updates.
type DeckDetail struct {
	models.Deck
	Checksum string `json:"checksum"`
}

// DeckListItem is a lightweight item in a list response.
type DeckListItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle,omitempty"`
	SlideCount int       `json:"slideCount"`
	Checksum   string    `json:"checksum"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Service coordinates storage, index, image, and export operations.
type Service struct {
	store    storage.Provider
	db       *index.DB
	fetcher  *images.Fetcher
	renderer *export.Renderer
	gen      *genai.Generator
	logger   *slog.Logger
}

// NewService creates a deck service. gen may be nil when no LLM is
// configured; generation and assistant calls then fail with ErrInvalid.
func NewService(store storage.Provider, db *index.DB, fetcher *images.Fetcher, gen *genai.Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		db:       db,
		fetcher:  fetcher,
		renderer: export.NewRenderer(),
		gen:      gen,
		logger:   logger,
	}
}

// GetDeck reads a deck from storage.
func (s *Service) GetDeck(_ context.Context, id string) (*DeckDetail, error) {
	data, err := s.store.Read(id)
	if err != nil {
		return nil, err
	}
	var deck models.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("deckservice: decode deck %s: %w", id, err)
	}
	return &DeckDetail{Deck: deck, Checksum: checksum.Sum(data)}, nil
}

// CreateDeck persists a new deck. An empty id gets a fresh one; slides
// without ids get theirs assigned.
func (s *Service) CreateDeck(_ context.Context, deck *models.Deck) (*DeckDetail, error) {
	if deck.MainTitle == "" {
		return nil, fmt.Errorf("deckservice: deck needs a title: %w", apperr.ErrInvalid)
	}
	deck.EnsureSlideIDs()
	if exists, err := s.store.Exists(deck.ID); err != nil {
		return nil, err
	} else if exists {
		return nil, apperr.ErrAlreadyExists
	}
	now := time.Now().UTC()
	if deck.CreatedAt.IsZero() {
		deck.CreatedAt = now
	}
	deck.UpdatedAt = now
	return s.save(deck)
}

// UpdateDeck replaces a deck's content with optimistic concurrency. The
// stored ImageSeeds and CustomImages maps are replaced wholesale; callers
// that only change slides should send the maps back unchanged.
func (s *Service) UpdateDeck(_ context.Context, deck *models.Deck, ifMatch string) (*DeckDetail, error) {
	existing, err := s.store.Read(deck.ID)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	deck.EnsureSlideIDs()
	deck.PruneOverrides()
	deck.UpdatedAt = time.Now().UTC()
	return s.save(deck)
}

// DeleteDeck removes a deck from storage and index.
func (s *Service) DeleteDeck(_ context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	return s.db.DeleteDeck(id)
}

// ListDecks returns paginated decks from the index.
func (s *Service) ListDecks(_ context.Context, limit, offset int, sort string) ([]DeckListItem, int, error) {
	rows, total, err := s.db.ListDecks(limit, offset, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DeckListItem, len(rows))
	for i, r := range rows {
		items[i] = DeckListItem{
			ID:         r.ID,
			Title:      r.Title,
			Subtitle:   r.Subtitle,
			SlideCount: r.SlideCount,
			Checksum:   r.Checksum,
			UpdatedAt:  r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Generate drafts a new deck from a topic or source text and persists it.
func (s *Service) Generate(ctx context.Context, req genai.GenerateRequest) (*DeckDetail, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("deckservice: no language model configured: %w", apperr.ErrInvalid)
	}
	deck, err := s.gen.GenerateDeck(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.save(deck)
}

// Assistant applies a free-form revision request to an existing deck.
func (s *Service) Assistant(ctx context.Context, id, message string) (*DeckDetail, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("deckservice: no language model configured: %w", apperr.ErrInvalid)
	}
	detail, err := s.GetDeck(ctx, id)
	if err != nil {
		return nil, err
	}
	revised, err := s.gen.EditDeck(ctx, &detail.Deck, message)
	if err != nil {
		return nil, err
	}
	return s.save(revised)
}

// AddSlide inserts a slide at position at (append when at is out of range).
func (s *Service) AddSlide(ctx context.Context, deckID string, slide models.Slide, at int) (*DeckDetail, error) {
	detail, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	deck := &detail.Deck
	if slide.ID == "" {
		slide.ID = models.NewSlideID()
	}
	if at < 0 || at > len(deck.Slides) {
		at = len(deck.Slides)
	}
	deck.Slides = append(deck.Slides[:at], append([]models.Slide{slide}, deck.Slides[at:]...)...)
	deck.UpdatedAt = time.Now().UTC()
	return s.save(deck)
}

// UpdateSlide replaces the content of one slide, keeping its id.
func (s *Service) UpdateSlide(ctx context.Context, deckID string, slide models.Slide) (*DeckDetail, error) {
	detail, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	deck := &detail.Deck
	existing, pos := deck.SlideByID(slide.ID)
	if existing == nil {
		return nil, fmt.Errorf("deckservice: slide %s: %w", slide.ID, apperr.ErrNotFound)
	}
	deck.Slides[pos] = slide
	deck.UpdatedAt = time.Now().UTC()
	return s.save(deck)
}

// RemoveSlide deletes a slide and any image overrides keyed to it.
func (s *Service) RemoveSlide(ctx context.Context, deckID, slideID string) (*DeckDetail, error) {
	detail, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	deck := &detail.Deck
	slide, pos := deck.SlideByID(slideID)
	if slide == nil {
		return nil, fmt.Errorf("deckservice: slide %s: %w", slideID, apperr.ErrNotFound)
	}
	deck.Slides = append(deck.Slides[:pos], deck.Slides[pos+1:]...)
	deck.DropOverrides(slideID)
	deck.UpdatedAt = time.Now().UTC()
	return s.save(deck)
}

// SetSlideImage stores an uploaded image for one slide. The data URI is
// decoded up front so a malformed upload is rejected at set time, not at
// export time.
func (s *Service) SetSlideImage(ctx context.Context, deckID, slideID, dataURI string) (*DeckDetail, error) {
	if _, err := images.DecodeDataURI(dataURI); err != nil {
		return nil, fmt.Errorf("deckservice: %v: %w", err, apperr.ErrInvalid)
	}
	detail, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	deck := &detail.Deck
	if slide, _ := deck.SlideByID(slideID); slide == nil {
		return nil, fmt.Errorf("deckservice: slide %s: %w", slideID, apperr.ErrNotFound)
	}
	if deck.CustomImages == nil {
		deck.CustomImages = make(map[string]string)
	}
	deck.CustomImages[slideID] = dataURI
	deck.UpdatedAt = time.Now().UTC()
	return s.save(deck)
}

// ClearSlideImage removes an uploaded image override.
func (s *Service) ClearSlideImage(ctx context.Context, deckID, slideID string) (*DeckDetail, error) {
	detail, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	deck := &detail.Deck
	if slide, _ := deck.SlideByID(slideID); slide == nil {
		return nil, fmt.Errorf("deckservice: slide %s: %w", slideID, apperr.ErrNotFound)
	}
	delete(deck.CustomImages, slideID)
	deck.UpdatedAt = time.Now().UTC()
	return s.save(deck)
}

// ReseedSlideImage assigns a fresh random seed to one slide so the next
// export fetches a different stock image.
func (s *Service) ReseedSlideImage(ctx context.Context, deckID, slideID string) (*DeckDetail, error) {
	detail, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	deck := &detail.Deck
	if slide, _ := deck.SlideByID(slideID); slide == nil {
		return nil, fmt.Errorf("deckservice: slide %s: %w", slideID, apperr.ErrNotFound)
	}
	if deck.ImageSeeds == nil {
		deck.ImageSeeds = make(map[string]string)
	}
	deck.ImageSeeds[slideID] = uuid.NewString()[:8]
	deck.UpdatedAt = time.Now().UTC()
	return s.save(deck)
}

// ExportOptions selects theme and optional full-page background for a
// PPTX export.
type ExportOptions struct {
	ThemeID         string
	BackgroundImage string // data URI, optional
}

// ExportPPTX renders a deck to PowerPoint bytes and returns them with the
// derived download filename. Image trouble degrades to imageless slides; it
// never fails the export.
func (s *Service) ExportPPTX(ctx context.Context, id string, opts ExportOptions) ([]byte, string, error) {
	detail, err := s.GetDeck(ctx, id)
	if err != nil {
		return nil, "", err
	}
	deck := &detail.Deck

	renderOpts := export.Options{Theme: theme.Lookup(opts.ThemeID)}

	if opts.BackgroundImage != "" {
		bg, err := images.DecodeDataURI(opts.BackgroundImage)
		if err != nil {
			return nil, "", fmt.Errorf("deckservice: background image: %v: %w", err, apperr.ErrInvalid)
		}
		renderOpts.Background = &export.Image{Data: bg.Data, MIME: bg.MIME}
	}

	renderOpts.SlideImages = s.resolveSlideImages(ctx, deck)

	data, err := s.renderer.Render(deck, renderOpts)
	if err != nil {
		return nil, "", err
	}
	return data, export.Filename(deck.MainTitle) + ".pptx", nil
}

// resolveSlideImages builds the slide-id → image map for an export. Custom
// uploads win over fetched stock images; fetches that fail leave the slide
// imageless. Nothing is fetched when the deck has images disabled.
func (s *Service) resolveSlideImages(ctx context.Context, deck *models.Deck) map[string]export.Image {
	if !deck.IncludeImages {
		return nil
	}

	out := make(map[string]export.Image)
	seeds := make(map[string]string)
	for i := range deck.Slides {
		slide := &deck.Slides[i]
		if custom := deck.CustomImage(slide); custom != "" {
			img, err := images.DecodeDataURI(custom)
			if err != nil {
				s.logger.Warn("stored custom image unreadable", "deck", deck.ID, "slide", slide.ID, "error", err)
				continue
			}
			out[slide.ID] = export.Image{Data: img.Data, MIME: img.MIME}
			continue
		}
		if seed := deck.ImageSeed(slide); seed != "" {
			seeds[slide.ID] = seed
		}
	}

	if s.fetcher != nil {
		for slideID, img := range s.fetcher.FetchAll(ctx, seeds) {
			out[slideID] = export.Image{Data: img.Data, MIME: img.MIME}
		}
	}
	return out
}

// ExportJSON returns the stored deck document pretty-printed, with the
// derived download filename.
func (s *Service) ExportJSON(ctx context.Context, id string) ([]byte, string, error) {
	detail, err := s.GetDeck(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := json.MarshalIndent(&detail.Deck, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("deckservice: encode deck: %w", err)
	}
	return data, export.Filename(detail.MainTitle) + ".json", nil
}

// ImportJSON creates a deck from an exported document. A new id is assigned
// so an import never collides with the deck it was exported from.
func (s *Service) ImportJSON(_ context.Context, data []byte) (*DeckDetail, error) {
	var deck models.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("deckservice: decode import: %v: %w", err, apperr.ErrInvalid)
	}
	if deck.MainTitle == "" {
		return nil, fmt.Errorf("deckservice: import has no title: %w", apperr.ErrInvalid)
	}
	deck.ID = models.NewDeckID()
	deck.EnsureSlideIDs()
	deck.PruneOverrides()
	now := time.Now().UTC()
	deck.CreatedAt = now
	deck.UpdatedAt = now
	return s.save(&deck)
}

// save marshals, writes, and indexes a deck, returning the fresh detail.
func (s *Service) save(deck *models.Deck) (*DeckDetail, error) {
	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("deckservice: encode deck: %w", err)
	}
	if err := s.store.Write(deck.ID, data); err != nil {
		return nil, err
	}
	if err := index.IndexDocument(s.db, deck.ID, data); err != nil {
		return nil, err
	}
	return &DeckDetail{Deck: *deck, Checksum: checksum.Sum(data)}, nil
}

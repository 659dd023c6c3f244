// Package models defines the domain types for Skald.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Deck is a complete presentation: cover metadata plus an ordered list of
// slides. Per-slide image overrides are keyed by the slide's stable ID, so
// inserting or removing slides never invalidates them.
type Deck struct {
	ID            string            `json:"id"`
	MainTitle     string            `json:"mainTitle"`
	SubTitle      string            `json:"subTitle,omitempty"`
	Slides        []Slide           `json:"slides"`
	IncludeImages bool              `json:"includeImages"`
	ImageSeeds    map[string]string `json:"imageSeeds,omitempty"`
	CustomImages  map[string]string `json:"customImages,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Slide is one page of a deck. ID is an opaque identifier assigned at
// creation; position in Deck.Slides determines display order only.
type Slide struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      []string `json:"content"`
	ImageKeyword string   `json:"imageKeyword,omitempty"`
	SpeakerNotes string   `json:"speakerNotes,omitempty"`
}

// DeckMetadata is a lightweight representation returned by list operations.
type DeckMetadata struct {
	ID        string    `json:"id"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSlideID returns a fresh opaque slide identifier.
func NewSlideID() string {
	return uuid.NewString()
}

// NewDeckID returns a fresh deck identifier.
func NewDeckID() string {
	return uuid.NewString()
}

// SlideByID returns the slide with the given ID and its position, or nil
// and -1 when no such slide exists.
func (d *Deck) SlideByID(id string) (*Slide, int) {
	for i := range d.Slides {
		if d.Slides[i].ID == id {
			return &d.Slides[i], i
		}
	}
	return nil, -1
}

// ImageSeed returns the effective image lookup seed for a slide: the
// per-slide override when one is set, otherwise the slide's own keyword.
func (d *Deck) ImageSeed(s *Slide) string {
	if seed, ok := d.ImageSeeds[s.ID]; ok && seed != "" {
		return seed
	}
	return s.ImageKeyword
}

// CustomImage returns the uploaded image data URI for a slide, or "" when
// none is set. A custom image always takes precedence over a fetched one.
func (d *Deck) CustomImage(s *Slide) string {
	return d.CustomImages[s.ID]
}

// EnsureSlideIDs assigns IDs to any slides that lack one. Decks produced by
// the generation model arrive without IDs; decks round-tripped through the
// JSON export keep theirs.
func (d *Deck) EnsureSlideIDs() {
	if d.ID == "" {
		d.ID = NewDeckID()
	}
	for i := range d.Slides {
		if d.Slides[i].ID == "" {
			d.Slides[i].ID = NewSlideID()
		}
	}
}

// DropOverrides removes image overrides that reference the given slide ID.
func (d *Deck) DropOverrides(slideID string) {
	delete(d.ImageSeeds, slideID)
	delete(d.CustomImages, slideID)
}

// PruneOverrides drops image overrides whose slide no longer exists.
func (d *Deck) PruneOverrides() {
	for id := range d.ImageSeeds {
		if s, _ := d.SlideByID(id); s == nil {
			delete(d.ImageSeeds, id)
		}
	}
	for id := range d.CustomImages {
		if s, _ := d.SlideByID(id); s == nil {
			delete(d.CustomImages, id)
		}
	}
}

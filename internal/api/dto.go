package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/skald/internal/deckservice"
	"github.com/starford/skald/internal/models"
)

// CreateDeckRequest is the request body for creating a deck by hand.
type CreateDeckRequest struct {
	MainTitle     string         `json:"mainTitle"`
	SubTitle      string         `json:"subTitle"`
	Slides        []models.Slide `json:"slides"`
	IncludeImages bool           `json:"includeImages"`
}

// Validate implements request validation.
func (r CreateDeckRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MainTitle, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.SubTitle, validation.Length(0, 300)),
	)
}

// GenerateDeckRequest is the request body for AI deck generation.
type GenerateDeckRequest struct {
	Topic         string `json:"topic"`
	SourceText    string `json:"sourceText"`
	SlideCount    int    `json:"slideCount"`
	IncludeImages bool   `json:"includeImages"`
}

// Validate requires a topic or source text and a sane slide count.
func (r GenerateDeckRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Topic, validation.Required.When(r.SourceText == "").Error("topic or sourceText is required")),
		validation.Field(&r.SlideCount, validation.Min(0), validation.Max(30)),
	)
}

// AssistantRequest is the request body for a deck revision.
type AssistantRequest struct {
	Message string `json:"message"`
}

// Validate implements request validation.
func (r AssistantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message, validation.Required, validation.Length(1, 4000)),
	)
}

// SlideRequest is the request body for adding or updating a slide.
type SlideRequest struct {
	Title        string   `json:"title"`
	Content      []string `json:"content"`
	ImageKeyword string   `json:"imageKeyword"`
	SpeakerNotes string   `json:"speakerNotes"`
	Position     *int     `json:"position,omitempty"`
}

// Validate implements request validation.
func (r SlideRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.When(len(r.Content) == 0).Error("title or content is required")),
	)
}

// SetImageRequest carries an uploaded slide image as a data URI.
type SetImageRequest struct {
	Image string `json:"image"`
}

// Validate implements request validation.
func (r SetImageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Image, validation.Required),
	)
}

// ExportRequest selects rendering options for a PPTX export.
type ExportRequest struct {
	Theme           string `json:"theme"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

// DeckListResponse wraps paginated deck listings.
type DeckListResponse struct {
	Decks []deckservice.DeckListItem `json:"decks"`
	Total int                        `json:"total"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/skald/internal/deckservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *deckservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Decks CRUD plus generation.
	r.Get("/decks", h.ListDecks)
	r.Post("/decks", h.CreateDeck)
	r.Post("/decks/generate", h.GenerateDeck)
	r.Post("/decks/import", h.ImportDeck)
	r.Get("/decks/{id}", h.GetDeck)
	r.Put("/decks/{id}", h.UpdateDeck)
	r.Delete("/decks/{id}", h.DeleteDeck)
	r.Post("/decks/{id}/assistant", h.Assistant)

	// Slides.
	r.Post("/decks/{id}/slides", h.AddSlide)
	r.Put("/decks/{id}/slides/{slideID}", h.UpdateSlide)
	r.Delete("/decks/{id}/slides/{slideID}", h.RemoveSlide)

	// Per-slide image overrides.
	r.Put("/decks/{id}/slides/{slideID}/image", h.SetSlideImage)
	r.Delete("/decks/{id}/slides/{slideID}/image", h.ClearSlideImage)
	r.Post("/decks/{id}/slides/{slideID}/image/reseed", h.ReseedSlideImage)

	// Exports.
	r.Post("/decks/{id}/export/pptx", h.ExportPPTX)
	r.Get("/decks/{id}/export/json", h.ExportJSON)

	// Themes and search.
	r.Get("/themes", h.ListThemes)
	r.Get("/search", h.Search)

	// Background image upload for exports.
	r.Post("/uploads/background", h.UploadBackground)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/skald/internal/deckservice"
	"github.com/starford/skald/internal/genai"
	"github.com/starford/skald/internal/models"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *deckservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *deckservice.Service) *Handler {
	return &Handler{svc: svc}
}

func deckID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func slideID(r *http.Request) string {
	return chi.URLParam(r, "slideID")
}

// decodeBody decodes a JSON request body into v and, when v validates
// itself, runs that validation.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if val, ok := v.(interface{ Validate() error }); ok {
		if err := val.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return false
		}
	}
	return true
}

// ListDecks handles GET /api/decks.
//
//	@Summary		List decks with pagination
//	@Tags			decks
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			sort	query		string	false	"Sort field"	Enums(updated, title)
//	@Success		200		{object}	DeckListResponse
//	@Security		BearerAuth
//	@Router			/decks [get]
func (h *Handler) ListDecks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	sort := q.Get("sort")

	items, total, err := h.svc.ListDecks(r.Context(), limit, offset, sort)
	if err != nil {
		writeError(w, err, "list decks failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"decks": items,
		"total": total,
	})
}

// GetDeck handles GET /api/decks/{id}.
//
//	@Summary		Get a single deck
//	@Tags			decks
//	@Produce		json
//	@Param			id	path		string	true	"Deck id"
//	@Success		200	{object}	deckservice.DeckDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/decks/{id} [get]
func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.svc.GetDeck(r.Context(), deckID(r))
	if err != nil {
		writeError(w, err, "get deck failed")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// CreateDeck handles POST /api/decks.
//
//	@Summary		Create a deck by hand
//	@Tags			decks
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateDeckRequest	true	"Deck to create"
//	@Success		201		{object}	deckservice.DeckDetail
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/decks [post]
func (h *Handler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if !decodeBody(w, r, &req) {
		return
	}
	deck, err := h.svc.CreateDeck(r.Context(), &models.Deck{
		MainTitle:     req.MainTitle,
		SubTitle:      req.SubTitle,
		Slides:        req.Slides,
		IncludeImages: req.IncludeImages,
	})
	if err != nil {
		writeError(w, err, "create deck failed")
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

// UpdateDeck handles PUT /api/decks/{id}.
//
//	@Summary		Replace a deck with optimistic concurrency
//	@Tags			decks
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string		true	"Deck id"
//	@Param			If-Match	header	string		false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body	models.Deck	true	"Updated deck"
//	@Success		200			{object}	deckservice.DeckDetail
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/decks/{id} [put]
func (h *Handler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	var deck models.Deck
	if !decodeBody(w, r, &deck) {
		return
	}
	deck.ID = deckID(r)
	if deck.MainTitle == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("mainTitle is required"))
		return
	}

	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)
	updated, err := h.svc.UpdateDeck(r.Context(), &deck, ifMatch)
	if err != nil {
		writeError(w, err, "update deck failed")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteDeck handles DELETE /api/decks/{id}.
//
//	@Summary		Delete a deck
//	@Tags			decks
//	@Param			id	path	string	true	"Deck id"
//	@Success		204	"Deck deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/decks/{id} [delete]
func (h *Handler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDeck(r.Context(), deckID(r)); err != nil {
		writeError(w, err, "delete deck failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateDeck handles POST /api/decks/generate.
//
//	@Summary		Generate a deck from a topic or pasted text
//	@Tags			decks
//	@Accept			json
//	@Produce		json
//	@Param			body	body		GenerateDeckRequest	true	"Generation request"
//	@Success		201		{object}	deckservice.DeckDetail
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/decks/generate [post]
func (h *Handler) GenerateDeck(w http.ResponseWriter, r *http.Request) {
	var req GenerateDeckRequest
	if !decodeBody(w, r, &req) {
		return
	}
	deck, err := h.svc.Generate(r.Context(), genai.GenerateRequest{
		Topic:         req.Topic,
		SourceText:    req.SourceText,
		SlideCount:    req.SlideCount,
		IncludeImages: req.IncludeImages,
	})
	if err != nil {
		writeError(w, err, "generate deck failed")
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

// Assistant handles POST /api/decks/{id}/assistant.
//
//	@Summary		Revise a deck with a free-form instruction
//	@Tags			decks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Deck id"
//	@Param			body	body		AssistantRequest	true	"Revision instruction"
//	@Success		200		{object}	deckservice.DeckDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/decks/{id}/assistant [post]
func (h *Handler) Assistant(w http.ResponseWriter, r *http.Request) {
	var req AssistantRequest
	if !decodeBody(w, r, &req) {
		return
	}
	deck, err := h.svc.Assistant(r.Context(), deckID(r), req.Message)
	if err != nil {
		writeError(w, err, "assistant failed")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// AddSlide handles POST /api/decks/{id}/slides.
func (h *Handler) AddSlide(w http.ResponseWriter, r *http.Request) {
	var req SlideRequest
	if !decodeBody(w, r, &req) {
		return
	}
	at := -1
	if req.Position != nil {
		at = *req.Position
	}
	deck, err := h.svc.AddSlide(r.Context(), deckID(r), models.Slide{
		Title:        req.Title,
		Content:      req.Content,
		ImageKeyword: req.ImageKeyword,
		SpeakerNotes: req.SpeakerNotes,
	}, at)
	if err != nil {
		writeError(w, err, "add slide failed")
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

// UpdateSlide handles PUT /api/decks/{id}/slides/{slideID}.
func (h *Handler) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	var req SlideRequest
	if !decodeBody(w, r, &req) {
		return
	}
	deck, err := h.svc.UpdateSlide(r.Context(), deckID(r), models.Slide{
		ID:           slideID(r),
		Title:        req.Title,
		Content:      req.Content,
		ImageKeyword: req.ImageKeyword,
		SpeakerNotes: req.SpeakerNotes,
	})
	if err != nil {
		writeError(w, err, "update slide failed")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// RemoveSlide handles DELETE /api/decks/{id}/slides/{slideID}.
func (h *Handler) RemoveSlide(w http.ResponseWriter, r *http.Request) {
	deck, err := h.svc.RemoveSlide(r.Context(), deckID(r), slideID(r))
	if err != nil {
		writeError(w, err, "remove slide failed")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// SetSlideImage handles PUT /api/decks/{id}/slides/{slideID}/image.
func (h *Handler) SetSlideImage(w http.ResponseWriter, r *http.Request) {
	var req SetImageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	deck, err := h.svc.SetSlideImage(r.Context(), deckID(r), slideID(r), req.Image)
	if err != nil {
		writeError(w, err, "set slide image failed")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// ClearSlideImage handles DELETE /api/decks/{id}/slides/{slideID}/image.
func (h *Handler) ClearSlideImage(w http.ResponseWriter, r *http.Request) {
	deck, err := h.svc.ClearSlideImage(r.Context(), deckID(r), slideID(r))
	if err != nil {
		writeError(w, err, "clear slide image failed")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// ReseedSlideImage handles POST /api/decks/{id}/slides/{slideID}/image/reseed.
func (h *Handler) ReseedSlideImage(w http.ResponseWriter, r *http.Request) {
	deck, err := h.svc.ReseedSlideImage(r.Context(), deckID(r), slideID(r))
	if err != nil {
		writeError(w, err, "reseed slide image failed")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across decks
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, err, fmt.Sprintf("search %q failed", q))
		return
	}
	results := make([]SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = SearchResult{ID: hit.ID, Title: hit.Title, Snippet: hit.Snippet}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

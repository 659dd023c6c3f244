package api

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/starford/skald/internal/deckservice"
	"github.com/starford/skald/internal/theme"
)

const maxUploadBytes = 20 << 20 // 20 MB

// ExportPPTX handles POST /api/decks/{id}/export/pptx. The body selects the
// theme and an optional full-page background; the response is the rendered
// file as a download.
//
//	@Summary		Export a deck to PowerPoint
//	@Tags			exports
//	@Accept			json
//	@Produce		application/vnd.openxmlformats-officedocument.presentationml.presentation
//	@Param			id		path	string			true	"Deck id"
//	@Param			body	body	ExportRequest	false	"Export options"
//	@Success		200		{file}	binary
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/decks/{id}/export/pptx [post]
func (h *Handler) ExportPPTX(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	data, filename, err := h.svc.ExportPPTX(r.Context(), deckID(r), deckservice.ExportOptions{
		ThemeID:         req.Theme,
		BackgroundImage: req.BackgroundImage,
	})
	if err != nil {
		writeError(w, err, "export pptx failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", contentDisposition(filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	_, _ = w.Write(data)
}

// ExportJSON handles GET /api/decks/{id}/export/json.
//
//	@Summary		Export a deck as a JSON document
//	@Tags			exports
//	@Produce		json
//	@Param			id	path	string	true	"Deck id"
//	@Success		200	{file}	binary
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/decks/{id}/export/json [get]
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.svc.ExportJSON(r.Context(), deckID(r))
	if err != nil {
		writeError(w, err, "export json failed")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", contentDisposition(filename))
	_, _ = w.Write(data)
}

// ImportDeck handles POST /api/decks/import with a previously exported
// deck document as the body.
func (h *Handler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	deck, err := h.svc.ImportJSON(r.Context(), body)
	if err != nil {
		writeError(w, err, "import deck failed")
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

// ListThemes handles GET /api/themes.
//
//	@Summary		List the theme catalog
//	@Tags			themes
//	@Produce		json
//	@Success		200	{array}	theme.Theme
//	@Security		BearerAuth
//	@Router			/themes [get]
func (h *Handler) ListThemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"themes": theme.All(),
	})
}

// UploadBackground handles POST /api/uploads/background
// (multipart/form-data, field "file"). The image comes back as a data URI
// ready to pass to the PPTX export.
func (h *Handler) UploadBackground(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	uri, size, err := fileToDataURI(file, header)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"filename": header.Filename,
		"size":     size,
		"dataUri":  uri,
	})
}

// contentDisposition builds an attachment header that survives non-ASCII
// filenames by carrying both a plain and an RFC 5987 encoded form.
func contentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r < 32 || r > 126 || r == '"' {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, escapeRFC5987(filename))
}

func escapeRFC5987(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '-', c == '_', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// fileToDataURI reads an uploaded image and encodes it as a data URI.
func fileToDataURI(file multipart.File, header *multipart.FileHeader) (string, int64, error) {
	mime := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mime, "image/") {
		return "", 0, fmt.Errorf("unsupported media type %q", mime)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read upload")
	}
	if len(data) == 0 {
		return "", 0, fmt.Errorf("empty upload")
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), int64(len(data)), nil
}

package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/starford/skald/internal/models"
	"github.com/starford/skald/internal/theme"
)

// slideParts unzips a rendered document and returns the XML of each slide
// page, in part order.
func slideParts(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("rendered output is not a zip archive: %v", err)
	}
	var parts []string
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "ppt/slides/slide") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts = append(parts, string(raw))
	}
	return parts
}

func TestRender_ZeroSlidesCoverOnly(t *testing.T) {
	deck := &models.Deck{MainTitle: "Quarterly Review", Slides: []models.Slide{}}
	out, err := NewRenderer().Render(deck, Options{Theme: theme.Default()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	parts := slideParts(t, out)
	if len(parts) != 1 {
		t.Fatalf("zero-slide deck should produce exactly one page, got %d", len(parts))
	}
	if !strings.Contains(parts[0], "Quarterly Review") {
		t.Error("cover page missing the deck title")
	}
}

func TestRender_CleanWhiteColorsAndCapitalization(t *testing.T) {
	deck := &models.Deck{
		MainTitle: "demo",
		Slides: []models.Slide{
			{ID: "s1", Title: "intro", Content: []string{"a", "b"}},
		},
	}
	th := theme.Lookup("clean-white")
	out, err := NewRenderer().Render(deck, Options{Theme: th})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	parts := slideParts(t, out)
	if len(parts) != 2 {
		t.Fatalf("expected cover + 1 slide, got %d pages", len(parts))
	}
	all := strings.Join(parts, "\n")
	if !strings.Contains(all, "Intro") {
		t.Error("slide title should be capitalized to Intro")
	}
	if !strings.Contains(all, "• A") || !strings.Contains(all, "• B") {
		t.Error("bullets should be capitalized to A and B")
	}
	if !strings.Contains(all, th.Export.Accent) {
		t.Errorf("accent color %s missing from output", th.Export.Accent)
	}
	if !strings.Contains(all, th.Export.Text) {
		t.Errorf("text color %s missing from output", th.Export.Text)
	}
}

func TestRender_SlideImageEmbedded(t *testing.T) {
	deck := &models.Deck{
		MainTitle:     "with images",
		IncludeImages: true,
		Slides:        []models.Slide{{ID: "s1", Title: "pics", Content: []string{"x"}}},
	}
	out, err := NewRenderer().Render(deck, Options{
		Theme:       theme.Default(),
		SlideImages: map[string]Image{"s1": {Data: tinyPNG(), MIME: "image/png"}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("unzip: %v", err)
	}
	found := false
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/media/") {
			found = true
		}
	}
	if !found {
		t.Error("expected an embedded media part for the slide image")
	}
}

func TestRender_NoImageEntryOmitsBlock(t *testing.T) {
	deck := &models.Deck{
		MainTitle:     "plain",
		IncludeImages: true,
		Slides:        []models.Slide{{ID: "s1", Title: "text only", Content: []string{"x"}}},
	}
	out, err := NewRenderer().Render(deck, Options{Theme: theme.Default()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("unzip: %v", err)
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/media/") {
			t.Errorf("unexpected media part %s for imageless slide", f.Name)
		}
	}
}

func TestRender_SpeakerNotesStayOffVisibleSlides(t *testing.T) {
	deck := &models.Deck{
		MainTitle: "talk",
		Slides: []models.Slide{
			{ID: "s1", Title: "agenda", Content: []string{"x"}, SpeakerNotes: "pause for questions here"},
		},
	}
	out, err := NewRenderer().Render(deck, Options{Theme: theme.Default()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	parts := slideParts(t, out)
	if len(parts) != 2 {
		t.Fatalf("notes must not add visible pages: got %d, want 2", len(parts))
	}
	for _, p := range parts {
		if strings.Contains(p, "ause for questions here") {
			t.Error("speaker notes leaked onto a visible slide")
		}
	}
}

// tinyPNG returns a 1x1 transparent PNG.
func tinyPNG() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
		0x0A, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49,
		0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
	}
}

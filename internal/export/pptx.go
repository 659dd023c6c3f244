// Package export implements the deck export pipeline: serializing a Deck
// plus a Theme and resolved image overrides into a PPTX document, together
// with the text sanitization, layout fitting, and filename rules shared by
// every export path.
package export

import (
	"bytes"
	"fmt"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/starford/skald/internal/models"
	"github.com/starford/skald/internal/theme"
)

// Image is an embeddable slide image.
type Image struct {
	Data []byte
	MIME string
}

// Options configure a single render.
type Options struct {
	// Theme supplies the resolved export hex colors.
	Theme theme.Theme
	// Background, when set, replaces the flat theme background on every
	// page and suppresses the decorative accent bars.
	Background *Image
	// SlideImages maps slide ID to the image embedded on that slide.
	// Precedence between custom and fetched images is resolved by the
	// caller; a missing entry means the image block is omitted.
	SlideImages map[string]Image
}

// Renderer serializes decks into PPTX documents. It is a pure
// transformation: the deck is never mutated, and a failed render leaves no
// partial output.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the PPTX bytes for a deck. A deck with zero slides is
// valid and yields a cover-only document.
func (r *Renderer) Render(deck *models.Deck, opts Options) ([]byte, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = Sanitize(deck.MainTitle)
	p.GetDocumentProperties().Creator = "Skald"

	cover := p.GetActiveSlide()
	r.drawPageBackground(cover, opts)
	r.drawCover(cover, deck, opts)

	for i := range deck.Slides {
		s := &deck.Slides[i]
		slide := p.CreateSlide()
		r.drawPageBackground(slide, opts)
		r.drawSlide(slide, deck, s, opts)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("export: create writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("export: write pptx: %w", err)
	}
	return buf.Bytes(), nil
}

func argb(hex string) ppt.Color {
	return ppt.NewColor("FF" + hex)
}

func solidFill(hex string) *ppt.Fill {
	return ppt.NewFill().SetSolid(argb(hex))
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// drawPageBackground fills the page. Shapes added earlier sit behind later
// ones, so this must be the first shape on every slide.
func (r *Renderer) drawPageBackground(slide *ppt.Slide, opts Options) {
	if opts.Background != nil {
		bg := slide.CreateDrawingShape()
		bg.SetImageData(opts.Background.Data, opts.Background.MIME)
		bg.SetOffsetX(0).SetOffsetY(0)
		bg.SetWidth(slideWidth).SetHeight(slideHeight)
		return
	}
	fill := slide.CreateRichTextShape()
	fill.SetOffsetX(0).SetOffsetY(0)
	fill.SetWidth(slideWidth).SetHeight(slideHeight)
	fill.SetFill(solidFill(opts.Theme.Export.Background))
}

func (r *Renderer) drawCover(slide *ppt.Slide, deck *models.Deck, opts Options) {
	title := Sanitize(deck.MainTitle)
	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(1.8 * emuPerInch))
	titleShape.SetWidth(contentWidth).SetHeight(int64(1.2 * emuPerInch))
	size := fitFontSize([]string{title}, fontCoverTitle, contentWidth, int64(1.2*emuPerInch))
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(size).SetBold(true).SetColor(argb(opts.Theme.Export.Text))
	alignCenter(titleShape.GetActiveParagraph())

	if sub := Sanitize(deck.SubTitle); sub != "" {
		subShape := slide.CreateRichTextShape()
		subShape.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(3.2 * emuPerInch))
		subShape.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(0.8 * emuPerInch))
		subSize := fitFontSize([]string{sub}, fontSubtitle, int64(8.0*emuPerInch), int64(0.8*emuPerInch))
		str := subShape.CreateTextRun(sub)
		str.GetFont().SetSize(subSize).SetColor(argb(opts.Theme.Export.Secondary))
		alignCenter(subShape.GetActiveParagraph())
	}

	// The accent bar reads as clutter on top of a photo background.
	if opts.Background == nil {
		bar := slide.CreateRichTextShape()
		bar.SetOffsetX(0).SetOffsetY(int64(5.45 * emuPerInch))
		bar.SetWidth(slideWidth).SetHeight(int64(0.125 * emuPerInch))
		bar.SetFill(solidFill(opts.Theme.Export.Accent))
	}
}

func (r *Renderer) drawSlide(slide *ppt.Slide, deck *models.Deck, s *models.Slide, opts Options) {
	title := Sanitize(s.Title)
	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(0.35 * emuPerInch))
	titleShape.SetWidth(contentWidth).SetHeight(int64(0.7 * emuPerInch))
	size := fitFontSize([]string{title}, fontSlideTitle, contentWidth, int64(0.7*emuPerInch))
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(size).SetBold(true).SetColor(argb(opts.Theme.Export.Accent))

	sep := slide.CreateRichTextShape()
	sep.SetOffsetX(marginLeft).SetOffsetY(int64(1.08 * emuPerInch))
	sep.SetWidth(contentWidth).SetHeight(int64(0.03 * emuPerInch))
	sep.SetFill(solidFill(opts.Theme.Export.Accent))

	bodyWidth := contentWidth
	if img, ok := opts.SlideImages[s.ID]; ok && deck.IncludeImages {
		imgShape := slide.CreateDrawingShape()
		imgShape.SetImageData(img.Data, img.MIME)
		imgShape.SetOffsetX(int64(6.3 * emuPerInch)).SetOffsetY(int64(1.3 * emuPerInch))
		imgShape.SetWidth(imageBlockWidth).SetHeight(imageBlockHeight)
		bodyWidth = narrowBodyWidth
	}

	r.drawBullets(slide, s, bodyWidth, opts)

	if notes := Sanitize(s.SpeakerNotes); notes != "" {
		r.attachNotes(slide, notes)
	}
}

func (r *Renderer) drawBullets(slide *ppt.Slide, s *models.Slide, bodyWidth int64, opts Options) {
	bullets := make([]string, 0, len(s.Content))
	for _, b := range s.Content {
		if clean := Sanitize(b); clean != "" {
			bullets = append(bullets, clean)
		}
	}
	if len(bullets) == 0 {
		return
	}

	body := slide.CreateRichTextShape()
	body.SetOffsetX(marginLeft).SetOffsetY(int64(1.3 * emuPerInch))
	body.SetWidth(bodyWidth).SetHeight(contentHeight)

	size := fitFontSize(bullets, fontBody, bodyWidth, contentHeight)
	for i, b := range bullets {
		if i > 0 {
			// Spacer paragraph between bullets.
			body.CreateParagraph()
			sp := body.CreateTextRun(" ")
			sp.GetFont().SetSize(fontSpacer)
			body.CreateParagraph()
		}
		tr := body.CreateTextRun("• " + b)
		tr.GetFont().SetSize(size).SetColor(argb(opts.Theme.Export.Text))
	}
}

// attachNotes puts speaker notes on the slide's notes page, invisible in
// the slideshow itself.
func (r *Renderer) attachNotes(slide *ppt.Slide, notes string) {
	slide.SetNotes(notes)
}

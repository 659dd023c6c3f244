package export

import "unicode/utf8"

// Slide geometry in EMU, 16:9 widescreen.
const (
	emuPerInch = 914400

	slideWidth  = int64(10.0 * emuPerInch)
	slideHeight = int64(5.625 * emuPerInch)

	marginLeft    = int64(0.4 * emuPerInch)
	contentWidth  = int64(9.2 * emuPerInch)
	contentHeight = int64(4.1 * emuPerInch)

	// Width fraction reserved for the slide image block.
	imageBlockWidth  = int64(3.3 * emuPerInch)
	imageBlockHeight = int64(3.3 * emuPerInch)
	// Body text width when an image block is present.
	narrowBodyWidth = int64(5.5 * emuPerInch)
)

// Base font sizes in points.
const (
	fontCoverTitle = 40
	fontSubtitle   = 20
	fontSlideTitle = 28
	fontBody       = 16
	fontMin        = 9

	// Spacer run size between bullet paragraphs.
	fontSpacer = 6
)

// emuToPoints converts an EMU length to typographic points (1 pt = 12700 EMU).
func emuToPoints(emu int64) float64 {
	return float64(emu) / 12700.0
}

// estimateTextHeight approximates the rendered height, in points, of the
// given paragraphs wrapped into a box of boxWPt points at size sizePt,
// including inter-paragraph spacing. The character width model is the same
// rough average the slide viewer uses; it errs on the tall side so that
// shrinking decisions never produce overflow.
func estimateTextHeight(paragraphs []string, sizePt int, boxWPt float64) float64 {
	if boxWPt <= 0 {
		return 0
	}
	charW := 0.55 * float64(sizePt)
	charsPerLine := int(boxWPt / charW)
	if charsPerLine < 1 {
		charsPerLine = 1
	}
	lineH := 1.3 * float64(sizePt)
	spacing := 0.6 * float64(sizePt)

	var total float64
	for i, p := range paragraphs {
		n := utf8.RuneCountInString(p)
		lines := (n + charsPerLine - 1) / charsPerLine
		if lines < 1 {
			lines = 1
		}
		total += float64(lines) * lineH
		if i > 0 {
			total += spacing
		}
	}
	return total
}

// fitFontSize returns the largest size not exceeding base at which the
// paragraphs fit the given box, shrinking down to fontMin. Text is never
// clipped: when even fontMin overflows the estimate, fontMin is returned
// and the box simply fills completely.
func fitFontSize(paragraphs []string, base int, boxW, boxH int64) int {
	boxWPt := emuToPoints(boxW)
	boxHPt := emuToPoints(boxH)
	for size := base; size > fontMin; size-- {
		if estimateTextHeight(paragraphs, size, boxWPt) <= boxHPt {
			return size
		}
	}
	return fontMin
}

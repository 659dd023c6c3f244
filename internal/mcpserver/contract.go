package mcpserver

// DeckFormatContract describes the canonical deck JSON format that
// LLM consumers should follow when creating or updating decks.
const DeckFormatContract = `# Skald Deck Format Contract

Every deck stored in Skald is a single JSON document with this structure.

## Structure

` + "```" + `json
{
  "mainTitle": "Presentation title",
  "subTitle": "Optional subtitle shown on the cover slide",
  "includeImages": true,
  "slides": [
    {
      "title": "Slide heading",
      "content": ["First bullet point", "Second bullet point"],
      "imageKeyword": "mountain sunrise",
      "speakerNotes": "What the presenter should say on this slide."
    }
  ]
}
` + "```" + `

## Rules

1. **` + "`" + `mainTitle` + "`" + ` is required.** It is the primary display name everywhere
   and drives the exported file name.
2. **Each slide needs a title or at least one bullet.** Fully empty slides
   are rejected.
3. **Bullets are short.** 3-5 per slide; each one a single sentence or phrase.
4. **` + "`" + `imageKeyword` + "`" + ` is a short English noun phrase** (1-3 words) used to
   look up an illustrative photo when ` + "`" + `includeImages` + "`" + ` is true. Omit it for
   slides that do not need an image.
5. **` + "`" + `speakerNotes` + "`" + ` is optional prose** in the same language as the deck.
6. **Do not invent slide ids.** The server assigns a stable id to every
   slide on creation; when editing an existing deck keep the ids exactly as
   read and omit them only for newly added slides.
7. **Titles and bullets may use any language** including Cyrillic; they are
   capitalized and trimmed automatically on export.

## Images

- Attach a custom image to a slide via the ` + "`" + `set_slide_image` + "`" + ` tool.
  Custom images always take precedence over fetched ones.
- Supported formats: png, jpg, jpeg, gif, webp.
- Custom images are stored inside the deck document as base64 data URIs and
  travel with JSON exports.

## Example

` + "```" + `json
{
  "mainTitle": "Quarterly review",
  "subTitle": "Q3 results",
  "includeImages": false,
  "slides": [
    {
      "title": "Revenue",
      "content": ["Up 12% quarter over quarter", "Driven by the EU launch"],
      "speakerNotes": "Pause here for questions about the EU numbers."
    },
    {
      "title": "Next quarter",
      "content": ["Ship the mobile app", "Hire two engineers"]
    }
  ]
}
` + "```" + `
`

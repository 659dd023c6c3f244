package genai

import (
	"fmt"
	"strings"
)

const defaultSlideCount = 6

const generateSystemPrompt = `You are a presentation writer. You produce slide decks as a single JSON object and nothing else: no markdown fences, no commentary.

The JSON object has this shape:
{
  "mainTitle": string,
  "subTitle": string,
  "slides": [
    {
      "title": string,
      "content": [string, ...],
      "imageKeyword": string,
      "speakerNotes": string
    }
  ]
}

Rules:
- Each slide carries 3 to 5 short bullet points in "content".
- "imageKeyword" is one or two words naming a concrete visual for the slide.
- "speakerNotes" is 2 to 3 spoken sentences expanding on the bullets.
- Write in the same language as the user's input.`

const editSystemPrompt = `You are a presentation editor. You receive the current deck as JSON and an instruction, and you return the complete revised deck as a single JSON object in the same shape: no markdown fences, no commentary.

Rules:
- Keep the "id" field of every slide you did not remove. Leave "id" out for slides you add.
- Apply only the requested change; keep everything else as it was.
- Keep 3 to 5 bullet points per slide.`

func buildGeneratePrompt(req GenerateRequest) string {
	var b strings.Builder
	if req.SourceText != "" {
		b.WriteString("Create a presentation from the following source material.\n\n")
		b.WriteString(req.SourceText)
		b.WriteString("\n\n")
		if req.Topic != "" {
			fmt.Fprintf(&b, "Focus on: %s\n", req.Topic)
		}
	} else {
		fmt.Fprintf(&b, "Create a presentation about: %s\n", req.Topic)
	}
	fmt.Fprintf(&b, "The deck needs exactly %d content slides.", req.SlideCount)
	return b.String()
}

func buildEditPrompt(currentJSON, message string) string {
	return fmt.Sprintf("Current deck:\n%s\n\nInstruction: %s", currentJSON, message)
}

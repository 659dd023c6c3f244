package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/starford/skald/internal/models"
)

// parseDeck decodes a model response into a deck. Models are told to emit
// bare JSON but still wrap it in markdown fences or prose often enough that
// the parser tolerates both.
func parseDeck(content string) (*models.Deck, error) {
	raw := extractJSON(content)
	if raw == "" {
		return nil, fmt.Errorf("genai: no JSON object in model response")
	}

	var deck models.Deck
	if err := json.Unmarshal([]byte(raw), &deck); err != nil {
		return nil, fmt.Errorf("genai: decode deck draft: %w", err)
	}
	if deck.MainTitle == "" {
		return nil, fmt.Errorf("genai: deck draft has no title")
	}
	if len(deck.Slides) == 0 {
		return nil, fmt.Errorf("genai: deck draft has no slides")
	}
	for i, s := range deck.Slides {
		if s.Title == "" && len(s.Content) == 0 {
			return nil, fmt.Errorf("genai: slide %d is empty", i)
		}
	}
	return &deck, nil
}

// extractJSON returns the outermost JSON object embedded in s, stripping any
// surrounding markdown fences or prose.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

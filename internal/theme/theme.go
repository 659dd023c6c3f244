// Package theme holds the fixed palette catalog used for deck rendering.
//
// Every theme carries two representations of the same four color roles:
// Screen colors are CSS values handed to the browser frontend, Export colors
// are RRGGBB hex used by the document writer.
package theme

// Colors is one representation of a palette's four roles.
type Colors struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
	Secondary  string `json:"secondary"`
}

// Theme is an immutable catalog entry.
type Theme struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Screen Colors `json:"screen"`
	Export Colors `json:"export"`
}

// catalog order matters: the first entry is the fallback for unknown IDs.
var catalog = []Theme{
	{
		ID:   "clean-white",
		Name: "Clean White",
		Screen: Colors{
			Background: "#ffffff",
			Text:       "#1f2937",
			Accent:     "#2563eb",
			Secondary:  "#64748b",
		},
		Export: Colors{
			Background: "FFFFFF",
			Text:       "1F2937",
			Accent:     "2563EB",
			Secondary:  "64748B",
		},
	},
	{
		ID:   "midnight",
		Name: "Midnight",
		Screen: Colors{
			Background: "#0f172a",
			Text:       "#e2e8f0",
			Accent:     "#38bdf8",
			Secondary:  "#94a3b8",
		},
		Export: Colors{
			Background: "0F172A",
			Text:       "E2E8F0",
			Accent:     "38BDF8",
			Secondary:  "94A3B8",
		},
	},
	{
		ID:   "ocean",
		Name: "Ocean",
		Screen: Colors{
			Background: "#f0f9ff",
			Text:       "#0c4a6e",
			Accent:     "#0284c7",
			Secondary:  "#0891b2",
		},
		Export: Colors{
			Background: "F0F9FF",
			Text:       "0C4A6E",
			Accent:     "0284C7",
			Secondary:  "0891B2",
		},
	},
	{
		ID:   "sunset",
		Name: "Sunset",
		Screen: Colors{
			Background: "#fff7ed",
			Text:       "#431407",
			Accent:     "#ea580c",
			Secondary:  "#d97706",
		},
		Export: Colors{
			Background: "FFF7ED",
			Text:       "431407",
			Accent:     "EA580C",
			Secondary:  "D97706",
		},
	},
	{
		ID:   "forest",
		Name: "Forest",
		Screen: Colors{
			Background: "#f0fdf4",
			Text:       "#14532d",
			Accent:     "#16a34a",
			Secondary:  "#65a30d",
		},
		Export: Colors{
			Background: "F0FDF4",
			Text:       "14532D",
			Accent:     "16A34A",
			Secondary:  "65A30D",
		},
	},
}

// All returns the catalog in display order.
func All() []Theme {
	out := make([]Theme, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup resolves a theme by ID or name. Unrecognized identifiers fall back
// to the first catalog entry, so Lookup never fails.
func Lookup(id string) Theme {
	for _, t := range catalog {
		if t.ID == id || t.Name == id {
			return t
		}
	}
	return catalog[0]
}

// Default returns the fallback theme.
func Default() Theme {
	return catalog[0]
}

package models

import "testing"

func twoSlideDeck() Deck {
	return Deck{
		ID:        "d1",
		MainTitle: "Test",
		Slides: []Slide{
			{ID: "s1", Title: "one", ImageKeyword: "forest"},
			{ID: "s2", Title: "two", ImageKeyword: "ocean"},
		},
	}
}

func TestSlideByID(t *testing.T) {
	d := twoSlideDeck()
	s, pos := d.SlideByID("s2")
	if s == nil || pos != 1 || s.Title != "two" {
		t.Errorf("SlideByID = %v, %d", s, pos)
	}
	if s, pos := d.SlideByID("missing"); s != nil || pos != -1 {
		t.Errorf("missing slide = %v, %d", s, pos)
	}
}

func TestImageSeed_OverrideWinsOverKeyword(t *testing.T) {
	d := twoSlideDeck()
	d.ImageSeeds = map[string]string{"s1": "a1b2c3d4"}

	if got := d.ImageSeed(&d.Slides[0]); got != "a1b2c3d4" {
		t.Errorf("seed = %q", got)
	}
	if got := d.ImageSeed(&d.Slides[1]); got != "ocean" {
		t.Errorf("keyword fallback = %q", got)
	}
}

func TestEnsureSlideIDs(t *testing.T) {
	d := Deck{
		MainTitle: "New",
		Slides:    []Slide{{Title: "a"}, {ID: "keep-me", Title: "b"}},
	}
	d.EnsureSlideIDs()

	if d.ID == "" {
		t.Error("deck id not assigned")
	}
	if d.Slides[0].ID == "" {
		t.Error("slide id not assigned")
	}
	if d.Slides[1].ID != "keep-me" {
		t.Errorf("existing id overwritten: %q", d.Slides[1].ID)
	}
}

func TestEnsureSlideIDs_Unique(t *testing.T) {
	d := Deck{Slides: []Slide{{}, {}, {}}}
	d.EnsureSlideIDs()
	seen := map[string]bool{}
	for _, s := range d.Slides {
		if seen[s.ID] {
			t.Fatalf("duplicate slide id %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestDropOverrides(t *testing.T) {
	d := twoSlideDeck()
	d.ImageSeeds = map[string]string{"s1": "x", "s2": "y"}
	d.CustomImages = map[string]string{"s1": "data:image/png;base64,AA=="}

	d.DropOverrides("s1")
	if _, ok := d.ImageSeeds["s1"]; ok {
		t.Error("seed not dropped")
	}
	if _, ok := d.CustomImages["s1"]; ok {
		t.Error("custom image not dropped")
	}
	if d.ImageSeeds["s2"] != "y" {
		t.Error("unrelated seed dropped")
	}
}

func TestPruneOverrides(t *testing.T) {
	d := twoSlideDeck()
	d.ImageSeeds = map[string]string{"s1": "x", "ghost": "y"}
	d.CustomImages = map[string]string{"ghost": "data:image/png;base64,AA=="}

	d.PruneOverrides()
	if _, ok := d.ImageSeeds["ghost"]; ok {
		t.Error("orphaned seed kept")
	}
	if _, ok := d.CustomImages["ghost"]; ok {
		t.Error("orphaned custom image kept")
	}
	if d.ImageSeeds["s1"] != "x" {
		t.Error("valid seed dropped")
	}
}

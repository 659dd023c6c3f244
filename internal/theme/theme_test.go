package theme

import "testing"

func TestLookup(t *testing.T) {
	if got := Lookup("midnight"); got.Name != "Midnight" {
		t.Errorf("by id = %+v", got)
	}
	if got := Lookup("Ocean"); got.ID != "ocean" {
		t.Errorf("by name = %+v", got)
	}
}

func TestLookup_UnknownFallsBack(t *testing.T) {
	got := Lookup("neon-vaporwave")
	if got.ID != Default().ID {
		t.Errorf("fallback = %+v", got)
	}
	if got.ID != "clean-white" {
		t.Errorf("default should be clean-white, got %q", got.ID)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	themes := All()
	if len(themes) != 5 {
		t.Fatalf("catalog size = %d", len(themes))
	}
	themes[0].ID = "mutated"
	if All()[0].ID != "clean-white" {
		t.Error("All should return a copy of the catalog")
	}
}

func TestCatalog_ExportColorsAreHex(t *testing.T) {
	for _, th := range All() {
		for _, c := range []string{th.Export.Background, th.Export.Text, th.Export.Accent, th.Export.Secondary} {
			if len(c) != 6 {
				t.Errorf("theme %s export color %q is not RRGGBB", th.ID, c)
			}
		}
	}
}

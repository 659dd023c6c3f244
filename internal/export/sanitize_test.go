package export

import "testing"

func TestSanitize_TrimsAndCapitalizes(t *testing.T) {
	cases := map[string]string{
		"  hello world ": "Hello world",
		"intro":          "Intro",
		"Intro":          "Intro",
		"a":              "A",
		"моя тема":       "Моя тема",
		"42 things":      "42 things",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitize_EmptyAndWhitespace(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t  "} {
		if got := Sanitize(in); got != "" {
			t.Errorf("Sanitize(%q) = %q, want empty", in, got)
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{"", "  x  ", "hello world", "ПРИВЕТ", "1 two three", "  ", "éclair"}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestFilename_MixedScripts(t *testing.T) {
	got := Filename("Моя Тема 2024!!!")
	if got != "Моя Тема 2024" {
		t.Errorf("Filename = %q, want %q", got, "Моя Тема 2024")
	}
}

func TestFilename_AllDisallowedFallsBack(t *testing.T) {
	for _, in := range []string{"!!!", "???***", "", "   ", "你好世界"} {
		if got := Filename(in); got != DefaultFilename {
			t.Errorf("Filename(%q) = %q, want %q", in, got, DefaultFilename)
		}
	}
}

func TestFilename_LengthBounded(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "abc "
	}
	got := Filename(long)
	if n := len([]rune(got)); n > maxFilenameRunes {
		t.Errorf("Filename length = %d, want <= %d", n, maxFilenameRunes)
	}
	if got == "" || got == DefaultFilename {
		t.Errorf("long valid title should not fall back, got %q", got)
	}
}

package nlp

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Senior Python Developer", "senior python developer"},
		{"collapses punctuation", "Go, Python & SQL!", "go python sql"},
		{"keeps plus and hash", "C++ / C# developer", "c++ c# developer"},
		{"collapses whitespace runs", "a\t b\n\n  c", "a b c"},
		{"empty", "", ""},
		{"only punctuation", "!!! ---", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("go python go sql")
	if len(got) != 3 {
		t.Fatalf("expected 3 unique tokens, got %d: %v", len(got), got)
	}
	for _, tok := range []string{"go", "python", "sql"} {
		if _, ok := got[tok]; !ok {
			t.Errorf("missing token %q", tok)
		}
	}
	if len(Tokens("")) != 0 {
		t.Error("empty string should yield no tokens")
	}
}

func TestContainsPhrase_WholeWordsOnly(t *testing.T) {
	text := Normalize("We build REST APIs in Java and JavaScript")
	cases := []struct {
		phrase string
		want   bool
	}{
		{"java", true},
		{"javascript", true},
		{"rest", true},
		{"rest apis", true},
		{"rest api", false}, // "apis" is not "api"
		{"script", false},   // substring of javascript
		{"", false},
	}
	for _, tc := range cases {
		if got := ContainsPhrase(text, tc.phrase); got != tc.want {
			t.Errorf("ContainsPhrase(%q) = %v, want %v", tc.phrase, got, tc.want)
		}
	}
}

func TestPhraseIndex_Ordering(t *testing.T) {
	text := Normalize("python first then sql later")
	if PhraseIndex(text, "python") >= PhraseIndex(text, "sql") {
		t.Error("expected python to occur before sql")
	}
	if PhraseIndex(text, "rust") != -1 {
		t.Error("absent phrase should return -1")
	}
}

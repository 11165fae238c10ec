package slug

import "testing"

// TestGenerate covers ordinary titles, the dropped punctuation set,
// separator collapsing, transliteration, and inputs that yield nothing.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Ordinary titles ---
		{name: "two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Top Stories 2026", want: "top-stories-2026"},
		{name: "already a slug", input: "my-blog-post", want: "my-blog-post"},
		{name: "single word", input: "GoLang", want: "golang"},

		// --- Dropped punctuation: removed, not separated ---
		{name: "apostrophe", input: "Don't Panic", want: "dont-panic"},
		{name: "double quotes", input: `The "Best" Deals`, want: "the-best-deals"},
		{name: "dots inside version", input: "Release 2.0.1", want: "release-201"},
		{name: "parentheses", input: "Guide (2026 Edition)", want: "guide-2026-edition"},
		{name: "exclamation and colon", input: "Go: Ship It!", want: "go-ship-it"},
		{name: "at sign and plus", input: "C++ @ Scale", want: "c-scale"},
		{name: "tilde and star", input: "~Starred* Picks", want: "starred-picks"},

		// --- Other punctuation becomes a separator ---
		{name: "comma", input: "Hello, World", want: "hello-world"},
		{name: "slash", input: "Frontend/Backend", want: "frontend-backend"},
		{name: "ampersand", input: "Rock & Roll", want: "rock-roll"},
		{name: "hash and dollar", input: "Issue #42 costs $100", want: "issue-42-costs-100"},
		{name: "question mark", input: "What is HTMX? A Guide", want: "what-is-htmx-a-guide"},

		// --- Whitespace and hyphen runs ---
		{name: "surrounding spaces", input: "   hello world  ", want: "hello-world"},
		{name: "many spaces", input: "hello    world", want: "hello-world"},
		{name: "tab and newline", input: "hello\tbig\nworld", want: "hello-big-world"},
		{name: "hyphen runs", input: "--hello -- world--", want: "hello-world"},
		{name: "date string", input: "2026-02-25", want: "2026-02-25"},

		// --- Transliteration ---
		{name: "french accents", input: "Café Crème Brûlée", want: "cafe-creme-brulee"},
		{name: "german umlauts", input: "Über die Brücke", want: "uber-die-brucke"},
		{name: "spanish tilde", input: "Año Niño", want: "ano-nino"},
		{name: "decomposed accents", input: "Cafe\u0301 Cre\u0300me", want: "cafe-creme"},
		{name: "sharp s", input: "Straße Guide", want: "strasse-guide"},
		{name: "polish stroke", input: "Łódź Travel", want: "lodz-travel"},
		{name: "nordic letters", input: "Smørrebrød Æble", want: "smorrebrod-aeble"},
		{name: "cyrillic", input: "Привет мир", want: "privet-mir"},
		{name: "greek", input: "Αθήνα Guide", want: "athena-guide"},
		{name: "han romanized", input: "Hello 世界 World", want: "hello-shi-jie-world"},

		// --- Nothing usable ---
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "    ", want: ""},
		{name: "only hyphens", input: "-----", want: ""},
		{name: "only punctuation", input: "!@#$%^&*()", want: ""},
		{name: "only dropped set", input: `*+~.()'"!:@`, want: ""},
		{name: "only emoji", input: "🎉🎉", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that a valid slug maps to itself.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "my-blog-post-2026", "a", "123"} {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want %q", s, got, s)
			}
		})
	}
}

// TestGenerate_CaseAndPunctuationInsensitive verifies that titles differing
// only in case or punctuation collide on the same slug.
func TestGenerate_CaseAndPunctuationInsensitive(t *testing.T) {
	inputs := []string{"HELLO WORLD", "Hello, World!", "hElLo   WoRlD", "hello-world"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if got := Generate(input); got != "hello-world" {
				t.Errorf("Generate(%q) = %q, want %q", input, got, "hello-world")
			}
		})
	}
}

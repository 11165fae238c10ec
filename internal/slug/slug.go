// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and collision-free slug resolution against a content collection.
package slug

import (
	"regexp"
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"
)

var (
	// dropped lists punctuation that is deleted outright rather than
	// turned into a separator, so "Don't" becomes "dont".
	dropped = regexp.MustCompile(`[*+~.()'"!:@]`)
	// separators matches every run of characters outside the slug alphabet.
	separators = regexp.MustCompile(`[^a-z0-9]+`)
)

// Generate creates a URL-friendly slug from the given string.
// Non-ASCII letters are transliterated to ASCII first.
// Example: "Café, World! 2026" → "cafe-world-2026"
// Example: "Straße Łódź" → "strasse-lodz"
//
// Input without any letters or digits yields "".
func Generate(s string) string {
	result := transliterate(strings.TrimSpace(s))
	result = strings.ToLower(result)
	result = dropped.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// transliterate composes the input so decomposed accents map like their
// precomposed forms, then replaces every non-ASCII rune with its closest
// ASCII spelling. Runes with no spelling, such as emoji, vanish.
func transliterate(s string) string {
	return unidecode.Unidecode(norm.NFC.String(s))
}

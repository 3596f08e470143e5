package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldIdentity lowercases a name, strips diacritics and collapses internal
// whitespace, so that roster matching is stable across accent and case
// variations (e.g. "Traoré" and "TRAORE" fold to the same key).
func FoldIdentity(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return strings.Join(strings.Fields(folded), " ")
}

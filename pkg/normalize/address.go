package normalize

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	nonAddrPattern = regexp.MustCompile(`[^a-z0-9\s]`)
	civicNumber    = regexp.MustCompile(`^\d+`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// Street normalizes a street line: lowercase, diacritics folded, punctuation
// stripped, and abbreviations expanded against StreetAbbreviations
// ("123 Main St." -> "123 main street").
func Street(raw string) string {
	if raw == "" {
		return ""
	}
	n := strings.ToLower(strings.TrimSpace(unidecode.Unidecode(raw)))
	n = nonAddrPattern.ReplaceAllString(n, " ")
	words := strings.Fields(n)
	for i, w := range words {
		if full, ok := StreetAbbreviations[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}

// CivicNumber pulls the leading street number from a normalized street line,
// or "" when the line does not start with one.
func CivicNumber(street string) string {
	return civicNumber.FindString(Street(street))
}

// StreetBody is the street line with the civic number removed, for token
// comparison of the street name itself.
func StreetBody(raw string) string {
	s := Street(raw)
	return strings.TrimSpace(civicNumber.ReplaceAllString(s, ""))
}

// City lowercases and squeezes a city or province name.
func City(raw string) string {
	if raw == "" {
		return ""
	}
	n := strings.ToLower(strings.TrimSpace(unidecode.Unidecode(raw)))
	n = nonAddrPattern.ReplaceAllString(n, " ")
	return strings.Join(strings.Fields(n), " ")
}

// PostalCode uppercases and removes all internal whitespace, so
// "K1A 0B1" and "k1a0b1" compare equal.
func PostalCode(raw string) string {
	return strings.ToUpper(whitespace.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// BusinessNumber canonicalizes a structured business identifier: uppercase,
// all whitespace and separators removed. Identifier-class fields compare by
// exact equality of this form only.
func BusinessNumber(raw string) string {
	if raw == "" {
		return ""
	}
	n := strings.ToUpper(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range n {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

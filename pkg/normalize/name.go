package normalize

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var nonNamePattern = regexp.MustCompile(`[^a-z0-9\s&]`)

// Name lowercases, folds diacritics to ASCII, and strips punctuation. The
// original value survives on the record for display; this form is what the
// string and phonetic matchers see.
func Name(raw string) string {
	if raw == "" {
		return ""
	}
	n := strings.ToLower(strings.TrimSpace(unidecode.Unidecode(raw)))
	n = nonNamePattern.ReplaceAllString(n, " ")
	return strings.Join(strings.Fields(n), " ")
}

// NameStripped is Name with legal-suffix tokens removed (Inc, Ltd, Corp, ...).
// If stripping would erase the whole name ("The Limited"), the unstripped
// form is returned instead.
func NameStripped(raw string) string {
	n := Name(raw)
	if n == "" {
		return ""
	}
	words := strings.Fields(n)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if LegalSuffixes[w] {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return n
	}
	return strings.Join(kept, " ")
}

// NameTokens splits the suffix-stripped name into word tokens for token-set
// matching.
func NameTokens(raw string) []string {
	n := NameStripped(raw)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

// NameKey builds the coarse blocking key used by the candidate index: the
// first token plus a 4-character prefix of the squeezed name. Coarse on
// purpose; the index trades precision for bounded candidate sets.
func NameKey(raw string) string {
	n := NameStripped(raw)
	if n == "" {
		return ""
	}
	first := strings.Fields(n)[0]
	squeezed := strings.ReplaceAll(n, " ", "")
	if len(squeezed) > 4 {
		squeezed = squeezed[:4]
	}
	return first + "|" + squeezed
}

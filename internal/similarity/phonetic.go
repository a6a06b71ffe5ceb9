package similarity

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Phonetic scores two normalized names by Double Metaphone encoding.
// Full primary-code equality is 1.0 ("sounds identical"); otherwise the score
// is the overlap ratio of per-token code sets, so multi-word names get
// partial credit when most words sound alike.
func Phonetic(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	pa, ca := encode(a)
	pb, cb := encode(b)
	if pa != "" && pa == pb {
		return 1.0
	}

	inter := 0
	for code := range ca {
		if cb[code] {
			inter++
		}
	}
	union := len(ca) + len(cb) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

// encode returns the concatenated primary code and the set of all primary and
// secondary codes across tokens.
func encode(s string) (string, map[string]bool) {
	codes := make(map[string]bool)
	var primary strings.Builder
	for _, tok := range strings.Fields(s) {
		p, sec := matchr.DoubleMetaphone(tok)
		if p != "" {
			primary.WriteString(p)
			codes[p] = true
		}
		if sec != "" {
			codes[sec] = true
		}
	}
	return primary.String(), codes
}

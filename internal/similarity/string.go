// Package similarity implements the pairwise scoring primitives used by the
// match scorer. Every function is pure and symmetric, returns a value in
// [0,1], scores identical normalized input as 1.0, and scores 0.0 when either
// side is empty.
package similarity

import (
	"github.com/agnivade/levenshtein"
	"github.com/antzucaro/matchr"
)

// String scores edit-distance similarity between two normalized strings.
// Levenshtein ratio (1 - distance/maxLen) is blended with Jaro-Winkler by
// taking the max: either metric agreeing is enough.
func String(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	lev := 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
	if lev < 0 {
		lev = 0
	}

	jw := matchr.JaroWinkler(a, b, false)
	if jw > lev {
		return jw
	}
	return lev
}

// Exact scores identifier-class fields: 1.0 on exact equality of the
// normalized form, 0.0 otherwise. No partial credit; these are hard signals.
func Exact(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	return 0.0
}

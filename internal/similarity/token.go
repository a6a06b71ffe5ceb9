package similarity

import "strings"

// TokenSet scores word overlap ignoring order: Jaccard similarity over token
// sets. "Tech Solutions Indigenous" and "Indigenous Tech Solutions" score 1.0.
func TokenSet(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	sa := make(map[string]bool, len(ta))
	for _, t := range ta {
		sa[t] = true
	}
	sb := make(map[string]bool, len(tb))
	for _, t := range tb {
		sb[t] = true
	}

	inter := 0
	for t := range sa {
		if sb[t] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

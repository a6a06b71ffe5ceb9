package similarity

import (
	"business-dedup/internal/models"
	"business-dedup/pkg/normalize"
)

// Address weights for the component-wise comparison. Weights for components
// missing on either side drop out and the rest renormalize, so sparse
// addresses are not penalized for what they never stated.
const (
	weightCivic    = 0.20
	weightStreet   = 0.40
	weightCity     = 0.15
	weightProvince = 0.10
	weightPostal   = 0.15
)

// Address scores two structured addresses. The second return is false when
// either side has no comparable address data at all.
func Address(a, b *models.Address) (float64, bool) {
	if a == nil || b == nil {
		return 0.0, false
	}

	score := 0.0
	total := 0.0

	na, nb := normalize.CivicNumber(a.Street), normalize.CivicNumber(b.Street)
	if na != "" && nb != "" {
		score += weightCivic * Exact(na, nb)
		total += weightCivic
	}

	sa, sb := normalize.StreetBody(a.Street), normalize.StreetBody(b.Street)
	if sa != "" && sb != "" {
		s := TokenSet(sa, sb)
		if v := String(sa, sb); v > s {
			s = v
		}
		score += weightStreet * s
		total += weightStreet
	}

	ca, cb := normalize.City(a.City), normalize.City(b.City)
	if ca != "" && cb != "" {
		score += weightCity * Exact(ca, cb)
		total += weightCity
	}

	pa, pb := normalize.City(a.Province), normalize.City(b.Province)
	if pa != "" && pb != "" {
		score += weightProvince * Exact(pa, pb)
		total += weightProvince
	}

	za, zb := normalize.PostalCode(a.PostalCode), normalize.PostalCode(b.PostalCode)
	if za != "" && zb != "" {
		score += weightPostal * Exact(za, zb)
		total += weightPostal
	}

	if total == 0 {
		return 0.0, false
	}
	return score / total, true
}

// Package matcher combines per-field similarity scores into a single
// weighted match result. Identifier fields (business number, phone, email,
// website) carry the heavy weights; name and address are secondary signals.
package matcher

import (
	"business-dedup/internal/models"
	"business-dedup/internal/similarity"
	"business-dedup/pkg/normalize"
)

// Field weights. The overall score is renormalized over the fields that
// actually had data on both sides, so sparse records are never penalized
// for what they lack.
const (
	weightBusinessNumber = 0.20
	weightPhone          = 0.25
	weightEmail          = 0.25
	weightWebsite        = 0.15
	weightName           = 0.25
	weightAddress        = 0.10
)

// mlWeight is the blend factor ApplyML gives the external scorer.
const mlWeight = 0.35

// Compare scores record a against candidate b. It is symmetric in a and b
// apart from the reported CandidateID, and never fails: records missing
// every comparable field simply score zero with empty details.
//
// A strong-identifier match is decisive: equal normalized business numbers,
// phones, emails, or website hosts force score 1.0 and high confidence
// regardless of every other field.
func Compare(a, b *models.BusinessRecord, opts *Options) models.MatchResult {
	if opts == nil {
		opts = DefaultOptions()
	}

	res := models.MatchResult{
		CandidateID:  b.ID,
		Confidence:   models.ConfidenceLow,
		MatchDetails: make(map[string]float64),
	}

	var sum, total float64
	bestSignal := -1.0
	strongExact := false

	record := func(field, algo string, score, weight float64) {
		res.MatchDetails[field+"Match"] = score
		contrib := opts.contribution(field, score)
		sum += contrib * weight
		total += weight
		if signal := contrib * weight; signal > bestSignal {
			bestSignal = signal
			res.Algorithm = algo
		}
	}

	// Identifier fields score by exact equality of normalized form.
	if opts.fieldEnabled(models.FieldBusinessNumber) {
		if score, ok := compareField(a, b, models.FieldBusinessNumber, opts, func() (float64, bool) {
			return exactPair(strOrEmpty(a.BusinessNumber), strOrEmpty(b.BusinessNumber), normalize.BusinessNumber)
		}); ok {
			record(models.FieldBusinessNumber, models.AlgorithmFieldExact, score, weightBusinessNumber)
			strongExact = strongExact || score == 1.0
		}
	}
	if opts.fieldEnabled(models.FieldPhone) {
		if score, ok := compareField(a, b, models.FieldPhone, opts, func() (float64, bool) {
			return exactPair(strOrEmpty(a.Phone), strOrEmpty(b.Phone), normalize.PhoneKey)
		}); ok {
			record(models.FieldPhone, models.AlgorithmFieldExact, score, weightPhone)
			strongExact = strongExact || score == 1.0
		}
	}
	if opts.fieldEnabled(models.FieldEmail) {
		if score, ok := compareField(a, b, models.FieldEmail, opts, func() (float64, bool) {
			return exactPair(strOrEmpty(a.Email), strOrEmpty(b.Email), normalize.Email)
		}); ok {
			record(models.FieldEmail, models.AlgorithmFieldExact, score, weightEmail)
			strongExact = strongExact || score == 1.0
		}
	}
	if opts.fieldEnabled(models.FieldWebsite) {
		if score, ok := compareField(a, b, models.FieldWebsite, opts, func() (float64, bool) {
			return exactPair(strOrEmpty(a.Website), strOrEmpty(b.Website), normalize.WebsiteHost)
		}); ok {
			record(models.FieldWebsite, models.AlgorithmFieldExact, score, weightWebsite)
			strongExact = strongExact || score == 1.0
		}
	}

	if opts.fieldEnabled(models.FieldName) {
		nameAlgo := models.AlgorithmString
		if score, ok := compareField(a, b, models.FieldName, opts, func() (float64, bool) {
			s, algo, ok := nameScore(a.Name, b.Name, opts)
			if ok {
				nameAlgo = algo
			}
			return s, ok
		}); ok {
			record(models.FieldName, nameAlgo, score, weightName)
		}
	}

	if opts.fieldEnabled(models.FieldAddress) {
		if score, ok := compareField(a, b, models.FieldAddress, opts, func() (float64, bool) {
			if !opts.AlgorithmEnabled(models.AlgorithmAddress) {
				return 0, false
			}
			return similarity.Address(a.Address, b.Address)
		}); ok {
			record(models.FieldAddress, models.AlgorithmAddress, score, weightAddress)
		}
	}

	if strongExact {
		res.Score = 1.0
		res.Confidence = models.ConfidenceHigh
		res.Algorithm = models.AlgorithmFieldExact
		return res
	}

	if total > 0 {
		res.Score = sum / total
	}
	res.Confidence = confidenceFor(res.Score, strongExact, opts.Threshold)
	return res
}

// ApplyML blends an external scorer's result into an already computed
// match. A decisive strong-identifier match is never diluted, and the
// confidence tier is recomputed against the threshold of the call in
// flight so it stays consistent with the caller's own filter.
func ApplyML(res *models.MatchResult, mlScore, threshold float64) {
	if res.MatchDetails == nil {
		res.MatchDetails = make(map[string]float64)
	}
	res.MatchDetails["mlMatch"] = mlScore
	if res.Algorithm == models.AlgorithmFieldExact && res.Score == 1.0 {
		return
	}
	if mlScore > res.Score {
		res.Algorithm = models.AlgorithmML
	}
	res.Score = res.Score*(1-mlWeight) + mlScore*mlWeight
	res.Confidence = confidenceFor(res.Score, hasStrongExact(res.MatchDetails), threshold)
}

func confidenceFor(score float64, strongExact bool, threshold float64) string {
	switch {
	case score >= 0.92, strongExact && score >= threshold:
		return models.ConfidenceHigh
	case score >= 0.75:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func hasStrongExact(details map[string]float64) bool {
	for _, field := range []string{
		models.FieldBusinessNumber, models.FieldPhone, models.FieldEmail, models.FieldWebsite,
	} {
		if details[field+"Match"] == 1.0 {
			return true
		}
	}
	return false
}

// nameScore takes the best of the enabled name algorithms. Any reasonable
// algorithm agreeing is enough; consensus is not required.
func nameScore(rawA, rawB string, opts *Options) (float64, string, bool) {
	a := normalize.NameStripped(rawA)
	b := normalize.NameStripped(rawB)
	if a == "" || b == "" {
		return 0, "", false
	}

	best := -1.0
	algo := ""
	if opts.AlgorithmEnabled(models.AlgorithmString) {
		if s := similarity.String(a, b); s > best {
			best, algo = s, models.AlgorithmString
		}
	}
	if opts.AlgorithmEnabled(models.AlgorithmPhonetic) {
		if s := similarity.Phonetic(a, b); s > best {
			best, algo = s, models.AlgorithmPhonetic
		}
	}
	if opts.AlgorithmEnabled(models.AlgorithmToken) {
		if s := similarity.TokenSet(a, b); s > best {
			best, algo = s, models.AlgorithmToken
		}
	}
	if best < 0 {
		return 0, "", false
	}
	return best, algo, true
}

// compareField runs the custom comparator for a field when one is set,
// falling back to the built-in scorer otherwise.
func compareField(a, b *models.BusinessRecord, field string, opts *Options, builtin func() (float64, bool)) (float64, bool) {
	if cmp, ok := opts.CustomComparators[field]; ok {
		return cmp(a, b)
	}
	if field != models.FieldName && field != models.FieldAddress && !opts.AlgorithmEnabled(models.AlgorithmFieldExact) {
		return 0, false
	}
	return builtin()
}

// exactPair normalizes both raw values and scores 1.0 on equality. Either
// side normalizing to empty makes the field incomparable.
func exactPair(rawA, rawB string, norm func(string) string) (float64, bool) {
	a := norm(rawA)
	b := norm(rawB)
	if a == "" || b == "" {
		return 0, false
	}
	return similarity.Exact(a, b), true
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package matcher

import (
	"fmt"

	"business-dedup/internal/models"
	apperrors "business-dedup/pkg/errors"
)

// DefaultThreshold is the minimum overall score for a candidate to be
// reported as a duplicate when the caller does not set one.
const DefaultThreshold = 0.8

// Comparator is a caller-supplied override for a single field. It returns
// the field score and whether the pair was comparable at all; a false
// second return omits the field from match details, same as missing data.
type Comparator func(a, b *models.BusinessRecord) (float64, bool)

// Options controls a comparison run. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	// Threshold filters FindDuplicates / batch grouping, in [0,1].
	Threshold float64

	// Algorithms restricts scoring to a subset of the known algorithm
	// names. Empty means all.
	Algorithms []string

	// CheckFields restricts scoring to a subset of the known field names.
	// Empty means all.
	CheckFields []string

	// FieldThresholds sets a per-field minimum: a field scoring below its
	// threshold still appears in match details but contributes nothing to
	// the overall score.
	FieldThresholds map[string]float64

	// CustomComparators override the built-in scoring per field.
	CustomComparators map[string]Comparator

	// DeepCheck blends the injected scorer into the overall score.
	DeepCheck bool

	// AutoMerge collapses each batch group using MergeStrategy.
	AutoMerge     bool
	MergeStrategy string

	// BatchSize chunks batch input for progress reporting.
	BatchSize int
}

func DefaultOptions() *Options {
	return &Options{
		Threshold:     DefaultThreshold,
		MergeStrategy: models.StrategyPreservePrimary,
		BatchSize:     100,
	}
}

var knownAlgorithms = map[string]bool{
	models.AlgorithmString:     true,
	models.AlgorithmPhonetic:   true,
	models.AlgorithmToken:      true,
	models.AlgorithmFieldExact: true,
	models.AlgorithmAddress:    true,
	models.AlgorithmML:         true,
}

var knownFields = map[string]bool{
	models.FieldName:           true,
	models.FieldBusinessNumber: true,
	models.FieldPhone:          true,
	models.FieldEmail:          true,
	models.FieldWebsite:        true,
	models.FieldAddress:        true,
}

var knownStrategies = map[string]bool{
	models.StrategyPreservePrimary: true,
	models.StrategyQuality:         true,
	models.StrategyComprehensive:   true,
}

// Validate fails fast on malformed options, before any comparison work.
func (o *Options) Validate() error {
	const op = "options.validate"

	if o.Threshold < 0 || o.Threshold > 1 {
		return apperrors.NewValidation(op, fmt.Sprintf("threshold %v outside [0,1]", o.Threshold), nil)
	}
	for _, algo := range o.Algorithms {
		if !knownAlgorithms[algo] {
			return apperrors.NewValidation(op, fmt.Sprintf("unknown algorithm %q", algo), nil)
		}
	}
	for _, field := range o.CheckFields {
		if !knownFields[field] {
			return apperrors.NewValidation(op, fmt.Sprintf("unknown field %q in checkFields", field), nil)
		}
	}
	for field, th := range o.FieldThresholds {
		if !knownFields[field] {
			return apperrors.NewValidation(op, fmt.Sprintf("unknown field %q in fieldThresholds", field), nil)
		}
		if th < 0 || th > 1 {
			return apperrors.NewValidation(op, fmt.Sprintf("threshold %v for field %q outside [0,1]", th, field), nil)
		}
	}
	for field := range o.CustomComparators {
		if !knownFields[field] {
			return apperrors.NewValidation(op, fmt.Sprintf("unknown field %q in customComparators", field), nil)
		}
	}
	if o.MergeStrategy != "" && !knownStrategies[o.MergeStrategy] {
		return apperrors.NewValidation(op, fmt.Sprintf("unknown merge strategy %q", o.MergeStrategy), nil)
	}
	if o.BatchSize < 0 {
		return apperrors.NewValidation(op, fmt.Sprintf("negative batch size %d", o.BatchSize), nil)
	}
	return nil
}

// AlgorithmEnabled reports whether the algorithm subset permits name.
func (o *Options) AlgorithmEnabled(name string) bool {
	if len(o.Algorithms) == 0 {
		return true
	}
	for _, a := range o.Algorithms {
		if a == name {
			return true
		}
	}
	return false
}

func (o *Options) fieldEnabled(name string) bool {
	if len(o.CheckFields) == 0 {
		return true
	}
	for _, f := range o.CheckFields {
		if f == name {
			return true
		}
	}
	return false
}

// contribution applies the per-field threshold: below it the score still
// shows in details but adds nothing to the overall weighting.
func (o *Options) contribution(field string, score float64) float64 {
	if th, ok := o.FieldThresholds[field]; ok && score < th {
		return 0
	}
	return score
}

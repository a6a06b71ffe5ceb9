package models

import "time"

// Confidence tiers for a pairwise match.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Algorithm identifiers. These are the only names accepted by
// Options.Algorithms; unknown names are a validation error.
const (
	AlgorithmString     = "string"
	AlgorithmPhonetic   = "phonetic"
	AlgorithmToken      = "token"
	AlgorithmFieldExact = "field-exact"
	AlgorithmAddress    = "address"
	AlgorithmML         = "ml"
)

// Merge strategy identifiers.
const (
	StrategyPreservePrimary = "preservePrimary"
	StrategyQuality         = "quality"
	StrategyComprehensive   = "comprehensive"
)

// Field names recognized by Options.CheckFields / FieldThresholds /
// CustomComparators.
const (
	FieldName           = "name"
	FieldBusinessNumber = "businessNumber"
	FieldPhone          = "phone"
	FieldEmail          = "email"
	FieldWebsite        = "website"
	FieldAddress        = "address"
)

// Field names that appear only in merge provenance, never as match keys.
const (
	FieldBusinessType = "businessType"
	FieldDescription  = "description"
	FieldIndustry     = "industry"
)

// MatchResult is the outcome of comparing one record against one candidate.
type MatchResult struct {
	CandidateID string `json:"candidate_id"`
	// Score is the overall weighted similarity in [0,1].
	Score float64 `json:"score"`
	// Confidence is a tiered label derived from the score and which strong
	// identifiers matched exactly.
	Confidence string `json:"confidence"`
	// Algorithm names the scorer that produced the decisive signal.
	Algorithm string `json:"algorithm"`
	// MatchDetails holds per-field scores. A field missing on either side is
	// omitted, never reported as zero.
	MatchDetails map[string]float64 `json:"match_details"`
	// ScorerNote carries metadata about ML scorer fallbacks for this pair.
	// Empty when the algorithmic path was used as requested.
	ScorerNote string `json:"scorer_note,omitempty"`
}

// DuplicateGroup is a cluster of records transitively judged to describe one
// real business.
type DuplicateGroup struct {
	// Members lists every record id in the cluster, canonical first.
	Members []string `json:"members"`
	// Canonical is the designated representative (the earliest-seen member).
	Canonical string `json:"canonical"`
	// Evidence holds the pairwise matches that connected the cluster.
	Evidence []MatchResult `json:"evidence,omitempty"`
}

// MergedRecord is the output of collapsing a duplicate cluster.
type MergedRecord struct {
	// MergeID identifies this merge operation for audit trails. It is not
	// a record id; the canonical record keeps the primary's id.
	MergeID string `json:"merge_id"`

	Record BusinessRecord `json:"record"`
	// Provenance maps field name to the id of the source record that
	// contributed its value.
	Provenance map[string]string `json:"provenance"`
	// MergedFrom lists every source id in input order, primary first.
	MergedFrom []string  `json:"merged_from"`
	Strategy   string    `json:"strategy"`
	MergedAt   time.Time `json:"merged_at"`
}

// DataQualityIssue records a per-record problem found during batch
// processing. Issues are reported, never fatal.
type DataQualityIssue struct {
	RecordIndex int    `json:"record_index"`
	RecordID    string `json:"record_id,omitempty"`
	Problem     string `json:"problem"`
}

// BatchResult summarizes one DeduplicateBatch call.
type BatchResult struct {
	TotalProcessed   int                `json:"total_processed"`
	DuplicatesFound  int                `json:"duplicates_found"`
	UniqueBusinesses int                `json:"unique_businesses"`
	Groups           []DuplicateGroup   `json:"groups"`
	Merged           []MergedRecord     `json:"merged,omitempty"`
	Issues           []DataQualityIssue `json:"issues,omitempty"`
	ElapsedMs        int64              `json:"elapsed_ms"`
}

// FindResult is the outcome of a single FindDuplicates call.
type FindResult struct {
	Duplicates []MatchResult `json:"duplicates"`
	// Candidates is how many index candidates were fully compared.
	Candidates int `json:"candidates"`
}

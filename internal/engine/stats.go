package engine

import "sync/atomic"

type engineStats struct {
	recordsIndexed  atomic.Int64
	comparisons     atomic.Int64
	duplicatesFound atomic.Int64
	scorerFallbacks atomic.Int64
	batches         atomic.Int64
}

// Stats is a point-in-time snapshot of engine counters since construction.
type Stats struct {
	RecordsIndexed   int64 `json:"records_indexed"`
	Comparisons      int64 `json:"comparisons"`
	DuplicatesFound  int64 `json:"duplicates_found"`
	ScorerFallbacks  int64 `json:"scorer_fallbacks"`
	BatchesProcessed int64 `json:"batches_processed"`
}

func (e *Engine) Stats() Stats {
	return Stats{
		RecordsIndexed:   e.stats.recordsIndexed.Load(),
		Comparisons:      e.stats.comparisons.Load(),
		DuplicatesFound:  e.stats.duplicatesFound.Load(),
		ScorerFallbacks:  e.stats.scorerFallbacks.Load(),
		BatchesProcessed: e.stats.batches.Load(),
	}
}

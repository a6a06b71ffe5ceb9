// Package engine orchestrates deduplication: it owns the candidate index,
// resolves candidates through the record store, runs the match scorer, and
// applies merge strategies. All operations are safe for concurrent callers.
package engine

import (
	"context"
	"errors"
	"sort"
	"sync"

	"business-dedup/internal/index"
	"business-dedup/internal/matcher"
	"business-dedup/internal/merge"
	"business-dedup/internal/models"
	"business-dedup/internal/scorer"
	"business-dedup/internal/store"
	"business-dedup/pkg/config"
	apperrors "business-dedup/pkg/errors"
	"business-dedup/pkg/logging"
	"business-dedup/pkg/metrics"
)

type Engine struct {
	store  store.RecordStore
	scorer scorer.Scorer
	idx    *index.Index
	log    *logging.Logger

	workerCount      int
	defaultThreshold float64
	defaultBatchSize int

	// Local snapshots of indexed records. Resolution checks here first and
	// falls back to the store, so the engine also runs without a database.
	mu      sync.RWMutex
	records map[string]models.BusinessRecord

	stats engineStats

	mComparisons *metrics.Counter
	mDuplicates  *metrics.Counter
	mFallbacks   *metrics.Counter
	mBatchTime   *metrics.Histogram
}

// New builds an engine. Every dependency is optional: a nil store disables
// PrimeIndex and external candidate resolution, a nil scorer disables deep
// check, nil config and logger fall back to defaults.
func New(st store.RecordStore, sc scorer.Scorer, cfg *config.Config, log *logging.Logger) *Engine {
	if cfg == nil {
		cfg = &config.Config{Threshold: matcher.DefaultThreshold, BatchSize: 100}
	}
	if log == nil {
		log = logging.Discard()
	}

	threshold := cfg.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = matcher.DefaultThreshold
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &Engine{
		store:            st,
		scorer:           sc,
		idx:              index.New(),
		log:              log.WithComponent("dedup_engine"),
		workerCount:      cfg.WorkerCount,
		defaultThreshold: threshold,
		defaultBatchSize: batchSize,
		records:          make(map[string]models.BusinessRecord),
		mComparisons:     metrics.Default.Counter("dedup_comparisons_total", "Pairwise record comparisons"),
		mDuplicates:      metrics.Default.Counter("dedup_duplicates_total", "Duplicate pairs found at or above threshold"),
		mFallbacks:       metrics.Default.Counter("dedup_scorer_fallbacks_total", "Deep-check pairs that fell back to algorithmic scoring"),
		mBatchTime:       metrics.Default.Histogram("dedup_batch_seconds", "Batch deduplication duration (s)", []float64{0.1, 0.5, 1, 5, 15, 60, 300}),
	}
}

// defaultOptions returns per-call options seeded with the engine's config.
func (e *Engine) defaultOptions() *matcher.Options {
	opts := matcher.DefaultOptions()
	opts.Threshold = e.defaultThreshold
	opts.BatchSize = e.defaultBatchSize
	return opts
}

// AddRecord snapshots a record and indexes it for future FindDuplicates
// calls. Records without an id or name are rejected as data quality errors.
func (e *Engine) AddRecord(rec *models.BusinessRecord) error {
	if rec == nil || rec.ID == "" {
		return apperrors.NewDataQuality("engine.AddRecord", "record missing id", nil)
	}
	if rec.Name == "" {
		return apperrors.NewDataQuality("engine.AddRecord", "record "+rec.ID+" missing name", nil)
	}

	snapshot := rec.Clone()
	e.mu.Lock()
	e.records[snapshot.ID] = snapshot
	e.mu.Unlock()
	e.idx.Add(&snapshot)
	e.stats.recordsIndexed.Add(1)
	return nil
}

// RemoveRecord drops a record from the index and local snapshots.
func (e *Engine) RemoveRecord(id string) {
	e.idx.Remove(id)
	e.mu.Lock()
	delete(e.records, id)
	e.mu.Unlock()
}

// IndexSize reports how many records are currently indexed.
func (e *Engine) IndexSize() int { return e.idx.Len() }

// PrimeIndex loads every record from the store into the candidate index.
// Malformed rows are skipped and counted, never fatal.
func (e *Engine) PrimeIndex(ctx context.Context) (int, error) {
	if e.store == nil {
		return 0, apperrors.NewStore("engine.PrimeIndex", "no record store configured", nil)
	}

	records, err := e.store.List(ctx)
	if err != nil {
		return 0, err
	}

	added := 0
	skipped := 0
	for i := range records {
		if err := e.AddRecord(&records[i]); err != nil {
			skipped++
			continue
		}
		added++
	}
	e.log.Info("index primed",
		logging.Int("added", added), logging.Int("skipped", skipped))
	return added, nil
}

// FindDuplicates compares a record against the indexed population and
// returns candidates scoring at or above the threshold, best first. It
// never fails for data quality reasons: a record with only a name simply
// matches nothing unless name similarity alone clears the threshold.
func (e *Engine) FindDuplicates(ctx context.Context, rec *models.BusinessRecord, opts *matcher.Options) (*models.FindResult, error) {
	if opts == nil {
		opts = e.defaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewValidation("engine.FindDuplicates", "record is nil", nil)
	}

	snapshot := rec.Clone()
	candidateIDs := e.idx.Candidates(&snapshot)

	result := &models.FindResult{}
	for _, id := range candidateIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cand := e.resolve(ctx, id)
		if cand == nil {
			continue
		}
		result.Candidates++

		res := e.comparePair(ctx, &snapshot, cand, opts)
		if res.Score >= opts.Threshold {
			result.Duplicates = append(result.Duplicates, res)
		}
	}

	sort.Slice(result.Duplicates, func(i, j int) bool {
		if result.Duplicates[i].Score != result.Duplicates[j].Score {
			return result.Duplicates[i].Score > result.Duplicates[j].Score
		}
		return result.Duplicates[i].CandidateID < result.Duplicates[j].CandidateID
	})

	e.stats.duplicatesFound.Add(int64(len(result.Duplicates)))
	e.mDuplicates.Add(int64(len(result.Duplicates)))
	return result, nil
}

// MergeBusinesses collapses a primary and its confirmed duplicates using
// the strategy in opts (preservePrimary when unset).
func (e *Engine) MergeBusinesses(primary *models.BusinessRecord, duplicates []*models.BusinessRecord, opts *matcher.Options) (*models.MergedRecord, error) {
	if opts == nil {
		opts = e.defaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return merge.Merge(primary, duplicates, opts.MergeStrategy)
}

// resolve maps a candidate id to a record snapshot. An id that no longer
// resolves anywhere is stale index state and means "no match", not an
// error; store failures are logged and treated the same way.
func (e *Engine) resolve(ctx context.Context, id string) *models.BusinessRecord {
	e.mu.RLock()
	rec, ok := e.records[id]
	e.mu.RUnlock()
	if ok {
		out := rec.Clone()
		return &out
	}

	if e.store == nil {
		return nil
	}
	stored, err := e.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.log.Error("candidate resolution failed", err, logging.String("id", id))
		}
		return nil
	}
	return stored
}

// comparePair runs the algorithmic scorer and, when deep check is on,
// blends in the external scorer. Scorer failures degrade to the
// algorithmic result with a note, never to an error.
func (e *Engine) comparePair(ctx context.Context, a, b *models.BusinessRecord, opts *matcher.Options) models.MatchResult {
	res := matcher.Compare(a, b, opts)
	e.stats.comparisons.Add(1)
	e.mComparisons.Inc()

	if !opts.DeepCheck || e.scorer == nil || !opts.AlgorithmEnabled(models.AlgorithmML) {
		return res
	}

	mlScore, err := e.scorer.Score(ctx, a, b)
	if err != nil {
		e.stats.scorerFallbacks.Add(1)
		e.mFallbacks.Inc()
		res.ScorerNote = "scorer unavailable, algorithmic-only: " + err.Error()
		e.log.Debug("deep check fell back to algorithmic scoring",
			logging.String("candidate", b.ID), logging.String("reason", err.Error()))
		return res
	}
	matcher.ApplyML(&res, mlScore, opts.Threshold)
	return res
}

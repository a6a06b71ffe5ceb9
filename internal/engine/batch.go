package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"business-dedup/internal/index"
	"business-dedup/internal/matcher"
	"business-dedup/internal/merge"
	"business-dedup/internal/models"
	"business-dedup/pkg/logging"
)

// pairMatch is one at-or-above-threshold comparison between two batch
// positions, a < b.
type pairMatch struct {
	a, b int
	res  models.MatchResult
}

// DeduplicateBatch groups an entire record set into duplicate clusters.
// Records are compared pairwise through a batch-local blocking index,
// clusters are the transitive closure of threshold matches, and every
// valid input id lands in exactly one group (singletons included).
//
// Malformed records (missing id or name, id repeated within the batch) are
// reported as issues and excluded, never fatal. Only invalid options or a
// canceled context fail the call.
func (e *Engine) DeduplicateBatch(ctx context.Context, records []models.BusinessRecord, opts *matcher.Options) (*models.BatchResult, error) {
	if opts == nil {
		opts = e.defaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &models.BatchResult{}

	valid, issues := screenRecords(records)
	result.Issues = issues
	result.TotalProcessed = len(valid)

	matches, err := e.compareAll(ctx, valid, opts)
	if err != nil {
		return nil, err
	}

	groups := clusterMatches(valid, matches)
	result.Groups = groups
	result.UniqueBusinesses = len(groups)
	for _, g := range groups {
		result.DuplicatesFound += len(g.Members) - 1
	}

	if opts.AutoMerge {
		merged, err := e.mergeGroups(valid, groups, opts)
		if err != nil {
			return nil, err
		}
		result.Merged = merged
	}

	elapsed := time.Since(start)
	result.ElapsedMs = elapsed.Milliseconds()
	e.stats.batches.Add(1)
	e.stats.duplicatesFound.Add(int64(result.DuplicatesFound))
	e.mDuplicates.Add(int64(result.DuplicatesFound))
	e.mBatchTime.Observe(elapsed.Seconds())

	e.log.Info("batch deduplicated",
		logging.Int("records", result.TotalProcessed),
		logging.Int("unique", result.UniqueBusinesses),
		logging.Int("duplicates", result.DuplicatesFound),
		logging.Int("issues", len(result.Issues)),
		logging.Duration("elapsed", elapsed))
	return result, nil
}

// screenRecords snapshots valid records and reports the rest as issues.
func screenRecords(records []models.BusinessRecord) ([]models.BusinessRecord, []models.DataQualityIssue) {
	valid := make([]models.BusinessRecord, 0, len(records))
	var issues []models.DataQualityIssue
	seen := make(map[string]bool, len(records))

	for i := range records {
		rec := &records[i]
		switch {
		case rec.ID == "":
			issues = append(issues, models.DataQualityIssue{
				RecordIndex: i, Problem: "missing id",
			})
		case rec.Name == "":
			issues = append(issues, models.DataQualityIssue{
				RecordIndex: i, RecordID: rec.ID, Problem: "missing name",
			})
		case seen[rec.ID]:
			issues = append(issues, models.DataQualityIssue{
				RecordIndex: i, RecordID: rec.ID, Problem: "id repeated within batch",
			})
		default:
			seen[rec.ID] = true
			valid = append(valid, rec.Clone())
		}
	}
	return valid, issues
}

// compareAll runs the pairwise comparisons over a batch-local blocking
// index with a bounded worker pool. Each unordered pair is compared once;
// results are collected and sorted so clustering is deterministic
// regardless of worker scheduling.
func (e *Engine) compareAll(ctx context.Context, valid []models.BusinessRecord, opts *matcher.Options) ([]pairMatch, error) {
	localIdx := index.New()
	position := make(map[string]int, len(valid))
	for i := range valid {
		localIdx.Add(&valid[i])
		position[valid[i].ID] = i
	}

	workers := e.workerCount
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(valid) && len(valid) > 0 {
		workers = len(valid)
	}

	var (
		mu      sync.Mutex
		matches []pairMatch
		done    atomic.Int64
	)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				rec := &valid[i]
				for _, candID := range localIdx.Candidates(rec) {
					j, ok := position[candID]
					if !ok || j <= i {
						continue
					}
					res := e.comparePair(ctx, rec, &valid[j], opts)
					if res.Score >= opts.Threshold {
						mu.Lock()
						matches = append(matches, pairMatch{a: i, b: j, res: res})
						mu.Unlock()
					}
				}
				if n := done.Add(1); opts.BatchSize > 0 && n%int64(opts.BatchSize) == 0 {
					e.log.Debug("batch progress",
						logging.Int64("compared", n), logging.Int("total", len(valid)))
				}
			}
		}()
	}

feed:
	for i := range valid {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(x, y int) bool {
		if matches[x].a != matches[y].a {
			return matches[x].a < matches[y].a
		}
		return matches[x].b < matches[y].b
	})
	return matches, nil
}

// clusterMatches forms duplicate groups as the transitive closure of the
// matched pairs. Groups come back ordered by first appearance in the
// batch, canonical member first.
func clusterMatches(valid []models.BusinessRecord, matches []pairMatch) []models.DuplicateGroup {
	parent := make([]int, len(valid))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// Root at the earlier position so the canonical member is the
		// first-seen record of the cluster.
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	for _, m := range matches {
		union(m.a, m.b)
	}

	memberships := make(map[int][]int)
	for i := range valid {
		root := find(i)
		memberships[root] = append(memberships[root], i)
	}
	evidence := make(map[int][]models.MatchResult)
	for _, m := range matches {
		root := find(m.a)
		evidence[root] = append(evidence[root], m.res)
	}

	roots := make([]int, 0, len(memberships))
	for root := range memberships {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	groups := make([]models.DuplicateGroup, 0, len(roots))
	for _, root := range roots {
		positions := memberships[root]
		sort.Ints(positions)
		members := make([]string, 0, len(positions))
		for _, pos := range positions {
			members = append(members, valid[pos].ID)
		}
		groups = append(groups, models.DuplicateGroup{
			Members:   members,
			Canonical: members[0],
			Evidence:  evidence[root],
		})
	}
	return groups
}

// mergeGroups collapses every multi-member group with the configured
// strategy.
func (e *Engine) mergeGroups(valid []models.BusinessRecord, groups []models.DuplicateGroup, opts *matcher.Options) ([]models.MergedRecord, error) {
	byID := make(map[string]*models.BusinessRecord, len(valid))
	for i := range valid {
		byID[valid[i].ID] = &valid[i]
	}

	var merged []models.MergedRecord
	for _, g := range groups {
		if len(g.Members) < 2 {
			continue
		}
		primary := byID[g.Canonical]
		duplicates := make([]*models.BusinessRecord, 0, len(g.Members)-1)
		for _, id := range g.Members[1:] {
			duplicates = append(duplicates, byID[id])
		}
		m, err := merge.Merge(primary, duplicates, opts.MergeStrategy)
		if err != nil {
			return nil, fmt.Errorf("merging group %s: %w", g.Canonical, err)
		}
		merged = append(merged, *m)
	}
	return merged, nil
}

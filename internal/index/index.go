// Package index maintains the candidate blocking index. Records are keyed
// on coarse normalized fields so that duplicate lookups touch a small
// candidate set instead of every indexed record.
package index

import (
	"hash/fnv"
	"sort"
	"sync"

	"business-dedup/internal/models"
	"business-dedup/pkg/metrics"
	"business-dedup/pkg/normalize"
)

const shardCount = 32

type shard struct {
	mu      sync.RWMutex
	entries map[string]map[string]bool // blocking key -> set of record IDs
}

// Index is safe for concurrent use. Reads during a concurrent Add may miss
// the record being added; callers re-query rather than lock the world.
type Index struct {
	shards [shardCount]*shard

	mu         sync.RWMutex
	recordKeys map[string][]string // record ID -> blocking keys it was indexed under

	adds    *metrics.Counter
	lookups *metrics.Counter
}

func New() *Index {
	idx := &Index{
		recordKeys: make(map[string][]string),
		adds:       metrics.Default.Counter("index_adds_total", "Records added to the candidate index"),
		lookups:    metrics.Default.Counter("index_lookups_total", "Candidate lookups against the index"),
	}
	for i := range idx.shards {
		idx.shards[i] = &shard{entries: make(map[string]map[string]bool)}
	}
	return idx
}

// BlockingKeys derives the coarse keys a record is indexed under. A record
// with none of the keyed fields yields only its name key; a record with an
// empty name yields nothing and is unreachable through the index.
func BlockingKeys(rec *models.BusinessRecord) []string {
	var keys []string
	if rec.BusinessNumber != nil {
		if bn := normalize.BusinessNumber(*rec.BusinessNumber); bn != "" {
			keys = append(keys, "bn|"+bn)
		}
	}
	if rec.Phone != nil {
		if pk := normalize.PhoneKey(*rec.Phone); pk != "" {
			keys = append(keys, "ph|"+pk)
		}
	}
	if rec.Email != nil {
		if dom := normalize.EmailDomain(*rec.Email); dom != "" {
			keys = append(keys, "em|"+dom)
		}
	}
	if rec.Website != nil {
		if host := normalize.WebsiteHost(*rec.Website); host != "" {
			keys = append(keys, "ws|"+host)
		}
	}
	if nk := normalize.NameKey(rec.Name); nk != "" {
		keys = append(keys, "nm|"+nk)
	}
	return keys
}

// Add indexes a record under all of its blocking keys. Re-adding the same
// record first drops its previous keys, so field edits do not leave stale
// index entries behind.
func (idx *Index) Add(rec *models.BusinessRecord) {
	if rec == nil || rec.ID == "" {
		return
	}
	idx.Remove(rec.ID)

	keys := BlockingKeys(rec)
	for _, key := range keys {
		s := idx.shardFor(key)
		s.mu.Lock()
		ids := s.entries[key]
		if ids == nil {
			ids = make(map[string]bool)
			s.entries[key] = ids
		}
		ids[rec.ID] = true
		s.mu.Unlock()
	}

	idx.mu.Lock()
	idx.recordKeys[rec.ID] = keys
	idx.mu.Unlock()
	idx.adds.Inc()
}

// Candidates returns the IDs sharing at least one blocking key with the
// record, excluding the record itself. The result is sorted so downstream
// comparison order is stable.
func (idx *Index) Candidates(rec *models.BusinessRecord) []string {
	idx.lookups.Inc()

	seen := make(map[string]bool)
	for _, key := range BlockingKeys(rec) {
		s := idx.shardFor(key)
		s.mu.RLock()
		for id := range s.entries[key] {
			if id != rec.ID {
				seen[id] = true
			}
		}
		s.mu.RUnlock()
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Remove drops a record from every key it was indexed under. Unknown IDs
// are a no-op.
func (idx *Index) Remove(id string) {
	idx.mu.Lock()
	keys, ok := idx.recordKeys[id]
	if ok {
		delete(idx.recordKeys, id)
	}
	idx.mu.Unlock()
	if !ok {
		return
	}

	for _, key := range keys {
		s := idx.shardFor(key)
		s.mu.Lock()
		if ids := s.entries[key]; ids != nil {
			delete(ids, id)
			if len(ids) == 0 {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}

// Len reports the number of indexed records.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.recordKeys)
}

func (idx *Index) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return idx.shards[h.Sum32()%shardCount]
}

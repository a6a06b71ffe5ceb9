package index

import (
	"fmt"
	"sync"
	"testing"

	"business-dedup/internal/models"
)

func strPtr(s string) *string { return &s }

func record(id, name string) *models.BusinessRecord {
	return &models.BusinessRecord{ID: id, Name: name}
}

func TestAddAndCandidatesByName(t *testing.T) {
	idx := New()
	idx.Add(record("a", "Northern Lights Bakery"))
	idx.Add(record("b", "Northern Lights Bakery Inc"))
	idx.Add(record("c", "Completely Different Shop"))

	got := idx.Candidates(record("probe", "Northern Lights Bakery Ltd"))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("candidates = %v, want [a b]", got)
	}
}

func TestCandidatesExcludesSelf(t *testing.T) {
	idx := New()
	rec := record("a", "Solo Ventures")
	idx.Add(rec)

	if got := idx.Candidates(rec); len(got) != 0 {
		t.Fatalf("record matched itself: %v", got)
	}
}

func TestPhoneKeyBlocking(t *testing.T) {
	idx := New()
	a := record("a", "Alpha Consulting")
	a.Phone = strPtr("+1 (555) 123-4567")
	idx.Add(a)

	probe := record("probe", "Totally Unrelated Name")
	probe.Phone = strPtr("5551234567")
	got := idx.Candidates(probe)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("phone blocking failed: %v", got)
	}
}

func TestReAddDropsStaleKeys(t *testing.T) {
	idx := New()
	a := record("a", "Alpha Consulting")
	a.Phone = strPtr("5551234567")
	idx.Add(a)

	// Phone changed; the old key must no longer reach the record.
	a2 := record("a", "Alpha Consulting")
	a2.Phone = strPtr("4165550000")
	idx.Add(a2)

	probe := record("probe", "Unrelated")
	probe.Phone = strPtr("5551234567")
	if got := idx.Candidates(probe); len(got) != 0 {
		t.Fatalf("stale phone key survived re-add: %v", got)
	}
	if idx.Len() != 1 {
		t.Fatalf("Len = %d, want 1", idx.Len())
	}
}

func TestRemove(t *testing.T) {
	idx := New()
	idx.Add(record("a", "Northern Lights Bakery"))
	idx.Remove("a")
	idx.Remove("a") // unknown ID is a no-op

	if idx.Len() != 0 {
		t.Fatalf("Len = %d after remove, want 0", idx.Len())
	}
	if got := idx.Candidates(record("probe", "Northern Lights Bakery")); len(got) != 0 {
		t.Fatalf("removed record still reachable: %v", got)
	}
}

func TestMinimalRecordIndexable(t *testing.T) {
	idx := New()
	idx.Add(record("a", "X"))

	got := idx.Candidates(record("probe", "X"))
	if len(got) != 1 {
		t.Fatalf("minimal record not reachable: %v", got)
	}
}

func TestConcurrentAddAndLookup(t *testing.T) {
	idx := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			idx.Add(record(fmt.Sprintf("r%d", n), fmt.Sprintf("Business %d", n)))
		}(i)
		go func(n int) {
			defer wg.Done()
			idx.Candidates(record("probe", fmt.Sprintf("Business %d", n)))
		}(i)
	}
	wg.Wait()

	if idx.Len() != 50 {
		t.Fatalf("Len = %d, want 50", idx.Len())
	}
}

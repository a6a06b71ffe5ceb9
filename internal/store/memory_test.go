package store

import (
	"context"
	"errors"
	"testing"

	"business-dedup/internal/models"
)

func TestMemoryStoreGet(t *testing.T) {
	s := NewMemoryStore()
	phone := "4165551234"
	s.Put(models.BusinessRecord{ID: "a", Name: "Acme", Phone: &phone})

	rec, err := s.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.Name != "Acme" {
		t.Errorf("name = %q", rec.Name)
	}

	// The returned record is a snapshot; mutating it must not touch the store.
	*rec.Phone = "0000000000"
	again, _ := s.Get(context.Background(), "a")
	if *again.Phone != "4165551234" {
		t.Error("stored record mutated through returned snapshot")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListSorted(t *testing.T) {
	s := NewMemoryStore()
	s.Put(models.BusinessRecord{ID: "c", Name: "C"})
	s.Put(models.BusinessRecord{ID: "a", Name: "A"})
	s.Put(models.BusinessRecord{ID: "b", Name: "B"})

	recs, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(recs) != 3 || recs[0].ID != "a" || recs[1].ID != "b" || recs[2].ID != "c" {
		t.Fatalf("list not sorted by id: %+v", recs)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	s.Put(models.BusinessRecord{ID: "a", Name: "A"})
	s.Delete("a")

	if s.Len() != 0 {
		t.Fatalf("Len = %d after delete", s.Len())
	}
}

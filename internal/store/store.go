// Package store defines the record store collaborator. The engine reads
// records through this interface to populate the candidate index and to
// resolve candidate ids; it never writes merge results back.
package store

import (
	"context"
	"errors"

	"business-dedup/internal/models"
)

// ErrNotFound reports a record id that does not resolve. The engine treats
// this as "no match for that candidate", never as a failure: the index can
// briefly hold ids deleted from the store.
var ErrNotFound = errors.New("record not found")

// RecordStore is the read side of the external business record store.
type RecordStore interface {
	Get(ctx context.Context, id string) (*models.BusinessRecord, error)
	List(ctx context.Context) ([]models.BusinessRecord, error)
}

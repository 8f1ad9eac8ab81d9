// Package storage defines the persistence boundary for financial records.
//
// A RecordStore is the sole durable owner of the record collection. Engines
// live in sub-packages (boltdb, sqlite, memory) and must commit every
// successful mutation before returning.
package storage

import (
	"context"
	"errors"
	"fmt"

	"despesas/internal/core"
)

var (
	// ErrNotFound is returned by Update when no record exists for the id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned by Insert when the id is already stored.
	// It always arrives wrapped in ErrStorageFailure.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrStorageFailure is wrapped by every error coming from the engine.
	ErrStorageFailure = errors.New("storage failure")
)

// RecordStore persists records keyed by ID.
type RecordStore interface {
	// GetAll returns every stored record. Order is engine-defined.
	GetAll(ctx context.Context) ([]core.Record, error)

	// Insert writes a new record keyed by its ID. The caller owns ID
	// generation. An ID that is already stored fails with ErrDuplicateID.
	Insert(ctx context.Context, r core.Record) error

	// Update replaces the record at r.ID and fails with ErrNotFound if absent.
	Update(ctx context.Context, r core.Record) error

	// Delete removes the record. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Failure wraps an engine error so callers can match ErrStorageFailure while
// keeping the cause. ErrNotFound and context errors pass through unchanged.
func Failure(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageFailure, err)
}

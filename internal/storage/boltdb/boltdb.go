// Package boltdb provides a BoltDB-backed record store.
//
// BoltDB keeps everything in a single file and fsyncs on every committed
// read-write transaction, so a nil error from a mutation means the record is
// on disk. Records are stored as JSON values keyed by ID in one bucket.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	bolt "github.com/boltdb/bolt"

	"despesas/internal/core"
	"despesas/internal/storage"
)

const bucketName = "records"

// Store wraps a BoltDB database and implements storage.RecordStore.
type Store struct {
	db *bolt.DB
}

var _ storage.RecordStore = (*Store)(nil)

// New opens (or creates) a BoltDB database at path and ensures the records
// bucket exists.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetAll returns every record in key order.
func (s *Store) GetAll(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := []core.Record{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.ForEach(func(k, v []byte) error {
			var r core.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decode record %s: %w", k, err)
			}
			items = append(items, r)
			return nil
		})
	})
	if err != nil {
		return nil, storage.Failure("list records", err)
	}
	return items, nil
}

// Insert writes r under its ID.
func (s *Store) Insert(ctx context.Context, r core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return storage.Failure("encode record", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b.Get([]byte(r.ID)) != nil {
			return storage.ErrDuplicateID
		}
		return b.Put([]byte(r.ID), data)
	})
	if err != nil {
		return storage.Failure("insert record", err)
	}

	slog.DebugContext(ctx, "Record inserted", "component", "storage", "engine", "bolt", "id", r.ID)
	return nil
}

// Update replaces an existing record. Returns storage.ErrNotFound if the key
// does not exist.
func (s *Store) Update(ctx context.Context, r core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return storage.Failure("encode record", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b.Get([]byte(r.ID)) == nil {
			return storage.ErrNotFound
		}
		return b.Put([]byte(r.ID), data)
	})
	if err != nil {
		return storage.Failure("update record "+r.ID, err)
	}

	slog.DebugContext(ctx, "Record updated", "component", "storage", "engine", "bolt", "id", r.ID)
	return nil
}

// Delete removes a record by ID. Deleting a missing key is a no-op in bolt.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(id))
	})
	if err != nil {
		return storage.Failure("delete record "+id, err)
	}
	return nil
}

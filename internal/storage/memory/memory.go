// Package memory is a process-local record store. It keeps insertion order,
// can be seeded from a JSON file and supports injected failures for tests.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"despesas/internal/core"
	"despesas/internal/storage"
)

// Operation names accepted by FailOn.
const (
	OpGetAll = "get_all"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

type Store struct {
	mu     sync.Mutex
	items  []core.Record
	faults map[string]error
	calls  map[string]int
}

var _ storage.RecordStore = (*Store)(nil)

func New(seed ...core.Record) *Store {
	s := &Store{
		faults: map[string]error{},
		calls:  map[string]int{},
	}
	seen := map[string]struct{}{}
	for _, r := range seed {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		s.items = append(s.items, r)
	}
	return s
}

// NewFromFile seeds the store from a JSON array of records. A missing file
// yields an empty store.
func NewFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed []core.Record
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return New(seed...), nil
}

// FailOn makes every subsequent call of op return err wrapped as a storage
// failure. A nil err clears the fault.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// Calls reports how many times op was invoked, failed calls included.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Store) GetAll(ctx context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpGetAll); err != nil {
		return nil, err
	}
	return slices.Clone(s.items), nil
}

func (s *Store) Insert(ctx context.Context, r core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpInsert); err != nil {
		return err
	}
	if s.index(r.ID) >= 0 {
		return storage.Failure("insert record "+r.ID, storage.ErrDuplicateID)
	}
	s.items = append(s.items, r)
	return nil
}

func (s *Store) Update(ctx context.Context, r core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpUpdate); err != nil {
		return err
	}
	i := s.index(r.ID)
	if i < 0 {
		return storage.Failure("update record "+r.ID, storage.ErrNotFound)
	}
	s.items[i] = r
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpDelete); err != nil {
		return err
	}
	if i := s.index(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) enter(ctx context.Context, op string) error {
	s.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := s.faults[op]; ok {
		return storage.Failure(op, err)
	}
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(r core.Record) bool { return r.ID == id })
}

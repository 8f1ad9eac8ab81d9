package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"despesas/internal/core"
	"despesas/internal/log"
	"despesas/internal/storage"
)

// State of the in-memory view.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Snapshot is what a surface renders: records in display order plus totals.
type Snapshot struct {
	State   State         `json:"state"`
	Records []core.Record `json:"records"`
	Totals  core.Totals   `json:"totals"`
}

// RecordService keeps an in-memory view of the record store and writes
// through to it, reloading after every successful mutation. Operations run
// one at a time; later callers wait their turn.
type RecordService struct {
	store    storage.RecordStore
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
	newID    func() string

	// sem serializes operations. mu guards the fields below it.
	sem     *semaphore.Weighted
	mu      sync.RWMutex
	state   State
	records []core.Record
	totals  core.Totals
}

type Option func(*RecordService)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *RecordService) { s.now = now }
}

// WithIDGenerator overrides the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *RecordService) { s.newID = newID }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *RecordService) { s.logger = logger }
}

func NewRecordService(store storage.RecordStore, notifier Notifier, opts ...Option) *RecordService {
	s := &RecordService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
		sem:      semaphore.NewWeighted(1),
		state:    StateLoading,
		records:  []core.Record{},
		totals:   core.Summarize(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default(log.ComponentRecords)
	}
	if s.notifier == nil {
		s.notifier = NewLogNotifier(s.logger)
	}
	return s
}

// Refresh reloads the collection from the store. On failure the previous
// collection is kept and the user is notified.
func (s *RecordService) Refresh(ctx context.Context) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)
	return s.refresh(ctx)
}

// Add validates the draft, stores a new record and reloads. The record only
// becomes visible once a reload has observed it.
func (s *RecordService) Add(ctx context.Context, d core.Draft) (core.Record, error) {
	if err := d.Validate(); err != nil {
		return core.Record{}, err
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return core.Record{}, err
	}
	defer s.sem.Release(1)
	// Once admitted, the write and its reload run to completion so the view
	// always matches the store.
	ctx = context.WithoutCancel(ctx)

	rec := core.NewRecord(d, s.newID(), s.now())
	if err := s.store.Insert(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "Failed to add record", log.NewFields().
			WithOperation(log.OpCreate).
			WithRecord(rec.ID, string(rec.Kind), rec.Description, rec.Amount.Cents, rec.Category).
			WithError(err).ToSlice()...)
		s.notifier.Notify(ctx, msgAddFailed)
		return core.Record{}, fmt.Errorf("add record: %w", err)
	}

	s.logger.InfoContext(ctx, "Record added", log.NewFields().
		WithOperation(log.OpCreate).
		WithRecord(rec.ID, string(rec.Kind), rec.Description, rec.Amount.Cents, rec.Category).ToSlice()...)

	_ = s.refresh(ctx)
	s.notifier.Notify(ctx, msgAdded)
	return rec, nil
}

// Edit replaces the editable fields of the record named by d.ID. An id that
// is not in the current view yields storage.ErrNotFound without touching
// the store or notifying.
func (s *RecordService) Edit(ctx context.Context, d core.Draft) (core.Record, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return core.Record{}, err
	}
	defer s.sem.Release(1)
	ctx = context.WithoutCancel(ctx)

	existing, ok := s.lookup(d.ID)
	if !ok {
		s.logger.DebugContext(ctx, "Edit of unknown record ignored", log.FieldRecordID, d.ID)
		return core.Record{}, fmt.Errorf("edit record %q: %w", d.ID, storage.ErrNotFound)
	}
	if err := d.Validate(); err != nil {
		return core.Record{}, err
	}

	rec := existing.Apply(d, s.now())
	if err := s.store.Update(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update record", log.NewFields().
			WithOperation(log.OpUpdate).
			WithRecord(rec.ID, string(rec.Kind), rec.Description, rec.Amount.Cents, rec.Category).
			WithError(err).ToSlice()...)
		s.notifier.Notify(ctx, msgUpdateFailed)
		return core.Record{}, fmt.Errorf("edit record %q: %w", d.ID, err)
	}

	s.logger.InfoContext(ctx, "Record updated", log.FieldOperation, log.OpUpdate, log.FieldRecordID, rec.ID)

	_ = s.refresh(ctx)
	s.notifier.Notify(ctx, msgUpdated)
	return rec, nil
}

// Remove deletes the record and reloads whether or not it existed.
func (s *RecordService) Remove(ctx context.Context, id string) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)
	ctx = context.WithoutCancel(ctx)

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to remove record",
			log.FieldOperation, log.OpDelete, log.FieldRecordID, id, log.FieldError, err)
		s.notifier.Notify(ctx, msgRemoveFailed)
		return fmt.Errorf("remove record %q: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Record removed", log.FieldOperation, log.OpDelete, log.FieldRecordID, id)

	_ = s.refresh(ctx)
	s.notifier.Notify(ctx, msgRemoved)
	return nil
}

// Snapshot returns the current view: records sorted by date descending with
// insertion order as tiebreak, and the totals of the last successful reload.
func (s *RecordService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		State:   s.state,
		Records: core.SortForDisplay(s.records),
		Totals:  s.totals,
	}
}

// Collection returns the records in store order.
func (s *RecordService) Collection() []core.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Get returns the record with the given id from the current view.
func (s *RecordService) Get(id string) (core.Record, bool) {
	return s.lookup(id)
}

func (s *RecordService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// refresh must be called with the semaphore held.
func (s *RecordService) refresh(ctx context.Context) error {
	s.setState(StateLoading)
	defer s.setState(StateReady)

	items, err := s.store.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load records",
			log.FieldOperation, log.OpRefresh, log.FieldError, err)
		s.notifier.Notify(ctx, msgLoadFailed)
		return fmt.Errorf("refresh records: %w", err)
	}
	if items == nil {
		items = []core.Record{}
	}
	totals := core.Summarize(items)

	s.mu.Lock()
	s.records = items
	s.totals = totals
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Records loaded", log.FieldOperation, log.OpRefresh, log.FieldCount, len(items))
	return nil
}

func (s *RecordService) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *RecordService) lookup(id string) (core.Record, bool) {
	if id == "" {
		return core.Record{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.records, func(r core.Record) bool { return r.ID == id })
	if i < 0 {
		return core.Record{}, false
	}
	return s.records[i], true
}

// IsNotFound reports whether err means the target record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

package boltdb_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"despesas/internal/core"
	"despesas/internal/storage"
	"despesas/internal/storage/boltdb"
)

func newTestStore(t *testing.T) *boltdb.Store {
	t.Helper()
	s, err := boltdb.New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(id string) core.Record {
	return core.Record{
		ID:            id,
		Kind:          core.KindExpense,
		Description:   "Almoço",
		Amount:        core.Money{Cents: 2350},
		Date:          core.NewDate(2024, 6, 1),
		Category:      "Restaurantes",
		PaymentMethod: "Dinheiro Vivo",
		CreatedAt:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetAllEmpty(t *testing.T) {
	s := newTestStore(t)
	items, err := s.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", items)
	}
}

func TestInsertAndGetAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleRecord("a")
	if err := s.Insert(ctx, want); err != nil {
		t.Fatalf("insert: %v", err)
	}

	items, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 record, got %d", len(items))
	}
	got := items[0]
	if got.ID != want.ID || got.Amount != want.Amount || !got.Date.Equal(want.Date.Time) || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
	if got.UpdatedAt != nil {
		t.Fatalf("expected UpdatedAt unset, got %v", got.UpdatedAt)
	}
}

func TestInsertDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleRecord("dup")
	if err := s.Insert(ctx, first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	second := sampleRecord("dup")
	second.Description = "Outro"
	err := s.Insert(ctx, second)
	if !errors.Is(err, storage.ErrDuplicateID) || !errors.Is(err, storage.ErrStorageFailure) {
		t.Fatalf("expected duplicate id storage failure, got %v", err)
	}

	items, _ := s.GetAll(ctx)
	if len(items) != 1 || items[0].Description != first.Description {
		t.Fatalf("first insert must survive, got %+v", items)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := sampleRecord("a")
	if err := s.Insert(ctx, r); err != nil {
		t.Fatalf("insert: %v", err)
	}

	updated := r.Apply(core.Draft{
		Kind:          core.KindIncome,
		Description:   "Reembolso almoço",
		Amount:        core.Money{Cents: 1000},
		Date:          r.Date,
		Category:      "Reembolso",
		PaymentMethod: "Pix Itaú",
	}, r.CreatedAt.Add(time.Hour))
	if err := s.Update(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	items, _ := s.GetAll(ctx)
	if len(items) != 1 || items[0].Kind != core.KindIncome || items[0].UpdatedAt == nil {
		t.Fatalf("update not persisted: %+v", items)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.Update(context.Background(), sampleRecord("missing"))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, storage.ErrStorageFailure) {
		t.Fatalf("not found should not be reported as a storage failure")
	}
}

func TestDeleteIdempotency(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_ = s.Insert(ctx, sampleRecord("del-id"))

	if err := s.Delete(ctx, "del-id"); err != nil {
		t.Fatalf("unexpected error on first delete: %v", err)
	}
	if err := s.Delete(ctx, "del-id"); err != nil {
		t.Fatalf("unexpected error on second delete: %v", err)
	}
	items, _ := s.GetAll(ctx)
	if len(items) != 0 {
		t.Fatalf("expected empty store, got %d", len(items))
	}
}

func TestDurableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	s, err := boltdb.New(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Insert(context.Background(), sampleRecord("keep")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	s.Close()

	s, err = boltdb.New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	items, err := s.GetAll(context.Background())
	if err != nil || len(items) != 1 || items[0].ID != "keep" {
		t.Fatalf("record lost across reopen: %v %v", items, err)
	}
}

func TestClosedStoreReportsStorageFailure(t *testing.T) {
	s, err := boltdb.New(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()

	err = s.Insert(context.Background(), sampleRecord("x"))
	if !errors.Is(err, storage.ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Insert(ctx, sampleRecord("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

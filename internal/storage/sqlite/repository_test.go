package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"despesas/internal/core"
	"despesas/internal/storage"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "data", "test.sqlite"))
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func record(id string, day int) core.Record {
	return core.Record{
		ID:            id,
		Kind:          core.KindExpense,
		Description:   "Mercado " + id,
		Amount:        core.Money{Cents: 1234},
		Date:          core.NewDate(2024, 3, day),
		Category:      "Mercado",
		PaymentMethod: "Débito Itaú",
		CreatedAt:     time.Date(2024, 3, day, 9, 30, 0, 123, time.UTC),
	}
}

func TestRepositoryInsertOrderAndRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i, id := range []string{"c", "a", "b"} {
		if err := repo.Insert(ctx, record(id, i+1)); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	items, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 records, got %d", len(items))
	}
	for i, id := range []string{"c", "a", "b"} {
		if items[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, items[i].ID, id)
		}
	}
	want := record("c", 1)
	got := items[0]
	if got.Amount != want.Amount || got.Date.ISO() != want.Date.ISO() || !got.CreatedAt.Equal(want.CreatedAt) || got.UpdatedAt != nil {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestRepositoryUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	r := record("a", 1)
	if err := repo.Insert(ctx, r); err != nil {
		t.Fatalf("insert: %v", err)
	}
	d := r.Draft()
	d.Description = "Feira"
	updated := r.Apply(d, r.CreatedAt.Add(time.Minute))
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	items, _ := repo.GetAll(ctx)
	if items[0].Description != "Feira" || items[0].UpdatedAt == nil || !items[0].UpdatedAt.Equal(*updated.UpdatedAt) {
		t.Fatalf("update not persisted: %+v", items[0])
	}
}

func TestRepositoryUpdateMissing(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.Update(context.Background(), record("nope", 1))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryDeleteIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_ = repo.Insert(ctx, record("a", 1))

	for i := 0; i < 2; i++ {
		if err := repo.Delete(ctx, "a"); err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
	}
	items, _ := repo.GetAll(ctx)
	if len(items) != 0 {
		t.Fatalf("expected empty, got %v", items)
	}
}

func TestRepositoryDuplicateIDIsStorageFailure(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.Insert(ctx, record("dup", 1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := repo.Insert(ctx, record("dup", 2))
	if !errors.Is(err, storage.ErrStorageFailure) || !errors.Is(err, storage.ErrDuplicateID) {
		t.Fatalf("expected duplicate id storage failure, got %v", err)
	}
	items, _ := repo.GetAll(ctx)
	if len(items) != 1 || items[0].Date.Day() != 1 {
		t.Fatalf("first insert must survive, got %+v", items)
	}
}

func TestRunMigrationsIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.sqlite")
	if err := RunMigrations(path); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

package backend

import (
	"context"
	"path/filepath"
	"testing"

	"despesas/internal/config"
	"despesas/internal/storage/boltdb"
	"despesas/internal/storage/memory"
	"despesas/internal/storage/sqlite"
)

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		config Config
		check  func(t *testing.T, r *BackendResult)
	}{
		{
			name:   "bolt",
			config: Config{Type: BoltBackend, BoltDBPath: filepath.Join(dir, "a.bolt")},
			check: func(t *testing.T, r *BackendResult) {
				if _, ok := r.Store.(*boltdb.Store); !ok {
					t.Errorf("expected *boltdb.Store, got %T", r.Store)
				}
			},
		},
		{
			name:   "sqlite",
			config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "a.db")},
			check: func(t *testing.T, r *BackendResult) {
				if _, ok := r.Store.(*sqlite.Repository); !ok {
					t.Errorf("expected *sqlite.Repository, got %T", r.Store)
				}
			},
		},
		{
			name:   "memory",
			config: Config{Type: MemoryBackend},
			check: func(t *testing.T, r *BackendResult) {
				if _, ok := r.Store.(*memory.Store); !ok {
					t.Errorf("expected *memory.Store, got %T", r.Store)
				}
			},
		},
	}

	f := NewFactory(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := f.CreateBackend(context.Background(), tt.config)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer r.Cleanup()
			tt.check(t, r)

			items, err := r.Store.GetAll(context.Background())
			if err != nil || len(items) != 0 {
				t.Fatalf("fresh store: items=%v err=%v", items, err)
			}
		})
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	f := NewFactory(nil)
	for _, cfg := range []Config{
		{Type: "sheets"},
		{Type: BoltBackend},
		{Type: SQLiteBackend},
	} {
		if _, err := f.CreateBackend(context.Background(), cfg); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	got, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", BoltDBPath: "x.bolt"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if got.Type != SQLiteBackend || got.SQLiteDBPath != "x.db" || got.BoltDBPath != "x.bolt" {
		t.Fatalf("unexpected config %+v", got)
	}
}

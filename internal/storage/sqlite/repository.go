// Package sqlite provides a SQLite-backed record store using the pure-Go
// modernc.org/sqlite driver. The schema is managed by golang-migrate.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"despesas/internal/core"
	"despesas/internal/storage"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const timeLayout = time.RFC3339Nano

type Repository struct {
	db *sql.DB
}

var _ storage.RecordStore = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetAll returns records in insertion order.
func (r *Repository) GetAll(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, description, amount_cents, date, category, payment_method, created_at, updated_at
		FROM records
		ORDER BY seq`)
	if err != nil {
		return nil, storage.Failure("list records", err)
	}
	defer rows.Close()

	items := []core.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storage.Failure("scan record", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Failure("list records", err)
	}
	return items, nil
}

func (r *Repository) Insert(ctx context.Context, rec core.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (id, kind, description, amount_cents, date, category, payment_method, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), rec.Description, rec.Amount.Cents, rec.Date.ISO(),
		rec.Category, rec.PaymentMethod, rec.CreatedAt.UTC().Format(timeLayout), formatNullableTime(rec.UpdatedAt))
	if isUniqueViolation(err) {
		return storage.Failure("insert record "+rec.ID, fmt.Errorf("%w: %w", storage.ErrDuplicateID, err))
	}
	if err != nil {
		return storage.Failure("insert record", err)
	}

	slog.DebugContext(ctx, "Record saved to SQLite",
		"component", "storage",
		"id", rec.ID,
		"amount_cents", rec.Amount.Cents)
	return nil
}

func (r *Repository) Update(ctx context.Context, rec core.Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE records
		SET kind = ?, description = ?, amount_cents = ?, date = ?, category = ?, payment_method = ?, created_at = ?, updated_at = ?
		WHERE id = ?`,
		string(rec.Kind), rec.Description, rec.Amount.Cents, rec.Date.ISO(), rec.Category, rec.PaymentMethod,
		rec.CreatedAt.UTC().Format(timeLayout), formatNullableTime(rec.UpdatedAt), rec.ID)
	if err != nil {
		return storage.Failure("update record "+rec.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storage.Failure("update record "+rec.ID, err)
	}
	if n == 0 {
		return storage.Failure("update record "+rec.ID, storage.ErrNotFound)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return storage.Failure("delete record "+id, err)
	}
	return nil
}

func scanRecord(rows *sql.Rows) (core.Record, error) {
	var (
		rec       core.Record
		kind      string
		date      string
		createdAt string
		updatedAt sql.NullString
	)
	if err := rows.Scan(&rec.ID, &kind, &rec.Description, &rec.Amount.Cents, &date,
		&rec.Category, &rec.PaymentMethod, &createdAt, &updatedAt); err != nil {
		return core.Record{}, err
	}
	rec.Kind = core.Kind(kind)

	d, err := core.ParseISODate(date)
	if err != nil {
		return core.Record{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	rec.Date = d

	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return core.Record{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if updatedAt.Valid {
		t, err := time.Parse(timeLayout, updatedAt.String)
		if err != nil {
			return core.Record{}, fmt.Errorf("parse updated_at %q: %w", updatedAt.String, err)
		}
		rec.UpdatedAt = &t
	}
	return rec, nil
}

func formatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeLayout), Valid: true}
}

func isUniqueViolation(err error) bool {
	var se *moderncsqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

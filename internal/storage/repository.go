package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"foodtracker/internal/core"

	_ "modernc.org/sqlite"
)

// CreatedAtLayout is a fixed-width ISO-8601 timestamp so that created_at
// orders correctly as text.
const CreatedAtLayout = "2006-01-02T15:04:05.000000Z07:00"

type SQLiteRepository struct {
	db      *sql.DB
	path    string
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		path:    dbPath,
		queries: New(db),
		now:     time.Now,
	}

	if err := repo.CreateSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// CreateSchema ensures the food_entries table exists. It is safe to call on
// every start.
func (r *SQLiteRepository) CreateSchema(ctx context.Context) error {
	version, err := RunMigrations(r.path)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	slog.DebugContext(ctx, "Schema ready", "path", r.path, "version", version)
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListAll returns every entry, newest date first and, within a date, most
// recently created first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.FoodEntry, error) {
	rows, err := r.queries.ListFoodEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list food entries: %w", err)
	}

	entries := make([]core.FoodEntry, 0, len(rows))
	for _, row := range rows {
		e, err := toEntry(row)
		if err != nil {
			return nil, fmt.Errorf("decode food entry %d: %w", row.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Get returns one entry or core.ErrEntryNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.FoodEntry, error) {
	row, err := r.queries.GetFoodEntry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.FoodEntry{}, core.ErrEntryNotFound
	}
	if err != nil {
		return core.FoodEntry{}, fmt.Errorf("get food entry by id: %w", err)
	}
	return toEntry(row)
}

// Create inserts e and returns it with its assigned ID. CreatedAt defaults
// to the current time when zero. The entry is not validated.
func (r *SQLiteRepository) Create(ctx context.Context, e core.FoodEntry) (core.FoodEntry, error) {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	row, err := r.queries.CreateFoodEntry(ctx, CreateFoodEntryParams{
		Date:      e.Date.String(),
		Category:  string(e.Category),
		Food:      e.Food,
		Beverage:  e.Beverage,
		Protein:   int64(e.Protein),
		Notes:     nullString(e.Notes),
		CreatedAt: formatCreatedAt(createdAt),
	})
	if err != nil {
		return core.FoodEntry{}, fmt.Errorf("create food entry: %w", err)
	}

	slog.InfoContext(ctx, "Food entry saved to SQLite",
		"id", row.ID,
		"date", row.Date,
		"category", row.Category,
		"protein", row.Protein)

	return toEntry(row)
}

// Update replaces every field of entry id except ID and CreatedAt and
// reports whether a row matched. An unknown id is a no-op.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, e core.FoodEntry) (bool, error) {
	n, err := r.queries.UpdateFoodEntry(ctx, UpdateFoodEntryParams{
		Date:     e.Date.String(),
		Category: string(e.Category),
		Food:     e.Food,
		Beverage: e.Beverage,
		Protein:  int64(e.Protein),
		Notes:    nullString(e.Notes),
		ID:       id,
	})
	if err != nil {
		return false, fmt.Errorf("update food entry: %w", err)
	}

	slog.InfoContext(ctx, "Food entry updated", "id", id, "rows_affected", n)
	return n > 0, nil
}

// Delete removes entry id. An unknown id is a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteFoodEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("delete food entry: %w", err)
	}

	slog.InfoContext(ctx, "Food entry deleted", "id", id, "rows_affected", n)
	return nil
}

// ClearAll removes every entry.
func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	n, err := r.queries.DeleteAllFoodEntries(ctx)
	if err != nil {
		return fmt.Errorf("clear food entries: %w", err)
	}

	slog.WarnContext(ctx, "All food entries cleared", "rows_affected", n)
	return nil
}

func toEntry(row FoodEntryRow) (core.FoodEntry, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.FoodEntry{}, fmt.Errorf("parse date %q: %w", row.Date, err)
	}
	createdAt, err := parseCreatedAt(row.CreatedAt)
	if err != nil {
		return core.FoodEntry{}, fmt.Errorf("parse created_at %q: %w", row.CreatedAt, err)
	}
	return core.FoodEntry{
		ID:        row.ID,
		Date:      date,
		Category:  core.Category(row.Category),
		Food:      row.Food,
		Beverage:  row.Beverage,
		Protein:   int(row.Protein),
		Notes:     row.Notes.String,
		CreatedAt: createdAt,
	}, nil
}

func formatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}

// parseCreatedAt also accepts RFC 3339 and zone-less ISO timestamps written
// by older tools.
func parseCreatedAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range []string{CreatedAtLayout, time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// FoodEntryRow mirrors a food_entries row as stored.
type FoodEntryRow struct {
	ID        int64
	Date      string
	Category  string
	Food      string
	Beverage  string
	Protein   int64
	Notes     sql.NullString
	CreatedAt string
}

const listFoodEntries = `-- name: ListFoodEntries :many
SELECT id, date, category, food, beverage, protein, notes, created_at
FROM food_entries
ORDER BY date DESC, created_at DESC, id DESC
`

func (q *Queries) ListFoodEntries(ctx context.Context) ([]FoodEntryRow, error) {
	rows, err := q.db.QueryContext(ctx, listFoodEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FoodEntryRow
	for rows.Next() {
		var i FoodEntryRow
		if err := rows.Scan(
			&i.ID,
			&i.Date,
			&i.Category,
			&i.Food,
			&i.Beverage,
			&i.Protein,
			&i.Notes,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getFoodEntry = `-- name: GetFoodEntry :one
SELECT id, date, category, food, beverage, protein, notes, created_at
FROM food_entries
WHERE id = ?
`

func (q *Queries) GetFoodEntry(ctx context.Context, id int64) (FoodEntryRow, error) {
	row := q.db.QueryRowContext(ctx, getFoodEntry, id)
	var i FoodEntryRow
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.Category,
		&i.Food,
		&i.Beverage,
		&i.Protein,
		&i.Notes,
		&i.CreatedAt,
	)
	return i, err
}

const createFoodEntry = `-- name: CreateFoodEntry :one
INSERT INTO food_entries (date, category, food, beverage, protein, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, date, category, food, beverage, protein, notes, created_at
`

type CreateFoodEntryParams struct {
	Date      string
	Category  string
	Food      string
	Beverage  string
	Protein   int64
	Notes     sql.NullString
	CreatedAt string
}

func (q *Queries) CreateFoodEntry(ctx context.Context, arg CreateFoodEntryParams) (FoodEntryRow, error) {
	row := q.db.QueryRowContext(ctx, createFoodEntry,
		arg.Date,
		arg.Category,
		arg.Food,
		arg.Beverage,
		arg.Protein,
		arg.Notes,
		arg.CreatedAt,
	)
	var i FoodEntryRow
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.Category,
		&i.Food,
		&i.Beverage,
		&i.Protein,
		&i.Notes,
		&i.CreatedAt,
	)
	return i, err
}

const updateFoodEntry = `-- name: UpdateFoodEntry :execrows
UPDATE food_entries
SET date = ?, category = ?, food = ?, beverage = ?, protein = ?, notes = ?
WHERE id = ?
`

type UpdateFoodEntryParams struct {
	Date     string
	Category string
	Food     string
	Beverage string
	Protein  int64
	Notes    sql.NullString
	ID       int64
}

func (q *Queries) UpdateFoodEntry(ctx context.Context, arg UpdateFoodEntryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateFoodEntry,
		arg.Date,
		arg.Category,
		arg.Food,
		arg.Beverage,
		arg.Protein,
		arg.Notes,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteFoodEntry = `-- name: DeleteFoodEntry :execrows
DELETE FROM food_entries WHERE id = ?
`

func (q *Queries) DeleteFoodEntry(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteFoodEntry, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllFoodEntries = `-- name: DeleteAllFoodEntries :execrows
DELETE FROM food_entries
`

func (q *Queries) DeleteAllFoodEntries(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllFoodEntries)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

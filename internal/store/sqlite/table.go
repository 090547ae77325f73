// Package sqlite persists record store collections in SQLite tables, one table
// per collection.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/kitroom/internal/identity"
	"github.com/vbonduro/kitroom/internal/store"
)

type Table[T any] struct {
	db     *sql.DB
	schema store.Schema[T]
	ids    *identity.Assigner

	selectSQL string
	insertSQL string
}

func NewTable[T any](db *sql.DB, schema store.Schema[T], ids *identity.Assigner) *Table[T] {
	name := string(schema.Collection)
	cols := strings.Join(schema.Columns, ", ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(schema.Columns)+1), ", ")
	return &Table[T]{
		db:        db,
		schema:    schema,
		ids:       ids,
		selectSQL: fmt.Sprintf("SELECT id, %s FROM %s", cols, name),
		insertSQL: fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (%s)", name, cols, placeholders),
	}
}

func (t *Table[T]) name() string { return string(t.schema.Collection) }

func (t *Table[T]) ReadAll(ctx context.Context) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, t.selectSQL+" ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.name(), err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "collection", t.name(), "error", err)
		}
	}()

	var recs []T
	for rows.Next() {
		rec, err := t.schema.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.name(), err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", t.name(), err)
	}

	return recs, nil
}

// idCells returns the raw id column. Cells are read as text so the assigner
// applies the same parsing rules to every backend.
func (t *Table[T]) idCells(ctx context.Context) ([]string, error) {
	rows, err := t.db.QueryContext(ctx, "SELECT id FROM "+t.name())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s ids: %w", t.name(), err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "collection", t.name(), "error", err)
		}
	}()

	var cells []string
	for rows.Next() {
		var cell sql.NullString
		if err := rows.Scan(&cell); err != nil {
			return nil, fmt.Errorf("failed to scan %s id: %w", t.name(), err)
		}
		cells = append(cells, cell.String)
	}
	return cells, rows.Err()
}

func (t *Table[T]) Append(ctx context.Context, rec T) (T, error) {
	var zero T

	cells, err := t.idCells(ctx)
	if err != nil {
		return zero, err
	}

	id, err := t.ids.Next(ctx, t.name(), cells)
	if err != nil {
		return zero, err
	}
	rec = t.schema.WithID(rec, id)

	args := append([]any{id}, t.schema.Values(rec)...)
	if _, err := t.db.ExecContext(ctx, t.insertSQL, args...); err != nil {
		return zero, fmt.Errorf("failed to append to %s: %w", t.name(), err)
	}

	return rec, nil
}

func (t *Table[T]) FindByID(ctx context.Context, id int64) (T, error) {
	rec, err := t.schema.Scan(t.db.QueryRowContext(ctx, t.selectSQL+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", t.name(), id, store.ErrNotFound)
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get %s %d: %w", t.name(), id, err)
	}
	return rec, nil
}

func (t *Table[T]) UpdateField(ctx context.Context, id int64, field string, value any) error {
	v, err := t.schema.Normalize(field, value)
	if err != nil {
		return err
	}

	// field is a key of schema.Fields at this point, never caller text.
	result, err := t.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", t.name(), field), v, id)
	if err != nil {
		return fmt.Errorf("failed to update %s %d: %w", t.name(), id, err)
	}

	return requireAffected(result, t.name(), id)
}

func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	result, err := t.db.ExecContext(ctx, "DELETE FROM "+t.name()+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", t.name(), id, err)
	}

	return requireAffected(result, t.name(), id)
}

func requireAffected(result sql.Result, name string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", name, id, store.ErrNotFound)
	}

	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/firuln/cepet-deal-sub004/internal/repository"
)

// toggleColumns maps API field names to storage columns. Only registered
// fields are reachable from the toggle path; everything else is rejected
// before any SQL is built.
type toggleColumns map[string]string

func (t toggleColumns) resolve(field string) (string, error) {
	column, ok := t[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", repository.ErrUnknownField, field)
	}
	return column, nil
}

func getBoolField(ctx context.Context, exec pgExecutor, builder squirrel.StatementBuilderType, table string, columns toggleColumns, id, field string) (bool, error) {
	column, err := columns.resolve(field)
	if err != nil {
		return false, err
	}

	stmt, args, err := builder.
		Select(column).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select %s sql: %w", column, err)
	}

	var value bool
	if err := exec.QueryRow(ctx, stmt, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, repository.ErrNotFound
		}
		return false, fmt.Errorf("scan %s: %w", column, err)
	}

	return value, nil
}

// compareAndSetBoolField flips a single column only when its stored value
// still matches the caller's observation. No other column is touched.
func compareAndSetBoolField(ctx context.Context, exec pgExecutor, builder squirrel.StatementBuilderType, table string, columns toggleColumns, id, field string, expected, next bool) (bool, error) {
	column, err := columns.resolve(field)
	if err != nil {
		return false, err
	}

	stmt, args, err := builder.
		Update(table).
		Set(column, next).
		Where(squirrel.Eq{"id": id, column: expected}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update %s sql: %w", column, err)
	}

	tag, err := exec.Exec(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("update %s: %w", column, err)
	}

	return tag.RowsAffected() == 1, nil
}

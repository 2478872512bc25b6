package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type txQueryer interface {
	queryer
	Commit() error
	Rollback() error
}

var (
	_ queryer   = (*sqlx.DB)(nil)
	_ txQueryer = (*sqlx.Tx)(nil)
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func toAnySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"freight/internal/repository"
)

// Querier is the subset of database/sql the repositories query through. Both
// *sql.DB and *sql.Tx satisfy it, so the same repository code serves plain
// reads and the locked payment-registration transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// lookupErr normalizes single-row lookup failures. The id columns are uuid,
// so a ref that fails the cast (Postgres 22P02, e.g. a guide code or a
// mistyped id) can never match a row and is reported as not found instead of
// surfacing as a server error.
func lookupErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "22P02" {
		return repository.ErrNotFound
	}
	return err
}

// Package repositories contains the PostgreSQL implementations of the
// domain repository ports.
package repositories

import (
	"context"
	"database/sql"

	"github.com/radassist/report-engine/pkg/errors"
)

// queryExecutor abstracts sql.DB and sql.Tx.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// mapNotFound converts sql.ErrNoRows into the given not-found code, wrapping
// everything else as a database error.
func mapNotFound(err error, code errors.ErrorCode, message string) error {
	if err == sql.ErrNoRows {
		return errors.New(code, message)
	}
	return errors.Wrap(err, errors.ErrCodeDatabaseError, message)
}

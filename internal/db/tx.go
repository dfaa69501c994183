package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-be/internal/apperror"

	"github.com/lib/pq"
)

const (
	pingTimeout = 5 * time.Second

	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)

// WithTx runs fn inside one transaction bounded by timeout. The transaction
// is rolled back on every path that does not reach a successful commit,
// including a panic inside fn.
func WithTx(ctx context.Context, conn *sql.DB, timeout time.Duration, fn func(tx *sql.Tx) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return classify(ctx, fmt.Errorf("begin tx: %w", err))
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return classify(ctx, err)
	}

	if err := tx.Commit(); err != nil {
		return classify(ctx, fmt.Errorf("commit tx: %w", err))
	}
	committed = true
	return nil
}

// RetryOnUnique reruns fn while it fails with a unique violation on
// constraint, up to attempts times in total.
func RetryOnUnique(attempts int, constraint string, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !IsUniqueViolation(err, constraint) {
			return err
		}
	}
	return err
}

// IsUniqueViolation reports a 23505 error. An empty constraint matches any.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != PgUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == PgForeignKeyViolation
}

func classify(ctx context.Context, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperror.Wrap(apperror.Unavailable, "service temporarily unavailable, please retry", err)
	}
	if IsForeignKeyViolation(err) {
		return apperror.Wrap(apperror.InvalidInput, "referenced resource not found", err)
	}
	return err
}

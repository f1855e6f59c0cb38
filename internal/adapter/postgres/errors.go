package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tastemap/tastemap-backend/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
func MapError(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %d: %w", entity, id, err)
	}

	// pgx.ErrNoRows maps to domain.ErrNotFound.
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return &domain.ConflictError{
				Field:   constraintField(pgErr.ConstraintName, entity),
				Message: "value already exists",
			}
		case "23503": // foreign_key_violation
			return &domain.ConflictError{
				Field:   constraintField(pgErr.ConstraintName, entity),
				Message: "referenced row does not exist",
			}
		case "23514": // check_violation
			return fmt.Errorf("%s %d: %w", entity, id, domain.ErrValidation)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %d: %w", entity, id, err)
}

// constraintField extracts the column part from a conventional Postgres
// constraint name (<table>_<column>_key / _fkey / _check). Falls back to
// the raw constraint name so the caller always sees something to act on.
func constraintField(constraint, table string) string {
	if constraint == "" {
		return table
	}
	field := constraint
	field = strings.TrimPrefix(field, table+"_")
	for _, suffix := range []string{"_key", "_fkey", "_check", "_idx"} {
		field = strings.TrimSuffix(field, suffix)
	}
	if field == "" {
		return constraint
	}
	return field
}

// IsRecoverable reports whether an error can be handled at the item
// boundary inside a bulk batch. Validation failures and row-level
// conflicts are recoverable; anything else (connection loss, timeouts,
// unexpected database errors) must abort the whole transaction.
func IsRecoverable(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrAlreadyExists) ||
		errors.Is(err, domain.ErrNotFound)
}

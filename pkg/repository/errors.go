package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// ErrCheckViolation reports a row rejected by a CHECK constraint.
// The constraint name is appended to the wrapped message.
var ErrCheckViolation = errors.New("check constraint violated")

// MapError translates database errors to domain errors.
// sql.ErrNoRows becomes notFoundErr, a unique violation becomes duplicateErr,
// and a check violation wraps ErrCheckViolation. Other errors pass through.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateErr
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", ErrCheckViolation, pgErr.ConstraintName)
		}
	}

	return err
}

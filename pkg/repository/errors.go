package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// MapError translates driver-level errors into the caller's domain sentinels:
// sql.ErrNoRows becomes notFoundErr and a PostgreSQL unique violation becomes
// duplicateErr. Anything else passes through untouched so unexpected failures
// keep their original detail.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return duplicateErr
	}

	return err
}

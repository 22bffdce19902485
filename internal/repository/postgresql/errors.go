package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the repositories translate into domain errors.
const (
	pgUniqueViolation      = "23505"
	pgInvalidTextRepresent = "22P02"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// isInvalidID reports a malformed UUID parameter, which callers treat as not found.
func isInvalidID(err error) bool {
	return pgErrorCode(err) == pgInvalidTextRepresent
}

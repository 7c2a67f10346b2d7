package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeInvalidTextRepresent = "22P02"
)

// IsDuplicateConstraintError checks if the error is a unique violation of the named constraint
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsCheckViolation reports whether a CHECK constraint rejected the row
func IsCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation
}

// IsInvalidInput reports whether a parameter could not be converted to the
// column type, e.g. a malformed uuid
func IsInvalidInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeInvalidTextRepresent
}

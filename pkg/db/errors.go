package db

import (
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	uniqueViolationCode = "23505"

	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
	lockNotAvailableCode     = "55P03"

	// SQLSTATE class 08, connection exceptions
	connectionExceptionClass = "08"
)

// IsUniqueViolation reports whether err is a Postgres unique violation,
// optionally scoped to one constraint. Falls back to message matching so the
// sqlite-backed test suites hit the same code path.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		if pgxErr.Code != uniqueViolationCode {
			return false
		}
		return constraintName == "" || pgxErr.ConstraintName == constraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != uniqueViolationCode {
			return false
		}
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsTransient reports whether err is a datastore failure worth retrying:
// lock timeouts, serialization failures, deadlocks, and dropped connections.
// Constraint violations and schema errors are permanent and never qualify.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || pgconn.SafeToRetry(err) {
		return true
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return transientSQLState(pgxErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return transientSQLState(string(pqErr.Code))
	}

	// sqlite's busy error, seen by the test suites
	return strings.Contains(err.Error(), "database is locked")
}

func transientSQLState(code string) bool {
	switch code {
	case serializationFailureCode, deadlockDetectedCode, lockNotAvailableCode:
		return true
	}
	return strings.HasPrefix(code, connectionExceptionClass)
}

package postgres

import (
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"coffeexport/internal/errors"
)

// SQLSTATE codes the repositories branch on.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateNotNullViolation     = "23502"
	sqlStateCheckViolation       = "23514"
	sqlStateSerializationFailure = "40001"
	sqlStateRaiseException       = "P0001"
)

func pgErrorCode(err error) string {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok {
		return pgErr.Code
	}

	return ""
}

func pgConstraintName(err error) string {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok {
		return pgErr.ConstraintName
	}

	return ""
}

// Helper functions for PostgreSQL error checking
func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || pgErrorCode(err) == sqlStateUniqueViolation
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || pgErrorCode(err) == sqlStateForeignKeyViolation
}

func isNotNullConstraintViolation(err error) bool {
	return pgErrorCode(err) == sqlStateNotNullViolation
}

func isCheckConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated) || pgErrorCode(err) == sqlStateCheckViolation
}

func isSerializationFailure(err error) bool {
	return pgErrorCode(err) == sqlStateSerializationFailure
}

// activeArtifactIndexSuffix names the partial unique indexes allowing one ACTIVE
// artifact per exporter, e.g. uq_export_licenses_active.
const activeArtifactIndexSuffix = "_active"

func isActiveArtifactViolation(err error) bool {
	return pgErrorCode(err) == sqlStateUniqueViolation &&
		strings.HasSuffix(pgConstraintName(err), activeArtifactIndexSuffix)
}

// isAppendOnlyViolation reports the error raised by the append-only triggers.
func isAppendOnlyViolation(err error) bool {
	return pgErrorCode(err) == sqlStateRaiseException
}

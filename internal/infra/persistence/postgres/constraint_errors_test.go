package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"coffeexport/internal/errors"
)

func TestConstraintClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		check  func(error) bool
		expect bool
	}{
		{"pg unique", &pgconn.PgError{Code: "23505"}, isUniqueConstraintViolation, true},
		{"wrapped pg unique", errors.Wrap(&pgconn.PgError{Code: "23505"}, "insert"), isUniqueConstraintViolation, true},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, isUniqueConstraintViolation, true},
		{"fk", &pgconn.PgError{Code: "23503"}, isForeignKeyConstraintViolation, true},
		{"not null", &pgconn.PgError{Code: "23502"}, isNotNullConstraintViolation, true},
		{"check", &pgconn.PgError{Code: "23514"}, isCheckConstraintViolation, true},
		{"serialization", &pgconn.PgError{Code: "40001"}, isSerializationFailure, true},
		{"trigger", &pgconn.PgError{Code: "P0001"}, isAppendOnlyViolation, true},
		{"plain error", errors.New("boom"), isUniqueConstraintViolation, false},
		{"other code", &pgconn.PgError{Code: "23503"}, isUniqueConstraintViolation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.check(tt.err))
		})
	}
}

func TestPgConstraintName(t *testing.T) {
	err := errors.Wrap(&pgconn.PgError{Code: "23505", ConstraintName: "uq_coffee_tasters_active"}, "update")

	assert.Equal(t, "uq_coffee_tasters_active", pgConstraintName(err))
	assert.Empty(t, pgConstraintName(errors.New("x")))
}

func TestIsActiveArtifactViolation(t *testing.T) {
	assert.True(t, isActiveArtifactViolation(errors.Wrap(&pgconn.PgError{Code: "23505", ConstraintName: "uq_export_licenses_active"}, "update")))
	assert.False(t, isActiveArtifactViolation(&pgconn.PgError{Code: "23505", ConstraintName: "exporter_profiles_user_id_key"}))
	assert.False(t, isActiveArtifactViolation(&pgconn.PgError{Code: "23514", ConstraintName: "uq_export_licenses_active"}))
}

func TestIsUnexpected(t *testing.T) {
	assert.False(t, isUnexpected(nil))
	assert.False(t, isUnexpected(gorm.ErrRecordNotFound))
	assert.False(t, isUnexpected(&pgconn.PgError{Code: "P0001"}))
	assert.False(t, isUnexpected(&pgconn.PgError{Code: "23505", ConstraintName: "uq_coffee_tasters_active"}))
	assert.True(t, isUnexpected(&pgconn.PgError{Code: "23505", ConstraintName: "exports_pkey"}))
}

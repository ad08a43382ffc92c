package model

import (
	"os"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestQualificationDatesKeepTheTimeOfDay(t *testing.T) {
	models := []any{
		&CoffeeLaboratoryModel{},
		&CoffeeTasterModel{},
		&CompetenceCertificateModel{},
		&ExportLicenseModel{},
	}

	for _, m := range models {
		s, err := schema.Parse(m, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)

		for _, column := range []string{"issue_date", "expiry_date"} {
			field := s.LookUpField(column)
			require.NotNil(t, field, "%s.%s", s.Table, column)
			assert.Equal(t, schema.DataType("timestamptz"), field.DataType, "%s.%s", s.Table, column)
		}
	}
}

func TestMigrationQualificationDatesAreTimestamps(t *testing.T) {
	raw, err := os.ReadFile("../../../../db/migrations/0001_init.up.sql")
	require.NoError(t, err)

	columns := regexp.MustCompile(`(?m)^\s*(issue_date|expiry_date)\s+(\w+)`).FindAllStringSubmatch(string(raw), -1)
	require.Len(t, columns, 8)
	for _, column := range columns {
		assert.Equal(t, "timestamptz", column[2], column[1])
	}
}

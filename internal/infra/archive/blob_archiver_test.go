package archive

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"coffeexport/internal/domain/entity"
)

func TestBlobArchiver_Archive(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	report := &entity.AuditReport{
		From:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:           time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		TotalEntries: 3,
		ByAction:     map[entity.AuditAction]int{entity.AuditActionCreateExport: 3},
		GeneratedAt:  time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}

	key, err := NewBlobArchiver(bucket, "").Archive(ctx, report)
	require.NoError(t, err)
	assert.Equal(t, "audit-reports/2026/02/20260101_20260131_20260201T120000.000000000Z.json", key)

	data, err := bucket.ReadAll(ctx, key)
	require.NoError(t, err)

	var stored entity.AuditReport
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, 3, stored.TotalEntries)
	assert.Equal(t, 3, stored.ByAction[entity.AuditActionCreateExport])

	attrs, err := bucket.Attributes(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "application/json", attrs.ContentType)
}

func TestNoopArchiver(t *testing.T) {
	key, err := noopArchiver{}.Archive(context.Background(), &entity.AuditReport{})
	require.NoError(t, err)
	assert.Empty(t, key)
}

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeexport/config"
	"coffeexport/internal/domain/entity"
)

func TestKeysAreScoped(t *testing.T) {
	id := uuid.MustParse("6b1d6f1e-2c8a-4a57-9d7a-1f1f0f5d2b10")

	assert.Equal(t, "coffeexport:export:6b1d6f1e-2c8a-4a57-9d7a-1f1f0f5d2b10", exportKey(id))
	assert.Equal(t, "coffeexport:exporter-exports:6b1d6f1e-2c8a-4a57-9d7a-1f1f0f5d2b10", exporterExportsKey(id))
	assert.Equal(t, "coffeexport:fence:export:6b1d6f1e-2c8a-4a57-9d7a-1f1f0f5d2b10", fenceKey(exportKey(id)))
	assert.Equal(t, "coffeexport:fence:exporter-exports:6b1d6f1e-2c8a-4a57-9d7a-1f1f0f5d2b10", fenceKey(exporterExportsKey(id)))
}

func TestVersionUsesMicroseconds(t *testing.T) {
	assert.Zero(t, version(time.Time{}))

	at := time.Date(2026, 3, 1, 18, 0, 0, 123456789, time.UTC)
	assert.Equal(t, at.UnixMicro(), version(at))
	assert.Equal(t, version(at), version(at.Truncate(time.Microsecond)))
	assert.Less(t, version(at), version(at.Add(time.Microsecond)))
}

func TestNoopExportCache_AlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewNoopExportCache()
	export := &entity.ExportRequest{ID: uuid.New(), ExporterID: uuid.New()}

	require.NoError(t, c.SetExport(ctx, export))

	got, found, err := c.GetExport(ctx, export.ID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)

	list, found, err := c.GetExporterExports(ctx, export.ExporterID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, list)

	assert.NoError(t, c.Invalidate(ctx, export.ID, export.ExporterID, time.Now()))
	assert.NoError(t, c.Close())
}

func TestConnect(t *testing.T) {
	client, err := connect(&config.RedisConfig{Addr: "redis://:secret@localhost:6380/2"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)
	assert.Equal(t, "secret", client.Options().Password)

	client, err = connect(&config.RedisConfig{Addr: "cache:6379", DB: 1})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", client.Options().Addr)
	assert.Equal(t, 1, client.Options().DB)

	_, err = connect(&config.RedisConfig{Addr: "redis://[bad"})
	assert.Error(t, err)
}

// redisClient connects to COFFEEXPORT_TEST_REDIS_ADDR and flushes the selected database.
func redisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("COFFEEXPORT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping Redis test: COFFEEXPORT_TEST_REDIS_ADDR env var not set")
	}

	client, err := connect(&config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisExportCache_RefusesViewsOlderThanInvalidation(t *testing.T) {
	client := redisClient(t)
	c := NewRedisExportCache(client, time.Minute, time.Minute)
	ctx := context.Background()

	loadedAt := time.Now().UTC().Truncate(time.Microsecond)
	stale := &entity.ExportRequest{ID: uuid.New(), ExporterID: uuid.New(), Status: entity.ExportStatusQualityCertified, UpdatedAt: loadedAt}
	committed := *stale
	committed.Status = entity.ExportStatusFXApproved
	committed.UpdatedAt = loadedAt.Add(time.Millisecond)

	// The reader loaded the row before the transition committed and invalidated.
	require.NoError(t, c.Invalidate(ctx, stale.ID, stale.ExporterID, committed.UpdatedAt))
	require.NoError(t, c.SetExport(ctx, stale))
	require.NoError(t, c.SetExporterExports(ctx, stale.ExporterID, []*entity.ExportRequest{stale}))

	_, found, err := c.GetExport(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = c.GetExporterExports(ctx, stale.ExporterID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetExport(ctx, &committed))
	require.NoError(t, c.SetExporterExports(ctx, committed.ExporterID, []*entity.ExportRequest{&committed}))

	got, found, err := c.GetExport(ctx, committed.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entity.ExportStatusFXApproved, got.Status)
	list, found, err := c.GetExporterExports(ctx, committed.ExporterID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, list, 1)
	assert.Equal(t, entity.ExportStatusFXApproved, list[0].Status)

	// A drop-only invalidation never lowers the fence.
	require.NoError(t, c.Invalidate(ctx, committed.ID, committed.ExporterID, time.Time{}))
	require.NoError(t, c.SetExport(ctx, stale))
	_, found, err = c.GetExport(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

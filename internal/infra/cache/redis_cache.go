// Package cache holds the read-view cache of export requests.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"coffeexport/config"
	"coffeexport/internal/domain/constants"
	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/service"
)

const (
	defaultTTL     = 5 * time.Minute
	defaultListTTL = time.Minute
)

func exportKey(exportID uuid.UUID) string {
	return constants.CacheKeyExport + exportID.String()
}

func exporterExportsKey(exporterID uuid.UUID) string {
	return constants.CacheKeyExporterExports + exporterID.String()
}

// fenceKey holds the newest committed version invalidated for a view key.
func fenceKey(viewKey string) string {
	return constants.CacheKeyFence + strings.TrimPrefix(viewKey, "coffeexport:")
}

// version orders views by the updated_at of their rows. Postgres keeps microseconds.
func version(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMicro()
}

//nolint:gochecknoglobals
var setIfCurrentScript = redis.NewScript(`
-- KEYS[1] = view key
-- KEYS[2] = fence key
-- ARGV[1] = payload
-- ARGV[2] = view version
-- ARGV[3] = ttl_ms
--
-- Returns 1 when stored, 0 when a newer version was invalidated.
local fence = redis.call('GET', KEYS[2])
if fence and tonumber(fence) > tonumber(ARGV[2]) then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

//nolint:gochecknoglobals
var invalidateScript = redis.NewScript(`
-- KEYS[1], KEYS[2] = view keys
-- KEYS[3], KEYS[4] = their fence keys
-- ARGV[1] = committed version, 0 only drops the views
-- ARGV[2] = fence ttl_ms
redis.call('DEL', KEYS[1], KEYS[2])
local committed = tonumber(ARGV[1])
if committed > 0 then
  for i = 3, 4 do
    local current = tonumber(redis.call('GET', KEYS[i]) or '0')
    if committed > current then
      redis.call('SET', KEYS[i], ARGV[1], 'PX', ARGV[2])
    end
  end
end
return 1
`)

// redisExportCache stores JSON views of exports. The database stays authoritative;
// every committed transition drops the affected keys and fences out older views,
// so a read that loaded a row before the commit cannot put it back.
type redisExportCache struct {
	client  *redis.Client
	ttl     time.Duration
	listTTL time.Duration
}

// NewRedisExportCache wraps an existing client.
func NewRedisExportCache(client *redis.Client, ttl, listTTL time.Duration) service.ExportCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if listTTL <= 0 {
		listTTL = defaultListTTL
	}

	return &redisExportCache{client: client, ttl: ttl, listTTL: listTTL}
}

func (c *redisExportCache) GetExport(ctx context.Context, exportID uuid.UUID) (*entity.ExportRequest, bool, error) {
	var export entity.ExportRequest
	found, err := c.get(ctx, exportKey(exportID), &export)
	if !found {
		return nil, false, err
	}

	return &export, true, nil
}

func (c *redisExportCache) SetExport(ctx context.Context, export *entity.ExportRequest) error {
	return c.set(ctx, exportKey(export.ID), export, version(export.UpdatedAt), c.ttl)
}

func (c *redisExportCache) GetExporterExports(ctx context.Context, exporterID uuid.UUID) ([]*entity.ExportRequest, bool, error) {
	var exports []*entity.ExportRequest
	found, err := c.get(ctx, exporterExportsKey(exporterID), &exports)
	if !found {
		return nil, false, err
	}

	return exports, true, nil
}

// SetExporterExports versions a list by its most recently updated row.
func (c *redisExportCache) SetExporterExports(ctx context.Context, exporterID uuid.UUID, exports []*entity.ExportRequest) error {
	var newest int64
	for _, export := range exports {
		newest = max(newest, version(export.UpdatedAt))
	}

	return c.set(ctx, exporterExportsKey(exporterID), exports, newest, c.listTTL)
}

func (c *redisExportCache) Invalidate(ctx context.Context, exportID, exporterID uuid.UUID, committed time.Time) error {
	viewKey, listKey := exportKey(exportID), exporterExportsKey(exporterID)
	keys := []string{viewKey, listKey, fenceKey(viewKey), fenceKey(listKey)}

	err := invalidateScript.Run(ctx, c.client, keys, version(committed), max(c.ttl, c.listTTL).Milliseconds()).Err()
	if err != nil {
		return errors.Wrap(err, "redis invalidate")
	}

	return nil
}

func (c *redisExportCache) Close() error {
	return errors.WithStack(c.client.Close())
}

func (c *redisExportCache) get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, errors.Wrap(err, "redis get")
	}

	if err := json.Unmarshal(raw, out); err != nil {
		// A corrupt entry is a miss; it is replaced on the next read.
		return false, errors.Wrapf(err, "decode cached %s", key)
	}

	return true, nil
}

func (c *redisExportCache) set(ctx context.Context, key string, value any, viewVersion int64, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.WithStack(err)
	}

	keys := []string{key, fenceKey(key)}
	if err := setIfCurrentScript.Run(ctx, c.client, keys, raw, viewVersion, ttl.Milliseconds()).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}

	return nil
}

// noopExportCache always misses.
type noopExportCache struct{}

// NewNoopExportCache returns a cache that stores nothing.
func NewNoopExportCache() service.ExportCache {
	return noopExportCache{}
}

func (noopExportCache) GetExport(context.Context, uuid.UUID) (*entity.ExportRequest, bool, error) {
	return nil, false, nil
}

func (noopExportCache) SetExport(context.Context, *entity.ExportRequest) error { return nil }

func (noopExportCache) GetExporterExports(context.Context, uuid.UUID) ([]*entity.ExportRequest, bool, error) {
	return nil, false, nil
}

func (noopExportCache) SetExporterExports(context.Context, uuid.UUID, []*entity.ExportRequest) error {
	return nil
}

func (noopExportCache) Invalidate(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	return nil
}

func (noopExportCache) Close() error { return nil }

// connect accepts either a redis:// URL or host:port.
func connect(cfg *config.RedisConfig) (*redis.Client, error) {
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		opt, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}

		return redis.NewClient(opt), nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}

// CacheParams holds dependencies for ExportCache, injected by Fx
type CacheParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewExportCache creates the Redis cache when configured and a no-op cache otherwise.
func NewExportCache(params CacheParams) (service.ExportCache, error) {
	cfg := params.Config.Redis
	if cfg == nil || cfg.Addr == "" {
		params.Logger.Info("Redis not configured, export cache disabled")

		return NewNoopExportCache(), nil
	}

	client, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	exportCache := NewRedisExportCache(client, cfg.TTL, cfg.ListTTL)

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				// The cache is optional; reads fall through to the database.
				params.Logger.Warn("Redis ping failed", slog.Any("error", err))
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing export cache")

			return exportCache.Close()
		},
	})

	return exportCache, nil
}

// Module provides the export cache FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewExportCache),
)

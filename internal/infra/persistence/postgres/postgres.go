package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"coffeexport/config"
	"coffeexport/internal/domain/lifecycle"
	"coffeexport/internal/errors"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
)

// schemaGuards are created by db/migrations. Without them the audit trail and the
// one-ACTIVE-artifact rule are enforced by the application alone.
//
//nolint:gochecknoglobals
var schemaGuards = struct {
	triggers []string
	indexes  []string
}{
	triggers: []string{
		"export_status_history_append_only",
		"export_approvals_append_only",
		"preregistration_audit_log_guard_update",
		"preregistration_audit_log_append_only",
	},
	indexes: []string{
		"uq_coffee_laboratories_active",
		"uq_coffee_tasters_active",
		"uq_competence_certificates_active",
		"uq_export_licenses_active",
	},
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the primary connection, with read replicas registered by go-lib when configured.
func New(params Params) (*gorm.DB, error) {
	if params.Config.Postgres == nil {
		return nil, errors.New("postgres config is required")
	}

	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	db = db.Session(&gorm.Session{
		// Multi-step writes go through TransactionManager.Execute.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}
			if err := checkSchemaGuards(ctx, db, params.Logger); err != nil {
				return err
			}

			go (&poolMonitor{logger: params.Logger, db: sqlDB}).run(monitorCtx, dbPoolMonitorInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return sqlDB.Close()
		},
	})

	return db, nil
}

// checkSchemaGuards warns about missing append-only triggers and partial indexes.
// A missing guard is not fatal: local databases are often created by hand.
func checkSchemaGuards(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	var triggers []string
	if err := db.WithContext(ctx).Raw(
		"SELECT tgname FROM pg_trigger WHERE NOT tgisinternal AND tgname IN ?", schemaGuards.triggers,
	).Scan(&triggers).Error; err != nil {
		return errors.Wrap(err, "failed to inspect triggers")
	}

	var indexes []string
	if err := db.WithContext(ctx).Raw(
		"SELECT indexname FROM pg_indexes WHERE indexname IN ?", schemaGuards.indexes,
	).Scan(&indexes).Error; err != nil {
		return errors.Wrap(err, "failed to inspect indexes")
	}

	missingTriggers := missing(schemaGuards.triggers, triggers)
	missingIndexes := missing(schemaGuards.indexes, indexes)
	if len(missingTriggers) > 0 || len(missingIndexes) > 0 {
		logger.Warn("Database schema guards are missing; run db/migrations",
			slog.Any("triggers", missingTriggers),
			slog.Any("indexes", missingIndexes),
		)
	}

	return nil
}

func missing(want, have []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, name := range have {
		present[name] = struct{}{}
	}

	var out []string
	for _, name := range want {
		if _, ok := present[name]; !ok {
			out = append(out, name)
		}
	}

	return out
}

// poolMonitor reports connection pool waits, which show up first when long report
// queries compete with transitions for connections.
type poolMonitor struct {
	logger *slog.Logger
	db     *sql.DB
	prev   sql.DBStats
}

func (m *poolMonitor) run(ctx context.Context, interval time.Duration) {
	if m.logger == nil || m.db == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.prev = m.db.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.observe(ctx, m.db.Stats())
		}
	}
}

func (m *poolMonitor) observe(ctx context.Context, cur sql.DBStats) {
	waits := cur.WaitCount - m.prev.WaitCount
	waited := cur.WaitDuration - m.prev.WaitDuration
	m.prev = cur

	if waits <= 0 {
		return
	}

	level := slog.LevelDebug
	if waited >= dbPoolWarnDurationThreshold {
		level = slog.LevelWarn
	}
	m.logger.LogAttrs(ctx, level, "Postgres pool wait",
		slog.Int64("waits", waits),
		slog.Duration("waited", waited),
		slog.Duration("avgWait", waited/time.Duration(waits)),
		slog.Int("openConns", cur.OpenConnections),
		slog.Int("inUseConns", cur.InUse),
		slog.Int("maxOpenConns", cur.MaxOpenConnections),
	)
}

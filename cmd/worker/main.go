package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"coffeexport/config"
	"coffeexport/internal/delivery"
	"coffeexport/internal/delivery/worker"
	"coffeexport/internal/delivery/worker/handler"
	"coffeexport/internal/infra/archive"
	"coffeexport/internal/infra/cache"
	"coffeexport/internal/infra/digest"
	"coffeexport/internal/infra/ledger"
	logs "coffeexport/internal/infra/log"
	"coffeexport/internal/infra/notification"
	"coffeexport/internal/infra/persistence/postgres"
	"coffeexport/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

// The worker consumes export events and runs ledger anchoring retries.
func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		postgres.NewTransactionManager,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			digest.NewBlake2bHasher,
		),
		notification.Module,
		ledger.Module,
		cache.Module,
		archive.Module,
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuditService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}

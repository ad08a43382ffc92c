package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"coffeexport/config"
	"coffeexport/internal/delivery"
	"coffeexport/internal/delivery/api"
	"coffeexport/internal/delivery/api/middleware"
	"coffeexport/internal/delivery/api/router/handler"
	"coffeexport/internal/domain/service"
	"coffeexport/internal/infra/archive"
	"coffeexport/internal/infra/auth"
	"coffeexport/internal/infra/cache"
	"coffeexport/internal/infra/digest"
	"coffeexport/internal/infra/ledger"
	logs "coffeexport/internal/infra/log"
	"coffeexport/internal/infra/notification"
	"coffeexport/internal/infra/persistence/postgres"
	"coffeexport/internal/infra/pubsub"
	"coffeexport/internal/infra/qrcode"
	"coffeexport/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
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
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			digest.NewBlake2bHasher,
			auth.NewJWTService,
			newQRCodeService,
		),
		notification.Module,
		ledger.Module,
		cache.Module,
		pubsub.Module,
		archive.Module,
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewQualificationService,
			impl.NewExportService,
			impl.NewAuditService,
			impl.NewRegistryService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewExportHandler,
			handler.NewRegistryHandler,
			handler.NewQualificationHandler,
			handler.NewAuditHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
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

				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}

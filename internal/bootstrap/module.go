package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"lupa/internal/bootstrap/config"
	"lupa/internal/bootstrap/database"
	"lupa/internal/bootstrap/logging"
	camarainfra "lupa/internal/infrastructure/camara"
	sqliterepo "lupa/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "lupa/internal/infrastructure/persistence/sqlite/uow"
	"lupa/internal/ports"
	"lupa/internal/usecase/ingest"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewIngestRepository,
			fx.As(new(ports.IngestRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideCamaraClient),
	fx.Provide(
		fx.Annotate(
			provideExtractor,
			fx.As(new(ports.Extractor)),
		),
	),
	fx.Provide(ingest.NewIngestor),
	fx.Provide(ingest.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideCamaraClient(cfg config.Config) *camarainfra.Client {
	return camarainfra.NewClient(cfg.Camara)
}

func provideExtractor(cfg config.Config, client *camarainfra.Client) *camarainfra.Extractor {
	return camarainfra.NewExtractor(client, cfg.Ingest.PageSize)
}

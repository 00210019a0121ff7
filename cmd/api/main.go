package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"sparebudget/internal/infrastructure/postgres"
	"sparebudget/internal/shared/config"
	"sparebudget/internal/shared/logger"
	"sparebudget/internal/shared/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info")
		boot.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logger.New(cfg.Log.Level)

	// amounts are JSON numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := telemetry.ShutdownFunc(func(context.Context) error { return nil })
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err = telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		}, log)
		if err != nil {
			log.Error().Err(err).Msg("Telemetry disabled")
		}
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(cfg.Database.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Database migrations applied")
	}

	deps, err := NewDependencies(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dependencies")
	}
	defer deps.Close()

	handler := SetupRoutes(deps, cfg, log)

	servers := StartServers(NewServerConfigFromConfig(handler, cfg), log)
	deps.Start(ctx)

	<-ctx.Done()
	stop()

	GracefulShutdown(servers, deps, shutdownTelemetry, shutdownTimeout, log)
}

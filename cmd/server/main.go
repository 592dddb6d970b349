package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"

	httpadapter "github.com/fundlens/fundlens-backend/internal/adapter/http"
	"github.com/fundlens/fundlens-backend/internal/adapter/marketdata"
	"github.com/fundlens/fundlens-backend/internal/adapter/repository/postgres"
	"github.com/fundlens/fundlens-backend/internal/config"
	"github.com/fundlens/fundlens-backend/internal/usecase/plan"
)

func main() {
	cfg := config.Load()

	// 1. Setup Database
	db, err := postgres.NewDB(cfg.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 2. Initialize Repositories (Postgres)
	planRepo := postgres.NewPlanRepository(db)
	valuationRepo := postgres.NewValuationRepository(db)

	// 3. Initialize Adapters and Services (Use Cases)
	if cfg.AlphaVantageKey == "" {
		log.Warn().Msg("ALPHA_VANTAGE_KEY not set, instrument search disabled and Yahoo Finance is the only price source")
	}
	prices := marketdata.NewService(cfg.AlphaVantageKey)

	planService := plan.NewService(planRepo, valuationRepo, prices, plan.Options{
		CacheTTL:                time.Duration(cfg.ValuationCacheTTLMinutes) * time.Minute,
		FallbackBasePrice:       cfg.FallbackBasePrice,
		FallbackAnnualGrowthPct: cfg.FallbackAnnualGrowthPct,
	})

	// 4. Start HTTP Server
	handler := httpadapter.NewPlanHandler(planService)
	app := httpadapter.NewApp(handler, cfg.APIToken)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to serve http server")
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("http server stopped")
}

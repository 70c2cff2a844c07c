package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thiaworld/buyback-go/internal/clients/goldrate"
	"github.com/thiaworld/buyback-go/internal/config"
	"github.com/thiaworld/buyback-go/internal/database"
	"github.com/thiaworld/buyback-go/internal/events"
	"github.com/thiaworld/buyback-go/internal/modules/rates"
	"github.com/thiaworld/buyback-go/internal/modules/rates/jobs"
	"github.com/thiaworld/buyback-go/internal/scheduler"
	"github.com/thiaworld/buyback-go/internal/server"
	"github.com/thiaworld/buyback-go/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New(logger.Config{
		Level:  "info",
		Pretty: true,
	})

	log.Info().Msg("Starting Thiaworld Buyback Service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Event manager
	eventManager := events.NewManager(log)

	// Rate cache seeded with fallback defaults, normalizer service on top
	rateCache := rates.NewCache(rates.Defaults{
		Gold24: cfg.DefaultGold24Rate,
		Gold22: cfg.DefaultGold22Rate,
		Silver: cfg.DefaultSilverRate,
	})
	rateClient := goldrate.NewClient(cfg.RateAPIBase, cfg.ScaleThreshold, log)
	ratesRepo := rates.NewRepository(db.Conn(), log)
	ratesService := rates.NewService(rates.NewGoldrateAdapter(rateClient), rateCache, ratesRepo, eventManager, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	// Register background jobs
	refreshJob := jobs.NewRefreshJob(ratesService, log)
	schedule := fmt.Sprintf("@every %ds", cfg.RateRefreshSeconds)
	if err := sched.AddJob(schedule, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register rate refresh job")
	}

	// Prime the cache once at startup; failures degrade to defaults
	if err := sched.RunNow(refreshJob); err != nil {
		log.Error().Err(err).Msg("Initial rate refresh failed")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:         cfg.Port,
		Log:          log,
		DB:           db,
		Config:       cfg,
		RatesService: ratesService,
		RatesRepo:    ratesRepo,
		EventManager: eventManager,
		DevMode:      cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

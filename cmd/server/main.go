package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketmind/advisor/internal/app"
	"github.com/marketmind/advisor/internal/scheduler"
	"github.com/marketmind/advisor/internal/server"
	"github.com/marketmind/advisor/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New(logger.Config{
		Level:  "info",
		Pretty: true,
	})

	log.Info().Msg("Starting MarketMind Advisor")

	application, err := app.New(log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// Seed the universe on first boot
	if err := application.LoadUniverse(); err != nil {
		log.Warn().Err(err).Msg("Universe load failed, continuing with existing data")
	}

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	// Register background jobs
	if err := registerJobs(sched, application); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:      application.Cfg.Port,
		Log:       log,
		Config:    application.Cfg,
		Advisor:   application.Advisor,
		Companies: application.Companies,
		Scheduler: sched,
		DevMode:   application.Cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", application.Cfg.Port).Msg("Server started successfully")

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

func registerJobs(sched *scheduler.Scheduler, application *app.App) error {
	priceSync := scheduler.NewPriceSyncJob(
		application.Companies,
		application.Provider,
		application.History,
		application.MarketHours,
		application.Log,
	)

	// Hourly: the job itself defers while the market is open
	return sched.AddJob("0 0 * * * *", priceSync)
}

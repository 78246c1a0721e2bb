package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Could not load .env file")
	}

	config, err := loadConfig(getEnv("CONFIG_PATH", "league.yml"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	database, err := setupDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	services, err := setupServices(database, config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire services")
	}
	defer services.Publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go services.Connections.Start(ctx)
	go func() {
		if err := services.Consumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("Event consumer stopped")
			stop()
		}
	}()
	defer services.Consumer.Stop()

	if err := services.OutboxWorker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start outbox worker")
	}
	defer services.OutboxWorker.Stop()

	if err := services.WaiverProcessor.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start waiver processor")
	}
	defer services.WaiverProcessor.Stop()

	go func() {
		if err := services.Orchestrator.RunScheduler(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Draft scheduler stopped")
		}
	}()

	server := setupServer(services)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}

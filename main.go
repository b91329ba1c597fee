package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"booking-scraper/config"
	"booking-scraper/helpers"
	"booking-scraper/internal/api"
	"booking-scraper/internal/scraper"
	"booking-scraper/logger"
	"booking-scraper/services/publisher"
	"booking-scraper/services/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("port", cfg.Port).
		Int("max_calendar_pages", cfg.MaxCalendarPages).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Wire the scrape pipeline
	fetcher := helpers.NewFetcher(cfg.RequestTimeout)
	calendar := scraper.NewChromeCalendarExtractor(cfg.MaxCalendarPages, cfg.BrowserWait, cfg.ChromePath)
	scrapeService := scraper.NewService(fetcher, calendar, services.Store, services.Publisher)
	handler := api.NewHandler(scrapeService, services.Store)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Router(),
	}

	// Start server in a goroutine
	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting HTTP server")
		serverDone <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
	case err := <-serverDone:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}

// Services holds all the initialized services
type Services struct {
	Store     store.Store
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg config.Config) (*Services, error) {
	services := &Services{}

	// Initialize the store and make sure the schema exists
	pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pgStore.EnsureSchema(ctx); err != nil {
		pgStore.Close()
		return nil, err
	}
	services.Store = pgStore

	logger.Info("Connected to Postgres")

	// Initialize the optional notification publisher
	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)", cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services, nil
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/agentdesk/internal/api"
	"github.com/eldtechnologies/agentdesk/internal/config"
	"github.com/eldtechnologies/agentdesk/internal/events"
	"github.com/eldtechnologies/agentdesk/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	// Initialize agent store
	var agentStore store.AgentStore
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLiteDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite store failed to open")
		}
		agentStore = sqliteStore
		logger.Info().Str("dsn", cfg.SQLiteDSN).Msg("using SQLite agent store")
	default:
		agentStore = store.NewMemoryStore()
		logger.Info().Msg("using in-memory agent store")
	}
	defer agentStore.Close()

	// Initialize change feed
	var feed events.Feed
	if cfg.RedisURL != "" {
		redisFeed, err := events.NewRedisFeed(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		feed = redisFeed
		logger.Info().Msg("connected to Redis")
	} else {
		feed = events.NewMemoryFeed(events.DefaultMemoryCapacity)
	}
	defer feed.Close()

	// Create router
	router := api.NewRouter(logger, agentStore, feed, api.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("store", cfg.StoreBackend).
			Msg("starting agentdesk server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chronidx/chronidx/internal/config"
	"github.com/chronidx/chronidx/internal/events"
	"github.com/chronidx/chronidx/internal/logging"
	"github.com/chronidx/chronidx/internal/router"
	"github.com/chronidx/chronidx/internal/store"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("ChronIdx starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// Connect to the document store (configurable backend)
	logger.Info("Connecting to store", "type", cfg.Store.Type, "url", cfg.Store.URL)
	st, err := store.NewStore(cfg.Store)
	if err != nil {
		logger.Fatal("Failed to connect to store", "error", err)
	}
	defer func() { _ = st.Close() }()

	// Connect to the event publisher (configurable backend)
	logger.Info("Connecting to event publisher", "type", cfg.Events.Type, "url", cfg.Events.URL)
	pub, err := events.NewPublisher(cfg.Events)
	if err != nil {
		logger.Fatal("Failed to connect to event publisher", "error", err)
	}
	defer func() { _ = pub.Close() }()

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	logger.Info("Index resolution configured",
		"prefix", cfg.Index.Prefix,
		"granularity", cfg.Index.Granularity,
		"timezone", cfg.Index.Timezone,
		"group_select", cfg.Index.GroupSelect)

	// Initialize router
	app, err := router.New(logger, st, pub, *cfg)
	if err != nil {
		logger.Fatal("Failed to initialize router", "error", err)
	}

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with 10 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

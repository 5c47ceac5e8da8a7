/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Warp Attendance Compliance server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (file + COMPLIANCE_* env vars)
  3. Build the zap logger
  4. Initialize SQLite store
  5. Create the compliance engine from configured rules
  6. Configure HTTP router and start the expiry scheduler
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Config file path (default: config.yaml; missing file
           falls back to built-in defaults)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the expiry scheduler
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with defaults (compliance.db, port 8080)
  ./server

  # Run with a config file
  ./server -config=./deploy/config.yaml

  # Override via environment
  COMPLIANCE_SERVER_PORT=3000 ./server

SEE ALSO:
  - config/config.go: Configuration schema and defaults
  - api/server.go: Router configuration
  - api/scheduler.go: Document-expiry scanner
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/compliance-engine/api"
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/config"
	"github.com/warp/compliance-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Engine with configured rule overrides
	rules, err := cfg.Rules.RuleSet()
	if err != nil {
		logger.Fatal("invalid rules configuration", zap.Error(err))
	}
	engine := compliance.NewEngine(rules)

	// Handler and router
	handler := api.NewHandler(store, engine, logger)
	router := api.NewRouter(handler)

	// Expiry scheduler
	scheduler := api.NewExpiryScheduler(handler, logger, cfg.Scheduler.Spec)
	scheduler.Enabled = cfg.Scheduler.Enabled
	if err := scheduler.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.Database.Path))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	scheduler.Stop()

	logger.Info("server stopped")
}

// buildLogger constructs a zap logger from the configured level and
// format. Console format gets colored levels for local development.
func buildLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"crowdpong/internal/app"
	"crowdpong/internal/config"
	"crowdpong/internal/domain"
	httpTransport "crowdpong/internal/transport/http"
)

//go:embed web
var webFS embed.FS

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting crowdpong server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"topology", cfg.Game.ControlTopology,
		"tickRate", cfg.Game.TickRate,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	settings := cfg.Settings()
	match, err := domain.NewMatch(settings, nil)
	if err != nil {
		return err
	}

	// Create the broadcast hub and the match actor
	hub := app.NewHub(logger)
	defer hub.Close()

	driver := app.NewLoopDriver(settings.TickPeriod(), app.NewRealTicker, logger)
	session := app.NewSession(match, hub, driver, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionDone := make(chan error, 1)
	go func() {
		sessionDone <- session.Run(ctx)
	}()

	web, err := fs.Sub(webFS, "web")
	if err != nil {
		return err
	}
	server := httpTransport.NewServer(cfg, session, logger, web)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for a signal or a failure
	select {
	case <-ctx.Done():
		logger.Info("shutting down server...")
	case err := <-serverErr:
		session.Close()
		return err
	case err := <-sessionDone:
		logger.Error("match session stopped", "error", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	session.Close()
	return nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, logOpts))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

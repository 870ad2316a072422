package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resort/internal/infra/config"
	ginserver "resort/internal/infra/http/gin"
	"resort/internal/infra/obs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)
	if cfg.SecretKeyDefaulted {
		logger.Warn("SECRET_KEY not set, using the development key")
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	if err := app.loadRoomFixtures(ctx, cfg.RoomFixturesPath, logger); err != nil {
		logger.Warn("room fixtures load failed", "error", err, "path", cfg.RoomFixturesPath)
	}

	app.startBackground(ctx, logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, app.health, app.handlers)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		stop()
		app.wait()
		app.close(logger)
		os.Exit(1)
	}
	app.wait()
	logger.Info("HTTP server stopped")
}

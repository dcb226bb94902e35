package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/config"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/logging"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	if logging.ParseLevel(cfg.Service.LogLevel) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, logger, startTime)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.worker.Start(ctx, cfg.Catalog.RefreshInterval)
	app.worker.Enqueue("startup")

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Service.Port),
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("checklist sync engine listening", "port", cfg.Service.Port, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}

	select {
	case <-app.worker.Done():
	case <-shutdownCtx.Done():
		logger.Warn("catalog refresher did not stop in time")
	}

	logger.Info("server stopped gracefully")
}

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

	"github.com/goalpulse/goalpulse/internal/app"
	"github.com/goalpulse/goalpulse/internal/config"
	"github.com/goalpulse/goalpulse/internal/logger"
	"github.com/goalpulse/goalpulse/internal/routes"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), logger.Options{
		AppName:   cfg.AppName,
		Env:       cfg.AppEnv,
		SentryDSN: cfg.SentryDSN,
	})
	defer logger.Flush(2 * time.Second)

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	if app.Scheduler != nil {
		app.Scheduler.Start()
	} else {
		slog.Warn("reminder scheduler disabled", "hint", "set REMINDER_ENABLED=true to send reminders")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port, "timezone", app.Location.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if app.Scheduler != nil {
		if err := app.Scheduler.Stop(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	slog.Info("server stopped")
	return errors.Join(errs...)
}

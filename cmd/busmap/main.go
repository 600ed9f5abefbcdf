package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"busmap.londonbus.dev/internal/app"
	"busmap.londonbus.dev/internal/config"
	"busmap.londonbus.dev/internal/report"
	"busmap.londonbus.dev/internal/transport"
)

// Declare a string containing the application version number.
// Overridden at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var (
		port       = flag.Int("port", config.DefaultPort, "API server port")
		env        = flag.String("env", "development", "Environment (development|staging|production)")
		configFile = flag.String("config-file", "", "Path to a local JSON configuration file")
		configURL  = flag.String("config-url", "", "URL to a remote JSON configuration file")
	)

	flag.Parse()

	configAuthUser := os.Getenv("CONFIG_AUTH_USER")
	configAuthPass := os.Getenv("CONFIG_AUTH_PASS")

	if err := config.ValidateConfigFlags(configFile, configURL); err != nil {
		fmt.Println("Error:", err)
		flag.Usage()
		os.Exit(1)
	}

	report.SetupSentry(*env, version)
	defer report.FlushSentry()
	report.ConfigureScope(*env, version)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := transport.NewPooledClient(10 * time.Second)

	cfg := config.NewConfig(*port, *env)
	configService := config.NewConfigService(logger, client, cfg)
	if err := configService.Load(ctx, *configFile, *configURL, configAuthUser, configAuthPass, os.Getenv); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	application, err := app.New(ctx, cfg, logger, client, version)
	if err != nil {
		report.ReportError(err, sentry.LevelFatal)
		logger.Error("Failed to initialise application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	application.Start(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      application.Routes(ctx),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env, "version", version)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			report.ReportError(err, sentry.LevelFatal)
			logger.Error("Server stopped", "error", err)
			report.FlushSentry()
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
		}
	}
	logger.Info("server stopped")
}

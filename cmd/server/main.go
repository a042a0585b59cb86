package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/leoprim/ebutikpartner-sub001/internal/api"
	"github.com/leoprim/ebutikpartner-sub001/internal/authstate"
	"github.com/leoprim/ebutikpartner-sub001/internal/config"
	"github.com/leoprim/ebutikpartner-sub001/internal/database"
	"github.com/leoprim/ebutikpartner-sub001/internal/identity"
	"github.com/leoprim/ebutikpartner-sub001/internal/llm"
	"github.com/leoprim/ebutikpartner-sub001/internal/profile"
	"github.com/leoprim/ebutikpartner-sub001/internal/role"
	"github.com/leoprim/ebutikpartner-sub001/internal/storebuild"
	"github.com/leoprim/ebutikpartner-sub001/internal/telemetry"
	"github.com/leoprim/ebutikpartner-sub001/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	shutdownTracing := telemetry.Setup("ebutikpartner")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	idClient := identity.NewClient(cfg.IdentityURL, cfg.IdentityAnonKey, cfg.IdentityServiceKey)
	renderer, err := web.NewRenderer()
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	router := api.NewRouter(api.RouterDeps{
		Resolver:      authstate.NewResolver(idClient, cfg.SecureCookies()),
		Identity:      idClient,
		Renderer:      renderer,
		Profiles:      profile.NewRepository(db.Pool()),
		Builds:        storebuild.NewRepository(db.Pool()),
		Roles:         role.NewRepository(db.Pool()),
		Generator:     llm.NewClient(cfg.LLMAPIURL, cfg.ResolvedLLMKey(), cfg.LLMModel),
		HasLLMKey:     cfg.ResolvedLLMKey() != "",
		DBPinger:      db,
		Version:       cfg.Version,
		SecureCookies: cfg.SecureCookies(),
		Metrics:       registry,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Port, "version", cfg.Version, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := shutdownTracing(ctx); err != nil {
		slog.Warn("tracing shutdown failed", "error", err)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

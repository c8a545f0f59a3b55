package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"clawbot-dashboard/internal/config"
	"clawbot-dashboard/internal/connectors/backend"
	"clawbot-dashboard/internal/connectors/history"
	"clawbot-dashboard/internal/dashboard"
	"clawbot-dashboard/internal/format"
	httpapi "clawbot-dashboard/internal/http"
	"clawbot-dashboard/internal/logger"
	"clawbot-dashboard/internal/metrics"
	"clawbot-dashboard/internal/refresh"
)

var version = "dev"

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("dashboard stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		log.Warn("falling back to UTC", "error", err)
	}
	formatter, err := format.New(cfg.Locale, loc)
	if err != nil {
		return err
	}

	m := metrics.New()
	client, err := backend.NewClient(cfg.APIBase, cfg.TenantID, cfg.FetchTimeout,
		backend.WithLogger(log),
		backend.WithMetrics(m),
		backend.WithLimits(cfg.SignalsLimit, cfg.AuditLimit),
	)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}

	doc := dashboard.NewDashboardDocument()
	panels, err := dashboard.NewPanels(doc, formatter, dashboard.WithLogger(log))
	if err != nil {
		return err
	}

	ctrlOpts := []refresh.Option{
		refresh.WithInterval(cfg.RefreshInterval),
		refresh.WithLogger(log),
		refresh.WithMetrics(m),
	}
	deps := httpapi.Deps{
		Document: doc,
		Stats:    panels,
		Metrics:  m,
		Logger:   log,
	}
	if cfg.HistoryEnabled {
		store, err := history.NewStore(cfg)
		if err != nil {
			return fmt.Errorf("history store: %w", err)
		}
		log.Info("cycle history enabled", "driver", store.Driver(), "keep", cfg.HistoryKeep)
		ctrlOpts = append(ctrlOpts, refresh.WithRecorder(store))
		deps.History = store
	}

	ctrl, err := refresh.New(client, panels, ctrlOpts...)
	if err != nil {
		return err
	}
	boot, err := refresh.NewBootstrapper(ctrl, log)
	if err != nil {
		return err
	}
	deps.Refresher = boot
	deps.Status = ctrl

	srv, err := httpapi.NewServer(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	bootDone := make(chan error, 1)
	go func() { bootDone <- boot.Run(ctx, doc.Ready()) }()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting dashboard server", "version", version, "addr", cfg.ListenAddr,
			"api_base", cfg.APIBase, "tenant_id", cfg.TenantID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if err := doc.MarkReady(); err != nil {
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err, ok := <-serveErr:
		if ok {
			runErr = err
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := <-bootDone; err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("bootstrapper stopped", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", "error", err)
	}
	return runErr
}

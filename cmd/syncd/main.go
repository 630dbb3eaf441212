// syncd is the background companion of the asset database: it pushes
// pending local writes to the remote API on a schedule and when
// connectivity returns, prunes old data nightly, and exposes health, stats
// and metrics over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/crucial707/hci-assetdb/internal/config"
	"github.com/crucial707/hci-assetdb/internal/handlers"
	"github.com/crucial707/hci-assetdb/internal/metrics"
	"github.com/crucial707/hci-assetdb/internal/middleware"
	"github.com/crucial707/hci-assetdb/internal/seed"
	"github.com/crucial707/hci-assetdb/internal/service"
	"github.com/crucial707/hci-assetdb/internal/store"
	"github.com/crucial707/hci-assetdb/internal/syncer"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogFormat)

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		slog.Error("failed to open local database", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("local database open", "data_dir", cfg.DataDir)

	svc := service.New(st)

	if cfg.SeedOnStart {
		seeded, err := seed.Run(context.Background(), svc)
		if err != nil {
			slog.Error("seed failed", "error", err)
			os.Exit(1)
		}
		if seeded {
			slog.Info("seeded baseline data")
		}
	}

	client := syncer.NewClient(cfg.APIBaseURL, readToken(cfg.TokenFile))
	reconciler := syncer.New(st, client)

	runSync := func() {
		if err := client.CheckToken(); err != nil {
			if errors.Is(err, syncer.ErrTokenExpired) {
				slog.Warn("sync skipped, auth token expired")
			} else {
				slog.Warn("sync skipped", "error", err)
			}
			return
		}
		if _, err := reconciler.Run(context.Background()); err != nil {
			slog.Error("sync pass failed", "error", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.SyncCron, runSync); err != nil {
		slog.Error("invalid SYNC_CRON", "cron", cfg.SyncCron, "error", err)
		os.Exit(1)
	}
	if _, err := c.AddFunc(cfg.OptimizeCron, func() {
		result, err := svc.Optimize(context.Background())
		if err != nil {
			slog.Error("optimize failed", "error", err)
			return
		}
		metrics.OptimizePrunedTotal.WithLabelValues("auditLogs").Add(float64(result.AuditPruned))
		metrics.OptimizePrunedTotal.WithLabelValues("maintenanceRecords").Add(float64(result.MaintenancePruned))
	}); err != nil {
		slog.Error("invalid OPTIMIZE_CRON", "cron", cfg.OptimizeCron, "error", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := syncer.NewMonitor(client.Ping,
		time.Duration(cfg.MonitorIntervalSec)*time.Second, runSync)
	go monitor.Run(ctx)

	syncHandler := &handlers.SyncHandler{
		Service:    svc,
		Reconciler: reconciler,
		CheckAuth:  client.CheckToken,
	}
	healthHandler := &handlers.HealthHandler{Service: svc}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)

	r.Get("/health", healthHandler.Health)
	r.Get("/stats", syncHandler.Stats)
	r.Post("/sync", syncHandler.TriggerSync)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("syncd listening", "port", cfg.Port, "api_url", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogging(format string) {
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// readToken loads the stored JWT; an absent file just means sync waits for a
// login.
func readToken(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

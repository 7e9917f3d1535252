package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/advisor"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/api"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/config"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/export"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/metrics"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/notify"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/sim"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	uiDir := flag.String("ui-dir", "", "serve the dashboard UI static files from this directory (e.g. ui/dist); leave empty to disable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("integrity-dashboard server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"data_path", cfg.Data.Path,
		"sim_interval", cfg.Sim.Interval,
		"advisor_mode", cfg.Advisor.Mode,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	seed, err := dataset.Load(cfg.Data.Path)
	if err != nil {
		slog.Error("failed to load dataset", "err", err)
		os.Exit(1)
	}
	slog.Info("dataset loaded",
		"departments", len(seed.Departments),
		"total_score", seed.IntegrationIndex.TotalScore,
		"grade", seed.IntegrationIndex.Grade,
	)

	// Live simulator owns the current snapshot.
	simulator := sim.New(seed, sim.Options{
		Interval: cfg.Sim.Interval,
		Seed:     cfg.Sim.Seed,
	})

	// Notification engine — re-evaluates its rules on every new snapshot.
	notes := notify.New()
	notes.Regenerate(simulator.Snapshot())

	// WebSocket hub — pushes snapshots and notifications to UI clients.
	hub := ws.New()
	go hub.Run(ctx)

	simulator.Subscribe(func(snap *dataset.Snapshot) {
		notes.Regenerate(snap)
		if err := hub.Publish("snapshot", snap); err != nil {
			slog.Warn("publish snapshot failed", "err", err)
		}
		if err := hub.Publish("notifications", map[string]any{
			"notifications": notes.List(),
			"unread":        notes.UnreadCount(),
		}); err != nil {
			slog.Warn("publish notifications failed", "err", err)
		}
	})

	// Seed the hub so the first client sees data before the first tick.
	if err := hub.Publish("snapshot", simulator.Snapshot()); err != nil {
		slog.Warn("publish initial snapshot failed", "err", err)
	}

	// Advisor behind a switch so config hot-reload can swap it live.
	advClient := advisor.NewSwitch(buildAdvisor(cfg))
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			advClient.Set(buildAdvisor(next))
			slog.Info("advisor reconfigured", "mode", next.Advisor.Mode)
		})
		if err != nil {
			slog.Warn("config watch stopped", "err", err)
		}
	}()

	bookmarks := export.NewBookmarks()

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(api.Deps{
		Sim:       simulator,
		Notify:    notes,
		Advisor:   advClient,
		Bookmarks: bookmarks,
	}))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", metrics.Handler(metrics.Sources{
		Snapshot: simulator.Snapshot,
		Unread:   notes.UnreadCount,
		Ticks:    simulator.Ticks,
		Running:  simulator.Running,
	}))

	// Optional: serve the pre-built dashboard UI from a local directory.
	// Usage:  ./bin/server -config config.yaml -ui-dir ui/dist
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		httpMux.HandleFunc("/", spaFileServer(*uiDir))
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	// Start the live simulation; the dashboard is "live" by default.
	simulator.Start()

	<-ctx.Done()
	slog.Info("integrity-dashboard server shutting down")
	simulator.Stop()
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}

// spaFileServer serves static files from dir, falling back to index.html
// for paths that don't exist on disk so client-side routes still resolve.
func spaFileServer(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		// ServeMux has already cleaned the path; Join keeps it rooted in dir.
		path := filepath.Join(dir, filepath.FromSlash(r.URL.Path))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}
}

// buildAdvisor constructs the advisor client for the given config.
func buildAdvisor(cfg *config.Config) advisor.Client {
	if cfg.Advisor.Mode == "http" {
		return advisor.NewHTTP(
			cfg.Advisor.Endpoint,
			cfg.Advisor.EffectiveHeader(),
			cfg.Advisor.Key(),
			cfg.Advisor.Timeout,
		)
	}
	return advisor.NewMock()
}

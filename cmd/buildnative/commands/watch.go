package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/buildnative/internal/config"
	"git.home.luguber.info/inful/buildnative/internal/metrics"
	"git.home.luguber.info/inful/buildnative/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	NoInitialRun  bool   `name:"no-initial-run" help:"Wait for the first change instead of building immediately"`
	MetricsListen string `name:"metrics-listen" help:"Serve Prometheus metrics on this address (e.g. :9464)"`
	HistoryDB     string `name:"history-db" help:"Record runs in this SQLite history database"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, func(c *config.Config) {
		if w.HistoryDB != "" {
			c.History.Database = w.HistoryDB
		}
	})
	if err != nil {
		return err
	}
	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := g.context()
	if w.MetricsListen != "" {
		srv := &http.Server{
			Addr:              w.MetricsListen,
			Handler:           metricsMux(sess),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("Serving metrics", "addr", w.MetricsListen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	l := sess.launcher("watch")
	opts := watch.Options{
		Paths:      watchPaths(sess.layout.Root, cfg.Watch.Paths),
		Debounce:   cfg.Watch.Debounce,
		Interval:   cfg.Watch.Interval,
		RunOnStart: !w.NoInitialRun,
	}
	return watch.Run(ctx, opts, func(ctx context.Context, trigger string) error {
		rep, err := l.RunTrigger(ctx, trigger)
		sess.flushMetrics()
		printReport(rep)
		return err
	})
}

func metricsMux(sess *session) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(sess.registry))
	return mux
}

// watchPaths resolves relative watch paths against the layout root.
func watchPaths(root string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}

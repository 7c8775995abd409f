package commands

import (
	"log/slog"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/buildnative/internal/config"
	"git.home.luguber.info/inful/buildnative/internal/eventstore"
	"git.home.luguber.info/inful/buildnative/internal/launcher"
	"git.home.luguber.info/inful/buildnative/internal/layout"
	"git.home.luguber.info/inful/buildnative/internal/logfields"
	"git.home.luguber.info/inful/buildnative/internal/metrics"
	"git.home.luguber.info/inful/buildnative/internal/notify"
	"git.home.luguber.info/inful/buildnative/internal/revision"
)

// session holds the configuration, derived layout and optional backends
// shared by the commands that launch builds.
type session struct {
	cfg    *config.Config
	layout layout.Layout
	// sourceDir is where the source revision is read from.
	sourceDir string

	registry *prom.Registry
	recorder metrics.Recorder
	history  eventstore.Store
	notifier notify.Notifier
}

// resolveConfigPath returns the explicit --config value, or buildnative.yaml
// from the working directory when it exists, or "" for built-in defaults.
func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if _, err := os.Stat(config.DefaultFileName); err == nil {
		return config.DefaultFileName
	}
	return ""
}

// loadConfig loads the configuration and applies command-line overrides.
func loadConfig(root *CLI, override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath(root.Config))
	if err != nil {
		return nil, err
	}
	if root.Root != "" {
		cfg.Root = root.Root
	}
	if override != nil {
		override(cfg)
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// deriveLayout resolves the root directory and derives the run's paths from it.
func deriveLayout(cfg *config.Config) (layout.Layout, error) {
	rootDir, err := layout.ResolveRoot(cfg.Root)
	if err != nil {
		return layout.Layout{}, err
	}
	return layout.Derive(rootDir, cfg.Layout)
}

// openSession prepares everything a launch needs. Optional backends that
// fail to open are logged and left disabled, except history, whose database
// path is an explicit request.
func openSession(cfg *config.Config) (*session, error) {
	l, err := deriveLayout(cfg)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:       cfg,
		layout:    l,
		sourceDir: sourceDir(l, cfg.Watch.Paths),
		registry:  prom.NewRegistry(),
		notifier:  notify.Noop{},
	}
	s.recorder = metrics.NewPrometheusRecorder(s.registry)

	if cfg.History.Database != "" {
		store, err := eventstore.NewSQLiteStore(cfg.History.Database)
		if err != nil {
			return nil, err
		}
		s.history = store
	}

	if cfg.Notify.NATSURL != "" {
		n, err := notify.NewNATSNotifier(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			slog.Warn("Run notifications disabled", logfields.Error(err))
		} else {
			s.notifier = n
		}
	}
	return s, nil
}

func (s *session) launcher(trigger string) *launcher.Launcher {
	opts := []launcher.Option{
		launcher.WithBuildSpec(s.cfg.Build.BuildSpec),
		launcher.WithPolicy(launcher.PolicyFor(s.cfg.Build.RequireSuccess)),
		launcher.WithRecorder(s.recorder),
		launcher.WithNotifier(s.notifier),
		launcher.WithTrigger(trigger),
		launcher.WithRevision(s.revision),
	}
	if s.history != nil {
		opts = append(opts, launcher.WithHistory(s.history))
	}
	return launcher.New(s.layout, opts...)
}

// sourceDir picks the first existing watch path, which defaults to the
// engine sources, and falls back to the layout root.
func sourceDir(l layout.Layout, paths []string) string {
	for _, p := range watchPaths(l.Root, paths) {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p
		}
	}
	return l.Root
}

// revision reports the HEAD of the repository holding the native sources.
func (s *session) revision() string {
	info, err := revision.Detect(s.sourceDir)
	if err != nil {
		slog.Debug("Source revision unavailable", logfields.Dir(s.sourceDir), logfields.Error(err))
		return ""
	}
	return info.Short()
}

// flushMetrics writes the metrics textfile when one is configured.
func (s *session) flushMetrics() {
	if s.cfg.Metrics.Textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(s.cfg.Metrics.Textfile, s.registry); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(s.cfg.Metrics.Textfile), logfields.Error(err))
	}
}

func (s *session) Close() {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			slog.Warn("Failed to close history database", logfields.Error(err))
		}
	}
	if err := s.notifier.Close(); err != nil {
		slog.Warn("Failed to close notifier", logfields.Error(err))
	}
}

package config

import (
	"time"

	"git.home.luguber.info/inful/buildnative/internal/buildtool"
)

const (
	DefaultNotifySubject = "buildnative.runs"
	DefaultDebounce      = 2 * time.Second
	DefaultWatchPath     = "../Engine/src"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type layoutDefaults struct{}

func (layoutDefaults) Domain() string { return "layout" }
func (layoutDefaults) ApplyDefaults(cfg *Config) {
	cfg.Layout = cfg.Layout.WithDefaults()
}

type buildDefaults struct{}

func (buildDefaults) Domain() string { return "build" }
func (buildDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Build.Tool == "" {
		cfg.Build.Tool = buildtool.DefaultTool
	}
	// Negative values are left for Validate to reject.
	if cfg.Build.Jobs == 0 {
		cfg.Build.Jobs = buildtool.DefaultJobs
	}
}

type notifyDefaults struct{}

func (notifyDefaults) Domain() string { return "notify" }
func (notifyDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
}

type watchDefaults struct{}

func (watchDefaults) Domain() string { return "watch" }
func (watchDefaults) ApplyDefaults(cfg *Config) {
	if len(cfg.Watch.Paths) == 0 {
		cfg.Watch.Paths = []string{DefaultWatchPath}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}

var defaultAppliers = []DefaultApplier{
	layoutDefaults{},
	buildDefaults{},
	notifyDefaults{},
	watchDefaults{},
}

func applyDefaults(cfg *Config) {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}

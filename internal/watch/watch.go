package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/buildnative/internal/logfields"
)

// Trigger labels.
const (
	TriggerStart    = "start"
	TriggerChange   = "change"
	TriggerSchedule = "schedule"
)

// Options configures Run.
type Options struct {
	// Paths are the source trees to watch. Empty disables file watching.
	Paths    []string
	Debounce time.Duration
	// Interval schedules periodic runs when positive.
	Interval time.Duration
	// RunOnStart performs one run before waiting for triggers.
	RunOnStart bool
}

// Run drives fn from file changes and the interval schedule until ctx is
// cancelled. It returns an error only when a trigger source cannot be set up.
func Run(ctx context.Context, opts Options, fn RunFunc) error {
	if len(opts.Paths) == 0 && opts.Interval <= 0 {
		return fmt.Errorf("nothing to watch: configure watch paths or an interval")
	}

	serial := NewSerial(fn)

	if len(opts.Paths) > 0 {
		fw, err := NewFSWatcher(opts.Paths, opts.Debounce, func(path string) {
			slog.Info("Sources changed", logfields.Path(path))
			serial.Trigger(TriggerChange)
		})
		if err != nil {
			return err
		}
		defer func() { _ = fw.Close() }()
		if err := fw.Start(ctx); err != nil {
			return err
		}
	}

	if opts.Interval > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.ScheduleEvery("buildnative-run", opts.Interval, func() {
			serial.Trigger(TriggerSchedule)
		}); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	if opts.RunOnStart {
		serial.Trigger(TriggerStart)
	}

	slog.Info("Watch mode started", slog.Int("paths", len(opts.Paths)), slog.Duration("interval", opts.Interval))
	serial.Loop(ctx)
	slog.Info("Watch mode stopped")
	return nil
}

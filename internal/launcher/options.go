package launcher

import (
	"time"

	"git.home.luguber.info/inful/buildnative/internal/artifact"
	"git.home.luguber.info/inful/buildnative/internal/buildtool"
	"git.home.luguber.info/inful/buildnative/internal/eventstore"
	"git.home.luguber.info/inful/buildnative/internal/metrics"
	"git.home.luguber.info/inful/buildnative/internal/notify"
)

// Option configures a Launcher.
type Option func(*Launcher)

// WithRunner replaces the process runner used for the build step.
func WithRunner(r buildtool.Runner) Option {
	return func(l *Launcher) { l.runner = r }
}

// WithCopier replaces the artifact copier.
func WithCopier(c artifact.Copier) Option {
	return func(l *Launcher) { l.copier = c }
}

// WithBuildSpec sets the tool, parallelism and extra arguments of the build step.
func WithBuildSpec(spec buildtool.BuildSpec) Option {
	return func(l *Launcher) { l.build = spec }
}

// WithPolicy selects how a failed build affects the copy step.
func WithPolicy(p Policy) Option {
	return func(l *Launcher) { l.policy = p }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(l *Launcher) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithHistory records run events into store.
func WithHistory(store eventstore.Store) Option {
	return func(l *Launcher) { l.history = store }
}

// WithNotifier publishes a message after every run.
func WithNotifier(n notify.Notifier) Option {
	return func(l *Launcher) {
		if n != nil {
			l.notifier = n
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Launcher) { l.now = now }
}

// WithTrigger labels runs with what started them (cli, watch, schedule).
func WithTrigger(trigger string) Option {
	return func(l *Launcher) { l.trigger = trigger }
}

// WithRevision supplies a revision resolver called at the start of every run.
func WithRevision(resolve func() string) Option {
	return func(l *Launcher) { l.revision = resolve }
}

// Package launcher runs the two-step native build: invoke the build tool in
// build_dir, then copy the produced shared library into dest_dir.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/buildnative/internal/artifact"
	"git.home.luguber.info/inful/buildnative/internal/buildtool"
	bnerrors "git.home.luguber.info/inful/buildnative/internal/errors"
	"git.home.luguber.info/inful/buildnative/internal/eventstore"
	"git.home.luguber.info/inful/buildnative/internal/layout"
	"git.home.luguber.info/inful/buildnative/internal/logfields"
	"git.home.luguber.info/inful/buildnative/internal/metrics"
	"git.home.luguber.info/inful/buildnative/internal/notify"
)

// Step names used in logs and metrics.
const (
	StepPreflight = "preflight"
	StepBuild     = "build"
	StepCopy      = "copy"
)

// Launcher holds the derived layout and the collaborators of a run. The
// layout is fixed at construction and shared by every run.
type Launcher struct {
	layout layout.Layout
	build  buildtool.BuildSpec
	policy Policy

	runner   buildtool.Runner
	copier   artifact.Copier
	recorder metrics.Recorder
	history  eventstore.Store
	notifier notify.Notifier

	now      func() time.Time
	trigger  string
	revision func() string
}

// New creates a launcher for l. Without options it runs the real build tool
// with the default invocation and copies with a FileCopier.
func New(l layout.Layout, options ...Option) *Launcher {
	ln := &Launcher{
		layout:   l,
		build:    buildtool.BuildSpec{Tool: buildtool.DefaultTool, Jobs: buildtool.DefaultJobs},
		policy:   PolicyAlwaysCopy,
		runner:   buildtool.NewExecRunner(),
		copier:   artifact.FileCopier{},
		recorder: metrics.NoopRecorder{},
		notifier: notify.Noop{},
		now:      time.Now,
		trigger:  "cli",
	}
	for _, opt := range options {
		opt(ln)
	}
	return ln
}

// Layout returns the paths the launcher operates on.
func (l *Launcher) Layout() layout.Layout { return l.layout }

// Run performs one launch labeled with the launcher's default trigger.
func (l *Launcher) Run(ctx context.Context) (*Report, error) {
	return l.RunTrigger(ctx, l.trigger)
}

// RunTrigger performs one launch: pre-flight, build, then copy. The returned
// Report is never nil. The error is a categorized *errors.Error.
func (l *Launcher) RunTrigger(ctx context.Context, trigger string) (*Report, error) {
	rep := &Report{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		Policy:    l.policy,
		StartedAt: l.now(),
	}
	if l.revision != nil {
		rep.Revision = l.revision()
	}

	log := slog.With(logfields.RunID(rep.RunID))
	log.Info("Launch started",
		logfields.Trigger(trigger),
		logfields.Dir(l.layout.BuildDir),
		slog.String("policy", l.policy.String()))

	l.record(ctx, log, rep.RunID, eventstore.TypeRunStarted, eventstore.RunStartedData{
		Root:           l.layout.Root,
		BuildDir:       l.layout.BuildDir,
		SourceArtifact: l.layout.SourceArtifact,
		DestDir:        l.layout.DestDir,
		Policy:         l.policy.String(),
		Revision:       rep.Revision,
		Trigger:        trigger,
	})

	err := l.execute(ctx, log, rep)
	l.finish(ctx, log, rep, err)
	return rep, err
}

func (l *Launcher) execute(ctx context.Context, log *slog.Logger, rep *Report) error {
	if err := l.preflight(); err != nil {
		l.recorder.IncStepResult(StepPreflight, metrics.ResultFailed)
		l.skip(StepBuild, StepCopy)
		return err
	}
	l.recorder.IncStepResult(StepPreflight, metrics.ResultSuccess)

	if err := l.runBuild(ctx, log, rep); err != nil {
		return err
	}
	return l.runCopy(ctx, log, rep)
}

// preflight checks build_dir exists and the build tool resolves, in that order.
func (l *Launcher) preflight() error {
	info, err := os.Stat(l.layout.BuildDir)
	if err != nil {
		return bnerrors.PathMissing("build_dir", l.layout.BuildDir, err)
	}
	if !info.IsDir() {
		return bnerrors.PathMissing("build_dir", l.layout.BuildDir, fmt.Errorf("not a directory"))
	}

	tool := l.build.Tool
	if tool == "" {
		tool = buildtool.DefaultTool
	}
	if _, err := l.runner.Resolve(tool); err != nil {
		return bnerrors.ToolNotFound(tool, err)
	}
	return nil
}

func (l *Launcher) runBuild(ctx context.Context, log *slog.Logger, rep *Report) error {
	inv, err := buildtool.CMakeBuild(l.build, l.layout.BuildDir)
	if err != nil {
		l.skip(StepBuild, StepCopy)
		return bnerrors.Wrap(err, bnerrors.CategoryValidation, bnerrors.SeverityFatal, "invalid build invocation")
	}

	log.Info("Running build tool", logfields.Stage(StepBuild), logfields.Tool(inv.Tool), logfields.Args(inv.Args))
	res, err := l.runner.Run(ctx, inv)
	rep.BuildRan = true
	rep.BuildExitCode = res.ExitCode
	rep.BuildDuration = res.Duration
	l.recorder.ObserveStepDuration(StepBuild, res.Duration)
	l.recorder.SetBuildExitCode(res.ExitCode)

	if err != nil {
		l.recorder.IncStepResult(StepBuild, metrics.ResultFailed)
		l.recorder.IncStepResult(StepCopy, metrics.ResultSkipped)
		switch {
		case errors.Is(err, buildtool.ErrToolNotFound):
			return bnerrors.ToolNotFound(inv.Tool, err)
		case ctx.Err() != nil:
			return bnerrors.Wrap(err, bnerrors.CategoryRuntime, bnerrors.SeverityFatal, "build interrupted")
		default:
			return bnerrors.BuildFailed(res.ExitCode, err)
		}
	}

	l.record(ctx, log, rep.RunID, eventstore.TypeBuildFinished, eventstore.BuildFinishedData{
		Tool:       inv.Tool,
		Args:       inv.Args,
		ExitCode:   res.ExitCode,
		DurationMS: res.Duration.Milliseconds(),
	})

	if res.Succeeded() {
		l.recorder.IncStepResult(StepBuild, metrics.ResultSuccess)
		log.Info("Build finished", logfields.ExitCode(res.ExitCode), logfields.DurationMS(ms(res.Duration)))
		return nil
	}

	l.recorder.IncStepResult(StepBuild, metrics.ResultFailed)
	if l.policy == PolicyRequireBuildSuccess {
		l.recorder.IncStepResult(StepCopy, metrics.ResultSkipped)
		return bnerrors.BuildFailed(res.ExitCode, nil)
	}
	log.Warn("Build tool exited with failure; copying artifact anyway",
		logfields.ExitCode(res.ExitCode),
		logfields.DurationMS(ms(res.Duration)))
	return nil
}

func (l *Launcher) runCopy(ctx context.Context, log *slog.Logger, rep *Report) error {
	src, dest := l.layout.SourceArtifact, l.layout.DestDir
	log.Info("Copying artifact", logfields.Stage(StepCopy), logfields.Path(src), logfields.Dir(dest))

	start := l.now()
	res, err := l.copier.CopyInto(src, dest)
	rep.CopyDuration = l.now().Sub(start)
	l.recorder.ObserveStepDuration(StepCopy, rep.CopyDuration)

	if err != nil {
		l.recorder.IncStepResult(StepCopy, metrics.ResultFailed)
		switch {
		case errors.Is(err, artifact.ErrSourceMissing):
			return bnerrors.PathMissing("source_artifact", src, err)
		case errors.Is(err, artifact.ErrDestinationMissing):
			return bnerrors.PathMissing("dest_dir", dest, err)
		default:
			return bnerrors.CopyFailed(src, dest, err)
		}
	}

	rep.Copied = true
	rep.Destination = res.Destination
	rep.Bytes = res.Bytes
	rep.SHA256 = res.SHA256
	l.recorder.IncStepResult(StepCopy, metrics.ResultSuccess)
	l.recorder.SetArtifactBytes(res.Bytes)

	l.record(ctx, log, rep.RunID, eventstore.TypeCopyFinished, eventstore.CopyFinishedData{
		Destination: res.Destination,
		Bytes:       res.Bytes,
		SHA256:      res.SHA256,
		DurationMS:  rep.CopyDuration.Milliseconds(),
	})
	log.Info("Artifact copied", logfields.Path(res.Destination), logfields.Bytes(res.Bytes))
	return nil
}

func (l *Launcher) finish(ctx context.Context, log *slog.Logger, rep *Report, err error) {
	rep.FinishedAt = l.now()
	rep.Err = err
	switch {
	case err != nil:
		rep.Outcome = OutcomeFailed
	case rep.BuildExitCode != 0:
		rep.Outcome = OutcomeBuildFailedCopied
	default:
		rep.Outcome = OutcomeSuccess
	}

	l.recorder.ObserveRunDuration(rep.Duration())
	l.recorder.IncRunOutcome(string(rep.Outcome))
	l.recorder.SetLastRun(rep.FinishedAt)

	finished := eventstore.RunFinishedData{
		Outcome:    string(rep.Outcome),
		DurationMS: rep.Duration().Milliseconds(),
	}
	if err != nil {
		finished.Error = err.Error()
	}
	l.record(ctx, log, rep.RunID, eventstore.TypeRunFinished, finished)

	// The run is over; publish even if ctx was cancelled mid-build.
	nctx := context.WithoutCancel(ctx)
	if nerr := l.notifier.Notify(nctx, notifyEvent(rep)); nerr != nil {
		log.Warn("Failed to publish run outcome", logfields.Error(nerr))
	}

	attrs := []any{logfields.Outcome(string(rep.Outcome)), logfields.DurationMS(ms(rep.Duration()))}
	if err != nil {
		log.Error("Launch failed", append(attrs, logfields.Error(err))...)
		return
	}
	log.Info("Launch finished", attrs...)
}

func notifyEvent(rep *Report) notify.RunEvent {
	ev := notify.RunEvent{
		RunID:       rep.RunID,
		Outcome:     string(rep.Outcome),
		ExitCode:    rep.BuildExitCode,
		Destination: rep.Destination,
		SHA256:      rep.SHA256,
		Revision:    rep.Revision,
		DurationMS:  rep.Duration().Milliseconds(),
		FinishedAt:  rep.FinishedAt,
	}
	if rep.Err != nil {
		ev.Error = rep.Err.Error()
	}
	return ev
}

// record appends a history event. History is best effort and never fails a run.
func (l *Launcher) record(ctx context.Context, log *slog.Logger, runID, eventType string, data any) {
	if l.history == nil {
		return
	}
	ev, err := eventstore.NewEvent(runID, eventType, l.now(), data)
	if err == nil {
		err = l.history.Append(context.WithoutCancel(ctx), ev)
	}
	if err != nil {
		log.Warn("Failed to record run history", slog.String("event", eventType), logfields.Error(err))
	}
}

func (l *Launcher) skip(steps ...string) {
	for _, s := range steps {
		l.recorder.IncStepResult(s, metrics.ResultSkipped)
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

package metrics

import "time"

// ResultLabel enumerates step result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for launcher runs.
type Recorder interface {
	ObserveStepDuration(step string, d time.Duration)
	IncStepResult(step string, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome string)
	SetBuildExitCode(code int)
	SetArtifactBytes(n int64)
	SetLastRun(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) IncStepResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveRunDuration(time.Duration)          {}
func (NoopRecorder) IncRunOutcome(string)                      {}
func (NoopRecorder) SetBuildExitCode(int)                      {}
func (NoopRecorder) SetArtifactBytes(int64)                    {}
func (NoopRecorder) SetLastRun(time.Time)                      {}

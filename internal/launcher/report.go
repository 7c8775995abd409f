package launcher

import "time"

// Outcome is the final classification of a run.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeBuildFailedCopied Outcome = "build_failed_copied"
	OutcomeFailed            Outcome = "failed"
)

// Report summarizes one launcher run. It is returned even when Run fails,
// filled in as far as the run got.
type Report struct {
	RunID    string
	Trigger  string
	Revision string
	Policy   Policy

	StartedAt  time.Time
	FinishedAt time.Time

	// BuildRan is false when pre-flight aborted the run.
	BuildRan      bool
	BuildExitCode int
	BuildDuration time.Duration

	Copied       bool
	Destination  string
	Bytes        int64
	SHA256       string
	CopyDuration time.Duration

	Outcome Outcome
	Err     error
}

// Duration is the wall time of the whole run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

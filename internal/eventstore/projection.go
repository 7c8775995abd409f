package eventstore

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

const runStatusRunning = "running"

// RunSummary is a read model of one launcher run.
type RunSummary struct {
	RunID       string        `json:"run_id"`
	Status      string        `json:"status"` // "running" or the run outcome
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Revision    string        `json:"revision,omitempty"`
	Trigger     string        `json:"trigger,omitempty"`
	ExitCode    *int          `json:"exit_code,omitempty"`
	Destination string        `json:"destination,omitempty"`
	Bytes       int64         `json:"bytes,omitempty"`
	SHA256      string        `json:"sha256,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// RecentRuns folds every stored event into run summaries, newest first,
// keeping at most limit entries (0 means no limit).
func RecentRuns(ctx context.Context, store Store, limit int) ([]*RunSummary, error) {
	events, err := store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return nil, err
	}

	runs := make(map[string]*RunSummary)
	var order []*RunSummary
	for _, e := range events {
		s, ok := runs[e.RunID()]
		if !ok {
			s = &RunSummary{RunID: e.RunID(), Status: runStatusRunning, StartedAt: e.Timestamp()}
			runs[e.RunID()] = s
			order = append(order, s)
		}
		apply(s, e)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].StartedAt.After(order[j].StartedAt)
	})
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order, nil
}

func apply(s *RunSummary, e Event) {
	switch e.Type() {
	case TypeRunStarted:
		var d RunStartedData
		if decodeOrWarn(e, &d) {
			s.StartedAt = e.Timestamp()
			s.Revision = d.Revision
			s.Trigger = d.Trigger
		}
	case TypeBuildFinished:
		var d BuildFinishedData
		if decodeOrWarn(e, &d) {
			code := d.ExitCode
			s.ExitCode = &code
		}
	case TypeCopyFinished:
		var d CopyFinishedData
		if decodeOrWarn(e, &d) {
			s.Destination = d.Destination
			s.Bytes = d.Bytes
			s.SHA256 = d.SHA256
		}
	case TypeRunFinished:
		var d RunFinishedData
		if decodeOrWarn(e, &d) {
			finished := e.Timestamp()
			s.FinishedAt = &finished
			s.Status = d.Outcome
			s.Error = d.Error
			s.Duration = time.Duration(d.DurationMS) * time.Millisecond
		}
	}
}

func decodeOrWarn(e Event, out any) bool {
	if err := Decode(e, out); err != nil {
		slog.Warn("Skipping undecodable history event", "run_id", e.RunID(), "type", e.Type(), "error", err)
		return false
	}
	return true
}

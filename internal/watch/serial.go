package watch

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/buildnative/internal/logfields"
)

// RunFunc performs one launch. trigger describes what caused it.
type RunFunc func(ctx context.Context, trigger string) error

// Serial executes RunFunc calls one at a time. Triggers arriving while a run
// is in progress are coalesced into at most one follow-up run.
type Serial struct {
	run     RunFunc
	pending chan struct{}

	mu          sync.Mutex
	lastTrigger string
}

// NewSerial creates an executor for run.
func NewSerial(run RunFunc) *Serial {
	return &Serial{run: run, pending: make(chan struct{}, 1)}
}

// Trigger requests a run. It never blocks.
func (s *Serial) Trigger(trigger string) {
	s.mu.Lock()
	s.lastTrigger = trigger
	s.mu.Unlock()

	select {
	case s.pending <- struct{}{}:
	default:
		slog.Debug("Run already pending; coalescing trigger", logfields.Trigger(trigger))
	}
}

// Loop consumes triggers until ctx is done. Run errors are logged and do not
// stop the loop.
func (s *Serial) Loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.pending:
		}

		s.mu.Lock()
		trigger := s.lastTrigger
		s.mu.Unlock()

		if err := s.run(ctx, trigger); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("Triggered run failed", logfields.Trigger(trigger), logfields.Error(err))
		}
	}
}

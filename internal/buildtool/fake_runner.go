package buildtool

import (
	"context"
	"fmt"
	"sync"
)

// FakeRunner is an in-memory Runner for tests. It records every invocation
// and returns ExitCode without spawning a process.
type FakeRunner struct {
	mu          sync.Mutex
	invocations []Invocation

	// ExitCode is returned in every Result.
	ExitCode int
	// Missing makes Resolve and Run fail with ErrToolNotFound.
	Missing bool
	// OnRun, when set, runs before the result is returned; use it to
	// produce the artifact a real build would leave behind.
	OnRun func(inv Invocation) error
}

func (f *FakeRunner) Resolve(tool string) (string, error) {
	if f.Missing {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}
	return "/usr/bin/" + tool, nil
}

func (f *FakeRunner) Run(_ context.Context, inv Invocation) (Result, error) {
	if _, err := f.Resolve(inv.Tool); err != nil {
		return Result{ExitCode: -1}, err
	}
	f.mu.Lock()
	f.invocations = append(f.invocations, inv)
	f.mu.Unlock()

	if f.OnRun != nil {
		if err := f.OnRun(inv); err != nil {
			return Result{ExitCode: -1}, err
		}
	}
	return Result{ExitCode: f.ExitCode}, nil
}

// Invocations returns a copy of the recorded invocations.
func (f *FakeRunner) Invocations() []Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Invocation(nil), f.invocations...)
}

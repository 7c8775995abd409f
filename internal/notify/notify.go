// Package notify publishes launcher run outcomes to NATS so downstream
// tooling (a host project test runner, a dashboard) can react to new builds.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// RunEvent is the message published after every run.
type RunEvent struct {
	RunID       string    `json:"run_id"`
	Outcome     string    `json:"outcome"`
	ExitCode    int       `json:"exit_code"`
	Destination string    `json:"destination,omitempty"`
	SHA256      string    `json:"sha256,omitempty"`
	Revision    string    `json:"revision,omitempty"`
	Error       string    `json:"error,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Notifier delivers run events.
type Notifier interface {
	Notify(ctx context.Context, ev RunEvent) error
	Close() error
}

// Noop discards events.
type Noop struct{}

func (Noop) Notify(context.Context, RunEvent) error { return nil }
func (Noop) Close() error                           { return nil }

// publisher is the subset of *nats.Conn used by NATSNotifier.
type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSNotifier publishes run events as JSON on a core NATS subject.
type NATSNotifier struct {
	conn    publisher
	subject string
}

// NewNATSNotifier connects to url and publishes on subject.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	if subject == "" {
		return nil, fmt.Errorf("notify subject is required")
	}
	conn, err := nats.Connect(url,
		nats.Name("buildnative"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS notifier connected", "url", url, "subject", subject)
	return &NATSNotifier{conn: conn, subject: subject}, nil
}

// Notify publishes ev and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Notify(ctx context.Context, ev RunEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := n.conn.FlushWithContext(flushCtx); err != nil {
		return fmt.Errorf("failed to flush run event: %w", err)
	}

	slog.Debug("Published run event", "subject", n.subject, "run_id", ev.RunID, "outcome", ev.Outcome)
	return nil
}

func (n *NATSNotifier) Close() error {
	n.conn.Close()
	return nil
}

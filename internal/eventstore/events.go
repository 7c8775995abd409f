package eventstore

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event type names.
const (
	TypeRunStarted    = "RunStarted"
	TypeBuildFinished = "BuildFinished"
	TypeCopyFinished  = "CopyFinished"
	TypeRunFinished   = "RunFinished"
)

// RunStartedData is the payload of a RunStarted event.
type RunStartedData struct {
	Root           string `json:"root"`
	BuildDir       string `json:"build_dir"`
	SourceArtifact string `json:"source_artifact"`
	DestDir        string `json:"dest_dir"`
	Policy         string `json:"policy"`
	Revision       string `json:"revision,omitempty"`
	Trigger        string `json:"trigger,omitempty"`
}

// BuildFinishedData is the payload of a BuildFinished event.
type BuildFinishedData struct {
	Tool       string   `json:"tool"`
	Args       []string `json:"args"`
	ExitCode   int      `json:"exit_code"`
	DurationMS int64    `json:"duration_ms"`
}

// CopyFinishedData is the payload of a CopyFinished event.
type CopyFinishedData struct {
	Destination string `json:"destination"`
	Bytes       int64  `json:"bytes"`
	SHA256      string `json:"sha256"`
	DurationMS  int64  `json:"duration_ms"`
}

// RunFinishedData is the payload of a RunFinished event.
type RunFinishedData struct {
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// NewEvent builds an event of eventType for runID with data marshaled as its JSON payload.
func NewEvent(runID, eventType string, at time.Time, data any) (*BaseEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload for run %s: %w", eventType, runID, err)
	}
	return &BaseEvent{
		EventRunID:     runID,
		EventType:      eventType,
		EventTimestamp: at,
		EventPayload:   payload,
	}, nil
}

// Decode unmarshals an event payload into out.
func Decode(e Event, out any) error {
	if err := json.Unmarshal(e.Payload(), out); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", e.Type(), err)
	}
	return nil
}

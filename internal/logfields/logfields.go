package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyTool       = "tool"
	KeyArgs       = "args"
	KeyDir        = "dir"
	KeyPath       = "path"
	KeyExitCode   = "exit_code"
	KeyBytes      = "bytes"
	KeyOutcome    = "outcome"
	KeyRevision   = "revision"
	KeyTrigger    = "trigger"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Tool(t string) slog.Attr         { return slog.String(KeyTool, t) }
func Args(a []string) slog.Attr       { return slog.Any(KeyArgs, a) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func ExitCode(c int) slog.Attr        { return slog.Int(KeyExitCode, c) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Revision(r string) slog.Attr     { return slog.String(KeyRevision, r) }
func Trigger(t string) slog.Attr      { return slog.String(KeyTrigger, t) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

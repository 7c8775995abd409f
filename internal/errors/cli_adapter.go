package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		stderr:  os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if e, ok := As(err); ok {
		return a.exitCodeFromCategory(e.Category)
	}

	return 1
}

// exitCodeFromCategory maps error categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCategory(category ErrorCategory) int {
	switch category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryTool:
		return 3
	case CategoryPath:
		return 4
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryInternal:
		return 10 // Internal error
	case CategoryBuild:
		return 11
	case CategoryCopy, CategoryFileSystem:
		return 12
	case CategoryRuntime:
		return 13
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if e, ok := As(err); ok {
		return a.format(e)
	}

	return fmt.Sprintf("Error: %v", err)
}

func (a *CLIErrorAdapter) format(err *Error) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig:
		return err.Message
	case CategoryValidation:
		field, hasField := err.Context["field"]
		reason, hasReason := err.Context["reason"]
		switch {
		case hasField && hasReason:
			return fmt.Sprintf("%s: %v: %v", err.Message, field, reason)
		case hasField:
			return fmt.Sprintf("%s: %v", err.Message, field)
		default:
			return err.Message
		}
	case CategoryPath:
		if p, ok := err.Context["path"]; ok {
			return fmt.Sprintf("%s: %s: %v", err.Category, err.Message, p)
		}
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	_, _ = fmt.Fprintf(a.stderr, "%s\n", message)
	a.exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if e, ok := As(err); ok {
		return e.Category == CategoryInternal ||
			e.Category == CategoryRuntime ||
			e.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if e, ok := As(err); ok {
		attrs := []slog.Attr{
			slog.String("category", string(e.Category)),
		}
		for k, v := range e.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if e.Cause != nil {
			attrs = append(attrs, slog.String("error", e.Cause.Error()))
		}

		a.logger.LogAttrs(context.Background(), slogLevel(e.Severity), e.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

func slogLevel(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

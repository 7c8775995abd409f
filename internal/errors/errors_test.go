package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestError_WithContext(t *testing.T) {
	err := New(CategoryPath, SeverityFatal, "dest_dir not found").
		WithContext("role", "dest_dir").
		WithContext("path", "/tmp/x")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["role"] != "dest_dir" {
		t.Errorf("Context[role] = %v, want dest_dir", err.Context["role"])
	}
	if err.Context["path"] != "/tmp/x" {
		t.Errorf("Context[path] = %v, want /tmp/x", err.Context["path"])
	}
}

func TestIsCategory(t *testing.T) {
	toolErr := ToolNotFound("cmake", fmt.Errorf("not on PATH"))
	wrapped := fmt.Errorf("run: %w", PathMissing("build_dir", "/nope", nil))
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"tool error matches tool category", toolErr, CategoryTool, true},
		{"tool error doesn't match build category", toolErr, CategoryBuild, false},
		{"wrapped path error is found through the chain", wrapped, CategoryPath, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory(plain) = %v, want internal", got)
	}
	if got := GetCategory(BuildFailed(2, nil)); got != CategoryBuild {
		t.Errorf("GetCategory(BuildFailed) = %v, want build", got)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/path/to/buildnative.yaml")
		if err.Category != CategoryConfig {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfig)
		}
		if err.Severity != SeverityFatal {
			t.Errorf("Severity = %v, want %v", err.Severity, SeverityFatal)
		}
		if err.Context["path"] != "/path/to/buildnative.yaml" {
			t.Errorf("Context[path] = %v", err.Context["path"])
		}
	})

	t.Run("PathMissing", func(t *testing.T) {
		cause := fmt.Errorf("stat: no such file")
		err := PathMissing("source_artifact", "/a/lib.so", cause)
		if err.Message != "source_artifact not found" {
			t.Errorf("Message = %q", err.Message)
		}
		if !stdErrors.Is(err, cause) {
			t.Errorf("cause should be reachable through Unwrap")
		}
	})

	t.Run("BuildFailed", func(t *testing.T) {
		err := BuildFailed(2, nil)
		if err.Context["exit_code"] != 2 {
			t.Errorf("Context[exit_code] = %v, want 2", err.Context["exit_code"])
		}
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed("build.jobs", "must be at least 1")
		if err.Category != CategoryValidation {
			t.Errorf("Category = %v, want %v", err.Category, CategoryValidation)
		}
		if err.Context["field"] != "build.jobs" {
			t.Errorf("Context[field] = %v, want build.jobs", err.Context["field"])
		}
	})
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", fmt.Errorf("boom"), 1},
		{"validation", ValidationFailed("x", "y"), 2},
		{"tool", ToolNotFound("cmake", nil), 3},
		{"path", PathMissing("dest_dir", "/x", nil), 4},
		{"config", ConfigNotFound("/c.yaml"), 7},
		{"internal", InternalError("oops", nil), 10},
		{"build", BuildFailed(1, nil), 11},
		{"copy", CopyFailed("/a", "/b", nil), 12},
		{"wrapped copy", fmt.Errorf("launch: %w", CopyFailed("/a", "/b", nil)), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logBuf, errBuf bytes.Buffer
	a := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logBuf, nil)))
	a.stderr = &errBuf
	code := -1
	a.exit = func(c int) { code = c }

	a.HandleError(PathMissing("dest_dir", "/out/net5.0", fmt.Errorf("no such file or directory")))

	if code != 4 {
		t.Fatalf("exit code = %d, want 4", code)
	}
	if !strings.Contains(errBuf.String(), "path: dest_dir not found: /out/net5.0") {
		t.Errorf("unexpected stderr: %q", errBuf.String())
	}
	if !strings.Contains(logBuf.String(), "category=path") {
		t.Errorf("expected fatal error to be logged, got %q", logBuf.String())
	}
}

func TestCLIErrorAdapter_FormatVerbose(t *testing.T) {
	a := NewCLIErrorAdapter(true, nil)
	err := ConfigNotFound("/c.yaml")
	if got := a.FormatError(err); got != err.Error() {
		t.Errorf("verbose FormatError = %q, want %q", got, err.Error())
	}
	if got := NewCLIErrorAdapter(false, nil).FormatError(err); got != "configuration file not found" {
		t.Errorf("FormatError = %q", got)
	}
}

func TestCLIErrorAdapter_FormatValidation(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	got := a.FormatError(ValidationFailed("build.jobs", "must be at least 1, got -3"))
	want := "validation failed: build.jobs: must be at least 1, got -3"
	if got != want {
		t.Errorf("FormatError = %q, want %q", got, want)
	}

	bare := New(CategoryValidation, SeverityFatal, "invalid build invocation")
	if got := a.FormatError(bare); got != "invalid build invocation" {
		t.Errorf("FormatError(no context) = %q", got)
	}
}

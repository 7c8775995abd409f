package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *Error {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *Error {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *Error {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Launch step errors

func ToolNotFound(tool string, cause error) *Error {
	return Wrap(cause, CategoryTool, SeverityFatal, "build tool not found").
		WithContext("tool", tool)
}

// PathMissing reports that one of the derived layout paths does not exist.
// role names the path: build_dir, source_artifact or dest_dir.
func PathMissing(role, path string, cause error) *Error {
	return Wrap(cause, CategoryPath, SeverityFatal, role+" not found").
		WithContext("role", role).
		WithContext("path", path)
}

func BuildFailed(exitCode int, cause error) *Error {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build tool exited with failure").
		WithContext("exit_code", exitCode)
}

func CopyFailed(src, destDir string, cause error) *Error {
	return Wrap(cause, CategoryCopy, SeverityFatal, "artifact copy failed").
		WithContext("source", src).
		WithContext("destination", destDir)
}

// Internal errors

func InternalError(message string, cause error) *Error {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}

package cli

import (
	"errors"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/runner"
)

// Exit codes for codeblock.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitValidationErrors indicates validation completed but found errors.
	ExitValidationErrors = 1

	// ExitValidationWarnings indicates validation found warnings (in strict mode).
	ExitValidationWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates invalid configuration or input that cannot be
	// parsed or repaired.
	ExitDataError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrValidationFailed is returned when validation finds issues that fail the run.
var ErrValidationFailed = errors.New("validation failed")

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// withCode wraps err with an exit code. A nil err stays nil.
func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
// Errors without an explicit code are internal errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInternalError
}

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.IssuesBySeverity[config.SeverityError] > 0 {
		return ExitValidationErrors
	}
	if strict && result.Stats.IssuesBySeverity[config.SeverityWarning] > 0 {
		return ExitValidationWarnings
	}
	if result.Stats.FilesErrored > 0 {
		return ExitIOError
	}
	return ExitSuccess
}

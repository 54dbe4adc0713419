package errors

import (
	"errors"
	"fmt"
)

// RequirementMissingError reports that an external tool a step depends on is
// not present on the search path. It is an expected condition: the step is
// skipped, never failed.
type RequirementMissingError struct {
	Name string
}

// NewRequirementMissing constructs a RequirementMissingError.
func NewRequirementMissing(name string) error {
	return &RequirementMissingError{Name: name}
}

func (e *RequirementMissingError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("required tool %q not found", e.Name)
}

// SkipError marks a step as not applicable for reasons other than a missing
// tool, e.g. a plugin manager's directory does not exist.
type SkipError struct {
	Reason string
}

// NewSkip constructs a SkipError.
func NewSkip(reason string) error {
	return &SkipError{Reason: reason}
}

func (e *SkipError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("skipped: %s", e.Reason)
}

// ExitCodeError reports a process that ran to completion with a nonzero exit
// status. Accepted is set when the caller declared the code acceptable; the
// runner classifies such errors as ignored rather than failed.
type ExitCodeError struct {
	Command  string
	Code     int
	Accepted bool
}

// NewExitCode constructs an ExitCodeError for an unexpected status.
func NewExitCode(command string, code int) error {
	return &ExitCodeError{Command: command, Code: code}
}

// NewAcceptedExitCode constructs an ExitCodeError for a status the caller
// declared acceptable.
func NewAcceptedExitCode(command string, code int) error {
	return &ExitCodeError{Command: command, Code: code, Accepted: true}
}

func (e *ExitCodeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("`%s` exited with status %d", e.Command, e.Code)
}

// SpawnError reports that a process could not be launched at all (binary
// vanished between lookup and exec, permission denied, fork failure).
type SpawnError struct {
	Command string
	Err     error
}

// NewSpawn constructs a SpawnError.
func NewSpawn(command string, err error) error {
	return &SpawnError{Command: command, Err: err}
}

func (e *SpawnError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("failed to launch `%s`: %v", e.Command, e.Err)
}

// Unwrap exposes the underlying launch error.
func (e *SpawnError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsSkip reports whether err marks a step as not applicable, either because a
// required tool is absent or because the step declared itself inapplicable.
func IsSkip(err error) bool {
	var missing *RequirementMissingError
	if errors.As(err, &missing) {
		return true
	}
	var skip *SkipError
	return errors.As(err, &skip)
}

// SkipReason returns the human-readable reason behind a skip classification.
func SkipReason(err error) string {
	var missing *RequirementMissingError
	if errors.As(err, &missing) {
		return fmt.Sprintf("%s is not installed", missing.Name)
	}
	var skip *SkipError
	if errors.As(err, &skip) {
		return skip.Reason
	}
	return err.Error()
}

// IsIgnored reports whether err is a nonzero exit the caller declared
// acceptable.
func IsIgnored(err error) bool {
	var exit *ExitCodeError
	return errors.As(err, &exit) && exit.Accepted
}

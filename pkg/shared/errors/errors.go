package errors

import (
	"fmt"
)

const (
	ExitCodeSuccess = 0
	ExitCodeFailure = 1
)

// Custom error type for not implemented errors
type NotImplementedError struct {
	MethodName string
	PluginName string
}

// Implement the error interface for NotImplementedError
func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("method %q is not implemented for %q", e.MethodName, e.PluginName)
}

// Constructor for NotImplementedError
func NewNotImplementedError(methodName, pluginName string) error {
	return &NotImplementedError{
		MethodName: methodName,
		PluginName: pluginName,
	}
}

// CommandError represents a command outcome that must terminate the process with ExitCode.
// An empty CommonError means the command already reported everything it had to say.
type CommandError struct {
	ExitCode    int
	CommonError string
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	if e.CommonError == "" {
		return fmt.Sprintf("exit status %d", e.ExitCode)
	}
	return e.CommonError
}

// NewCommandError creates a new CommandError from err with the given exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
	}
}

// NewSilentCommandError creates a CommandError that carries only an exit code.
func NewSilentCommandError(code int) *CommandError {
	return &CommandError{ExitCode: code}
}

// Silent reports whether the error has no message of its own to print.
func (e *CommandError) Silent() bool {
	return e.CommonError == ""
}

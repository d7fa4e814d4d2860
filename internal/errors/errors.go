package errors

import (
	"fmt"
	"os"

	"github.com/julianstephens/dosely/internal/logger"
)

// Exit codes returned by the CLI for each error kind
const (
	ExitFailure    = 1
	ExitValidation = 2
	ExitNotFound   = 3
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Warning formats a non-blocking problem, such as a reminder that could not be scheduled.
func Warning(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Warning: %v", err)
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsValidation(err):
		return ExitValidation
	case IsNotFound(err):
		return ExitNotFound
	default:
		return ExitFailure
	}
}

// Fatal logs an error and exits the program with the code for its kind
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}

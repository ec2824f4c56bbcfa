package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/dfw/internal/logger"
)

var (
	// ErrNotFound is returned when an update or get targets a key that does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when a decision is inserted with an id that already exists
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrBackendUnavailable is raised while selecting a storage backend.
	// The selector absorbs it by falling back; it never reaches store callers.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	// ErrNotLoaded is returned by store operations before Open or after Close
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrInvalidArgument is returned for arguments that can never be valid, such as a negative day count
	ErrInvalidArgument = errors.New("invalid argument")
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

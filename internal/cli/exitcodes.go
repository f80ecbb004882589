package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thenoetrevino/listboard/internal/auth"
	"github.com/thenoetrevino/listboard/internal/board"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, network errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing arguments, or running a board command while
	// signed out.
	ExitUsage = 2

	// ExitNotFound indicates a requested column, task or comment was not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Malformed JSON from a remote board, or input that cannot be read.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty or duplicate column titles, empty tasks, weak
	// passwords, or deleting a default column.
	ExitValidation = 5
)

// ExitError carries the process exit code for a failed command
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

// ExitCode returns the exit code for err. Errors that were not classified
// by a command exit with ExitError.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}

// classify maps a domain error to an error code and exit code
func classify(err error) (string, int) {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, auth.ErrNotSignedIn):
		return "NOT_SIGNED_IN", ExitUsage
	case errors.Is(err, auth.ErrInvalidCredential), errors.Is(err, auth.ErrInvalidToken):
		return "INVALID_CREDENTIAL", ExitError
	case errors.Is(err, auth.ErrUnsupported):
		return "UNSUPPORTED", ExitUsage
	case board.IsNotFound(err):
		return "NOT_FOUND", ExitNotFound
	case errors.Is(err, board.ErrDefaultColumn):
		return "DEFAULT_COLUMN", ExitValidation
	case errors.Is(err, ErrAmbiguous), errors.Is(err, auth.ErrEmailInUse),
		board.IsValidation(err), auth.IsValidation(err):
		return "VALIDATION_ERROR", ExitValidation
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return "DATA_ERROR", ExitDataErr
	default:
		return "ERROR", ExitError
	}
}

// Fail reports err through the formatter and returns it with its exit code
func Fail(f *OutputFormatter, err error) error {
	code, exit := classify(err)

	var suggestion string
	if errors.Is(err, auth.ErrNotSignedIn) {
		suggestion = "run 'listboard login' or 'listboard register' first"
	}
	msg := auth.Message(err)
	if msg == "" {
		msg = err.Error()
	}
	if fmtErr := f.ErrorWithSuggestion(code, msg, suggestion); fmtErr != nil {
		return fmt.Errorf("failed to report error %w: %v", err, fmtErr)
	}
	return &ExitError{Code: exit, Err: err}
}

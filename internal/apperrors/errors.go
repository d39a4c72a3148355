// Package apperrors defines the failure kinds of an analysis request and
// the exit codes the gradi binary reports for them.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Exit codes returned by the gradi binary.
const (
	ExitSuccess          = 0
	ExitErrorGeneric     = 1
	ExitErrorTransport   = 2 // no response, including timeouts
	ExitErrorApplication = 3 // the service answered with a failure
	ExitErrorConfig      = 4
	ExitErrorCanceled    = 130
)

// User-facing messages fixed by the client contract.
const (
	NetworkErrorMessage   = "Network error - please check your connection and try again"
	AnalysisFailedMessage = "Analysis failed"
	MissingDataMessage    = "Analysis returned no data"
	unexpectedPrefix      = "Analysis error"
)

// ErrEmptyRatings is returned when an overall score is requested for a
// result without any rating categories.
var ErrEmptyRatings = errors.New("analysis contains no rating categories")

// ErrURLRequired is returned by callers that need a URL and got none.
var ErrURLRequired = errors.New("a YouTube URL is required")

// ApplicationError means the service answered, but reported a failure or
// returned an unusable success payload. Status is the HTTP status code.
type ApplicationError struct {
	Status  int
	Message string
}

func (e *ApplicationError) Error() string { return e.Message }

// TransportError means no response was received at all: connection
// failures and timeouts.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return NetworkErrorMessage }

func (e *TransportError) Unwrap() error { return e.Cause }

// UnexpectedError covers every other failure during a call.
type UnexpectedError struct {
	Cause error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: %v", unexpectedPrefix, e.Cause)
}

func (e *UnexpectedError) Unwrap() error { return e.Cause }

// ConfigError reports invalid or missing configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// UserMessage returns the single message shown for err. Errors outside the
// known kinds are wrapped the way UnexpectedError is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *ApplicationError
	var transportErr *TransportError
	var unexpectedErr *UnexpectedError
	switch {
	case errors.As(err, &appErr):
		return appErr.Error()
	case errors.As(err, &transportErr):
		return transportErr.Error()
	case errors.As(err, &unexpectedErr):
		return unexpectedErr.Error()
	case errors.Is(err, ErrEmptyRatings):
		return ErrEmptyRatings.Error()
	}
	return (&UnexpectedError{Cause: err}).Error()
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cfgErr ConfigError
	var appErr *ApplicationError
	var transportErr *TransportError
	switch {
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.As(err, &transportErr):
		return ExitErrorTransport
	case errors.As(err, &appErr), errors.Is(err, ErrEmptyRatings):
		return ExitErrorApplication
	}
	return ExitErrorGeneric
}

// IsContextError reports whether err is a context cancellation or deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Classify sorts a request failure into one of the kinds above. Errors that
// already carry a kind pass through. net/http reports "no response
// received" as *url.Error; everything else is unexpected.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var appErr *ApplicationError
	var transportErr *TransportError
	var unexpectedErr *UnexpectedError
	var urlErr *url.Error
	switch {
	case errors.As(err, &appErr), errors.As(err, &transportErr), errors.As(err, &unexpectedErr):
		return err
	case errors.As(err, &urlErr), IsContextError(err):
		return &TransportError{Cause: err}
	}
	return &UnexpectedError{Cause: err}
}

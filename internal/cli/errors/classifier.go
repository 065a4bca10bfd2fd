package errors

import (
	"strings"
)

type ErrorKind string

const (
	ErrorKindAuth     ErrorKind = "auth"
	ErrorKindOffline  ErrorKind = "offline"
	ErrorKindHTTP     ErrorKind = "http"
	ErrorKindCLIExit  ErrorKind = "cli-exit"
	ErrorKindNotFound ErrorKind = "not-found"
	ErrorKindOther    ErrorKind = "other"
)

type ClassifiedError struct {
	Kind    ErrorKind
	Message string
	Hint    string // User-friendly suggestion
	Raw     error
}

func (e ClassifiedError) Error() string {
	return e.Message
}

func Classify(err error) ClassifiedError {
	if err == nil {
		return ClassifiedError{}
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "missing_config"):
		return ClassifiedError{
			Kind:    ErrorKindAuth,
			Message: err.Error(),
			Hint:    "Check the credential environment variables for this server (see its manifest)",
			Raw:     err,
		}
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "timeout") || strings.Contains(msg, "no such host") || strings.Contains(msg, "econnrefused"):
		return ClassifiedError{
			Kind:    ErrorKindOffline,
			Message: err.Error(),
			Hint:    "Is the toolhub server running? Try 'toolhub-cli status' or start it with 'toolhub'",
			Raw:     err,
		}
	case strings.Contains(msg, "404") || strings.Contains(msg, "not found") || strings.Contains(msg, "unknown server") || strings.Contains(msg, "unknown tool"):
		return ClassifiedError{
			Kind:    ErrorKindNotFound,
			Message: err.Error(),
			Hint:    "The requested resource was not found. Check the server or tool name with 'toolhub-cli servers'.",
			Raw:     err,
		}
	case strings.Contains(msg, "exit status") || strings.Contains(msg, "signal:"):
		return ClassifiedError{
			Kind:    ErrorKindCLIExit,
			Message: err.Error(),
			Hint:    "The wrapped CLI command exited unexpectedly. Check that the underlying tool is installed.",
			Raw:     err,
		}
	case strings.Contains(msg, "http"):
		return ClassifiedError{
			Kind:    ErrorKindHTTP,
			Message: err.Error(),
			Hint:    "An HTTP error occurred during communication with the server.",
			Raw:     err,
		}
	default:
		return ClassifiedError{
			Kind:    ErrorKindOther,
			Message: err.Error(),
			Hint:    "An unexpected error occurred.",
			Raw:     err,
		}
	}
}

package contentstack

import (
	"errors"
	"fmt"
	"time"
)

// Error type constants used in RequestError.Type. They partition failures the
// way the retry policy needs: timeout / connection failures and server-class
// statuses are transient, everything else is terminal.
const (
	ErrorTypeTimeout       = "Timeout"
	ErrorTypeConnection    = "Connection"
	ErrorTypeProtocol      = "Protocol"
	ErrorTypeServer        = "Server"
	ErrorTypeClient        = "Client"
	ErrorTypeSerialization = "Serialization"
	ErrorTypeValidation    = "Validation"
	ErrorTypeClosed        = "Closed"
)

// Sentinel errors for common failure scenarios
var (
	// ErrClientClosed is returned when a call is attempted after Close.
	ErrClientClosed = errors.New("contentstack: client closed")

	// ErrResponseTooLarge is returned when a response body exceeds the
	// configured buffer limit.
	ErrResponseTooLarge = errors.New("contentstack: response body exceeds configured limit")
)

// RequestError carries the failure taxonomy plus enough request context to
// diagnose one pipeline invocation.
type RequestError struct {
	Type       string
	Message    string
	Cause      error
	StatusCode int
	ErrorCode  int
	RequestID  string
	Method     string
	URL        string
	Attempt    int
	MaxRetries int
	Timestamp  time.Time
	Duration   time.Duration
}

// Error implements error interface.
func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Attempt > 1 {
		msg = fmt.Sprintf("%s (attempt %d/%d)", msg, e.Attempt, e.MaxRetries+1)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *RequestError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*RequestError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// IsRetriable reports whether err represents a failure that might succeed on
// retry: connection failures, request timeouts, and server-class statuses
// used for overload (429, 5xx). Client-class statuses, serialization and
// validation failures, and calls on a closed client are terminal.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.Type {
		case ErrorTypeTimeout, ErrorTypeConnection, ErrorTypeServer:
			return true
		default:
			return false
		}
	}

	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *RequestError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if e.ErrorCode > 0 {
		info += fmt.Sprintf("Error Code: %d\n", e.ErrorCode)
	}
	if e.Attempt > 0 {
		info += fmt.Sprintf("Attempt: %d/%d\n", e.Attempt, e.MaxRetries+1)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

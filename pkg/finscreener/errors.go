package finscreener

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingAPIKey is returned when a client is constructed without an API key
	ErrMissingAPIKey = errors.New("missing finscreener api key")

	// ErrInvalidAPIKey is returned when the login endpoint rejects the API key.
	// This is terminal until an operator supplies a new key.
	ErrInvalidAPIKey = errors.New("finscreener api key was rejected")

	// ErrAuthUnavailable is returned when the token exchange fails for
	// transport reasons and may be retried
	ErrAuthUnavailable = errors.New("token exchange failed")

	// ErrBadDescriptor is returned when the endpoint descriptor table is malformed
	ErrBadDescriptor = errors.New("invalid endpoint descriptor")

	// ErrMissingPathParam is returned when a path template placeholder has no bound value
	ErrMissingPathParam = errors.New("missing path parameter")
)

// ErrorKind classifies a failed call for the agent-facing surface.
type ErrorKind string

// Error kinds surfaced to callers of Invoke.
const (
	KindUnknownTool   ErrorKind = "UnknownTool"
	KindInvalidKey    ErrorKind = "InvalidKey"
	KindQuotaExceeded ErrorKind = "QuotaExceeded"
	KindTimeout       ErrorKind = "Timeout"
	KindNetworkError  ErrorKind = "NetworkError"
	KindFatal         ErrorKind = "Fatal"
)

// CallError is the classified error returned by Invoke. Status and Body are
// only set for Fatal errors and carry the remote response for diagnostics;
// RetryAfter is only set for QuotaExceeded.
type CallError struct {
	Kind       ErrorKind
	Message    string
	Status     int
	Body       []byte
	RetryAfter time.Time
}

func (e *CallError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

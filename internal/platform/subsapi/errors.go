package subsapi

import (
	"errors"
	"fmt"
)

// NetworkError means the backend could not be reached or answered with
// something that is not a well-formed envelope. Callers use it to show
// "system unavailable" messaging distinct from a backend rejection.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("subscription api: %s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError means the backend answered with a well-formed envelope whose
// success flag is false. Message carries the backend-supplied reason and is
// safe to surface to the user.
type APIError struct {
	Op      string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("subscription api: %s: %s", e.Op, e.Message)
}

// IsNetworkError reports whether err is (or wraps) a transport-level failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsAPIError reports whether err is (or wraps) a backend rejection.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// UserMessage extracts the backend-supplied message from a backend rejection,
// or falls back to the given default for any other failure.
func UserMessage(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

package apiclient

import (
	"errors"
	"fmt"
)

// Error is returned by every Client call that fails. Message is what should be
// shown to the user: the server's own message when it sent one, otherwise a
// localized generic text.
type Error struct {
	StatusCode int
	Type       string
	Message    string
	// Transport is true when no HTTP response was received.
	Transport bool
	Err       error
}

func (e *Error) Error() string {
	if e.Transport {
		return fmt.Sprintf("transport error: %s", e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage extracts the user-facing message from err.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

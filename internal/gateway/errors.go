package gateway

import (
	"errors"
	"fmt"
)

// unreadableBody stands in for an error body that could not be read
const unreadableBody = "unknown error"

// genericFailure is the message shown when no response was received
const genericFailure = "request failed"

// Error is the single failure type returned by Call.
// StatusCode is 0 when the request never got a response.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, genericFailure, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, genericFailure)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the request failed without any response
func (e *Error) IsTransport() bool {
	return e.StatusCode == 0
}

// Message is the short human-readable form shown to users
func (e *Error) Message() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
	}
	return genericFailure
}

// UserMessage turns any request error into the text a session records
func UserMessage(err error) string {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Message()
	}
	return genericFailure
}

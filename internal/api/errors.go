package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches failures where no usable response was obtained.
	ErrNetwork = errors.New("network failure")
	// ErrRejected matches responses that arrived but report failure.
	ErrRejected = errors.New("server rejected request")
)

// NetworkError means the request could not be sent or the response could not be parsed.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// RejectionError means the server answered with a non-2xx status or success=false.
type RejectionError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	msg := fmt.Sprintf("%s: rejected with status %d", e.Op, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *RejectionError) Is(target error) bool { return target == ErrRejected }

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is any call that was made but produced no usable success
// response: connection failure, timeout, non-2xx status, or a malformed
// body. Status is 0 when no HTTP response was received at all.
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassUnauthenticated
)

func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	if errors.Is(err, ErrUnauthenticated) {
		return ErrorClassUnauthenticated
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		switch {
		case remoteErr.Status == 0:
			return ErrorClassTransient
		case remoteErr.Status == http.StatusTooManyRequests:
			return ErrorClassTransient
		case remoteErr.Status >= 500:
			return ErrorClassTransient
		}
	}

	return ErrorClassPermanent
}

func IsRetryable(err error) bool {
	return ClassifyError(err) == ErrorClassTransient
}

var (
	// ErrUnauthenticated means the action needs a signed-in user. Surfaced
	// as a prompt to authenticate, never as a fatal error.
	ErrUnauthenticated = errors.New("authentication required")
)

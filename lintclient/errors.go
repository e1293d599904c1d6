package lintclient

import (
	"errors"
	"fmt"
)

// ErrNoNetwork is returned when the client was built without an HTTP client,
// which means the host cannot make network requests at all. It is a
// configuration problem, not an unreachable server.
var ErrNoNetwork = errors.New("This editor host does not provide a network client.")

// InvalidURIError is returned when the lint server address cannot be turned
// into a request.
type InvalidURIError struct {
	URI string
	Err error
}

func (e *InvalidURIError) Error() string {
	return fmt.Sprintf("Lint server URI %q is not valid: %v.", e.URI, e.Err)
}

func (e *InvalidURIError) Unwrap() error { return e.Err }

// UnreachableError is a transport failure: DNS, refused or reset
// connections, timeouts.
type UnreachableError struct {
	URI string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("Lint server at %s could not be reached.", e.URI)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// StatusError is returned for any response that is not 200 OK. Body is the
// raw response text.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Server returned non-OK status code: %d\n%s.", e.StatusCode, e.Body)
}

// MalformedBodyError is returned when a 200 response is not JSON.
type MalformedBodyError struct {
	Err error
}

func (e *MalformedBodyError) Error() string {
	return fmt.Sprintf("Server returned a body that is not JSON: %v.", e.Err)
}

func (e *MalformedBodyError) Unwrap() error { return e.Err }

package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Error is a JSON-RPC error object. Handlers may return errors that wrap one
// of the sentinel values below; the wrapped code is what goes on the wire.
type Error struct {
	Code    int64            `json:"code"`
	Message string           `json:"message"`
	Data    *json.RawMessage `json:"data,omitempty"`
}

// NewError returns an error that will be sent with the given code.
func NewError(code int64, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (err *Error) Error() string {
	return err.Message
}

var (
	// ErrUnknown should be used for all non coded errors.
	ErrUnknown = NewError(-32001, "JSON RPC unknown error")
	// ErrParse is used when invalid JSON was received by the server.
	ErrParse = NewError(-32700, "JSON RPC parse error")
	// ErrInvalidRequest is used when the JSON sent is not a valid Request object.
	ErrInvalidRequest = NewError(-32600, "JSON RPC invalid request")
	// ErrMethodNotFound should be returned by the handler when the method does
	// not exist / is not available.
	ErrMethodNotFound = NewError(-32601, "JSON RPC method not found")
	// ErrInvalidParams should be returned by the handler when method
	// parameter(s) were invalid.
	ErrInvalidParams = NewError(-32602, "JSON RPC invalid params")
	// ErrInternal indicates a failure inside the handler itself.
	ErrInternal = NewError(-32603, "JSON RPC internal error")
	// ErrServerOverloaded is returned when a message was refused due to a
	// server being temporarily unable to accept any new messages.
	ErrServerOverloaded = NewError(-32000, "JSON RPC overloaded")
	// ErrRequestCancelled is returned for a request that was cancelled before
	// it could be handled.
	ErrRequestCancelled = NewError(-32800, "JSON RPC cancelled")
)

// toWireError converts an arbitrary handler error into the object that is
// sent to the peer, keeping the code of any wrapped *Error.
func toWireError(err error) *Error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return &Error{Code: coded.Code, Message: err.Error(), Data: coded.Data}
	}
	return &Error{Code: ErrUnknown.Code, Message: err.Error()}
}

// Handler is invoked to handle incoming requests.
// The Replier sends a reply to the request and must be called exactly once.
type Handler func(ctx context.Context, reply Replier, req Request) error

// Replier is passed to handlers to allow them to reply to the request.
// If err is set then result will be ignored.
type Replier func(ctx context.Context, result any, err error) error

// MethodNotFound is a Handler that replies to all call requests with the
// standard method not found response.
// This should normally be the final handler in a chain.
func MethodNotFound(ctx context.Context, reply Replier, req Request) error {
	return reply(ctx, nil, fmt.Errorf("%w: %q", ErrMethodNotFound, req.Method()))
}

package typ

import (
	"errors"

	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
)

// Error is a validation failure. Path is the trail of field names and array
// indices from the root value to the failing leaf, for example
// "[3].range.start.line".
type Error struct {
	Path   string
	Reason string

	cause error
}

func newError(reason string) *Error {
	return &Error{Reason: reason}
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return e.Path + ": " + e.Reason
}

// Unwrap returns the error a custom assertion failed with, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// chain returns err with segment prepended to its path. Errors that did not
// come from this package are adopted as the leaf reason.
func chain(err error, segment string) *Error {
	contract.Assertf(err != nil, "expected error, got nil while annotating %q", segment)
	var verr *Error
	if !errors.As(err, &verr) {
		return &Error{Path: segment, Reason: err.Error(), cause: err}
	}
	return &Error{Path: segment + verr.Path, Reason: verr.Reason, cause: verr.cause}
}

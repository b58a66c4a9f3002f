package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds. Match them with errors.Is.
var (
	ErrNetwork         = errors.New("catalog unreachable")
	ErrDecode          = errors.New("unexpected catalog response")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// RequestError describes a failed catalog call.
type RequestError struct {
	Op     string // fetch random, fetch user photos, search
	Status int    // HTTP status, zero when no response was received
	Kind   error  // one of the sentinel kinds
	Err    error  // underlying cause, may be nil
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d %s)", e.Status, http.StatusText(e.Status))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidArgument(op, format string, args ...any) error {
	return &RequestError{Op: op, Kind: ErrInvalidArgument, Err: fmt.Errorf(format, args...)}
}

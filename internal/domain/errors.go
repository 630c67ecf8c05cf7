package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTransport          = errors.New("transport error")
	ErrMalformedResponse  = errors.New("malformed response")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrFeedUnavailable    = errors.New("chapter feed unavailable")
	ErrChapterUnavailable = errors.New("chapter unavailable")
	ErrPageFetch          = errors.New("page fetch failed")
	ErrStoreCorrupt       = errors.New("store corrupt")
	ErrStoreWrite         = errors.New("store write failed")
)

// OpError attaches the failing operation and the id it ran against to one of
// the sentinel kinds above. errors.Is matches both Kind and the wrapped cause.
type OpError struct {
	Op   string
	ID   string
	Kind error
	Err  error
}

func NewOpError(op, id string, kind, err error) *OpError {
	return &OpError{Op: op, ID: id, Kind: kind, Err: err}
}

func (e *OpError) Error() string {
	msg := e.Op
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func (e *OpError) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

// Retryable reports whether showing a "try again" action makes sense for err.
// Invalid requests and corrupt stores will fail the same way again.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrStoreCorrupt):
		return false
	}
	return true
}

package upstream

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindUnreachable means no response was received at all.
	KindUnreachable Kind = iota + 1
	// KindRejected means the provider answered with a non-2xx status or success=false.
	KindRejected
	// KindMalformed means a response arrived but did not carry the expected envelope.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindRejected:
		return "rejected"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Status  int
	Code    int
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRejected:
		if e.Message != "" {
			return fmt.Sprintf("upstream rejected request (status %d, code %d): %s", e.Status, e.Code, e.Message)
		}
		return fmt.Sprintf("upstream rejected request (status %d)", e.Status)
	case KindMalformed:
		if e.Err != nil {
			return fmt.Sprintf("malformed upstream response (status %d): %v", e.Status, e.Err)
		}
		return fmt.Sprintf("malformed upstream response (status %d)", e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("upstream unreachable: %v", e.Err)
		}
		return "upstream unreachable"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func AsError(err error) (*Error, bool) {
	var upErr *Error
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

func Unreachable(err error) *Error {
	return &Error{Kind: KindUnreachable, Err: err}
}

func Malformed(status int, err error) *Error {
	return &Error{Kind: KindMalformed, Status: status, Err: err}
}

package feishu

import (
	"errors"
	"fmt"
)

// ErrUnexpectedResponse is returned when a successful response lacks a
// field the workflow depends on.
var ErrUnexpectedResponse = errors.New("unexpected response shape")

// APIError is an application-level failure reported by the platform: any
// response whose code field is non-zero.
type APIError struct {
	Op   string
	Code int
	Msg  string
	Body string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s failed: code=%d msg=%s body=%s", e.Op, e.Code, e.Msg, e.Body)
	}
	return fmt.Sprintf("%s failed: code=%d msg=%s", e.Op, e.Code, e.Msg)
}

func unexpected(op, field string) error {
	return fmt.Errorf("%s: %w: missing %s", op, ErrUnexpectedResponse, field)
}

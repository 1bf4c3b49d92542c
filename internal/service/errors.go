package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the addressed job or reference does not exist.
	// Enrichment recovers from it locally; write paths surface it.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated is returned by write actions without a signed-in user.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUpstreamUnavailable is a store failure affecting a whole batch.
	ErrUpstreamUnavailable = errors.New("upstream store unavailable")

	// ErrDuplicate is returned when a user already bookmarked or applied to a job.
	ErrDuplicate = errors.New("duplicate reference")

	// ErrInvalidInput wraps request values the actions refuse, such as an unknown status.
	ErrInvalidInput = errors.New("invalid input")
)

// UpstreamError carries a message from the remote job API that callers
// may show to users verbatim.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned %d", e.Status)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// UserMessage returns the upstream-provided message in err, or fallback.
func UserMessage(err error, fallback string) string {
	var upErr *UpstreamError
	if errors.As(err, &upErr) && upErr.Message != "" {
		return upErr.Message
	}
	return fallback
}

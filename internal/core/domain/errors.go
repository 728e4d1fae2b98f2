package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBadRequest indicates the caller supplied an unusable query or payload.
	ErrBadRequest = errors.New("domain: bad request")
	// ErrUnauthorized indicates no access token was supplied.
	ErrUnauthorized = errors.New("domain: unauthorized")
	// ErrNotFound indicates the catalog had nothing matching the query.
	ErrNotFound = errors.New("domain: not found")
	// ErrCredentialExpired indicates the catalog rejected the access token.
	// Callers are expected to refresh and retry.
	ErrCredentialExpired = errors.New("domain: credential expired")
	// ErrUpstreamUnavailable indicates a catalog transport or status failure.
	ErrUpstreamUnavailable = errors.New("domain: upstream unavailable")
)

// UpstreamError carries the catalog status that caused a failure.
// A zero Status means the request never produced a response.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": upstream failure"
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is reports a 401 as ErrCredentialExpired and everything else as ErrUpstreamUnavailable.
func (e *UpstreamError) Is(target error) bool {
	if e.Status == http.StatusUnauthorized {
		return target == ErrCredentialExpired
	}
	return target == ErrUpstreamUnavailable
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"errors"
	"fmt"
)

// ErrNoResults matches a *NoResultsError with errors.Is.
var ErrNoResults = errors.New("no results")

// APIError is returned when the backend answers with a non-2xx status.
// Message carries the backend's "error" field and may be empty.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
	Details  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// NoResultsError is returned when the backend answers successfully with an
// empty result list. Message carries the backend's "message" field and may
// be empty.
type NoResultsError struct {
	Endpoint string
	Message  string
}

func (e *NoResultsError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: no results: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("%s: no results", e.Endpoint)
}

// Is reports whether target is ErrNoResults.
func (e *NoResultsError) Is(target error) bool { return target == ErrNoResults }

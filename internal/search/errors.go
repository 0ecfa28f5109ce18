package search

import (
	"context"
	"errors"
)

// ErrInvalidInput marks caller mistakes (identical endpoints, unknown stop
// ids, missing time) that are rejected before or during endpoint resolution.
// Everything else that goes wrong is a data-access failure and is returned
// wrapped but otherwise untouched, so "no data" never masquerades as
// "no service".
var ErrInvalidInput = errors.New("invalid search input")

// IsTimeout reports whether a search failed because the caller's deadline
// expired or the request was cancelled mid-search.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

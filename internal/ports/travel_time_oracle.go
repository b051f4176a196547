package ports

import (
	"context"
	"errors"
)

// ErrRouteUnavailable reports that no travel time exists for a stop pair.
// Callers must treat it as a distinct failure; it is never substituted
// with a default duration.
var ErrRouteUnavailable = errors.New("travel time unavailable")

// Contract for retrieving the travel duration between two stops.
//
// Implementations are keyed by external stop ids. Durations are in the
// same time unit as the problem's windows and service times (seconds in
// the shipped datasets).
type TravelTimeOracle interface {
	// Return the travel duration from one stop to another.
	Duration(ctx context.Context, fromID, toID int64) (float64, error)
}

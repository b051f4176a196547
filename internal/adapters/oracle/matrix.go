package oracle

import (
	"context"
	"fmt"

	"trash-route-solver/internal/ports"
)

// One row of a travel-time matrix file.
type MatrixEntry struct {
	FromID  int64
	ToID    int64
	Seconds float64
}

type pairKey struct{ from, to int64 }

// Matrix answers travel-time lookups from a preloaded matrix. A missing
// pair is a distinct ErrRouteUnavailable failure, never a default value.
type Matrix struct {
	m map[pairKey]float64
}

func NewMatrix(entries []MatrixEntry) *Matrix {
	m := make(map[pairKey]float64, len(entries))
	for _, e := range entries {
		m[pairKey{from: e.FromID, to: e.ToID}] = e.Seconds
	}
	return &Matrix{m: m}
}

// Set stores or replaces a single pair.
func (o *Matrix) Set(fromID, toID int64, seconds float64) {
	o.m[pairKey{from: fromID, to: toID}] = seconds
}

func (o *Matrix) Len() int { return len(o.m) }

func (o *Matrix) Duration(_ context.Context, fromID, toID int64) (float64, error) {
	d, ok := o.m[pairKey{from: fromID, to: toID}]
	if !ok {
		return 0, fmt.Errorf("matrix pair %d -> %d: %w", fromID, toID, ports.ErrRouteUnavailable)
	}
	return d, nil
}

package oracle

import (
	"context"
	"errors"

	"trash-route-solver/internal/ports"
)

// Fallback queries the primary oracle first and falls through to the
// secondary only when the primary has no answer for the pair. Real errors
// from the primary are returned as-is.
type Fallback struct {
	Primary   ports.TravelTimeOracle
	Secondary ports.TravelTimeOracle
}

func NewFallback(primary, secondary ports.TravelTimeOracle) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary}
}

func (f *Fallback) Duration(ctx context.Context, fromID, toID int64) (float64, error) {
	seconds, err := f.Primary.Duration(ctx, fromID, toID)
	if err == nil {
		return seconds, nil
	}
	if !errors.Is(err, ports.ErrRouteUnavailable) || f.Secondary == nil {
		return 0, err
	}
	return f.Secondary.Duration(ctx, fromID, toID)
}

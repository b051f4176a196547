package oracle

import (
	"context"
	"sync"

	"trash-route-solver/internal/ports"
)

// Memo caches pair lookups in front of another oracle for the lifetime of
// a construction or evaluation pass. The insertion search queries the same
// pairs over and over; only the first lookup per pair reaches the backing
// oracle. Failed lookups are not cached, so a transient backend can
// recover.
//
// Safe for concurrent use.
type Memo struct {
	next ports.TravelTimeOracle

	mu sync.RWMutex
	m  map[pairKey]float64
}

func NewMemo(next ports.TravelTimeOracle) *Memo {
	return &Memo{next: next, m: make(map[pairKey]float64)}
}

func (o *Memo) Duration(ctx context.Context, fromID, toID int64) (float64, error) {
	key := pairKey{from: fromID, to: toID}

	o.mu.RLock()
	d, ok := o.m[key]
	o.mu.RUnlock()
	if ok {
		return d, nil
	}

	d, err := o.next.Duration(ctx, fromID, toID)
	if err != nil {
		return 0, err
	}

	o.mu.Lock()
	o.m[key] = d
	o.mu.Unlock()
	return d, nil
}

// Size returns the number of cached pairs.
func (o *Memo) Size() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.m)
}

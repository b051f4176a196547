package domain

import (
	"context"
	"errors"
	"fmt"

	"trash-route-solver/internal/ports"
)

// ErrHeadNotStart reports an evaluation starting at position 0 of a route
// whose head stop is not Start-kind. This is a construction bug, not bad
// user data.
var ErrHeadNotStart = errors.New("trip: head stop must be start-kind")

// Per-occurrence evaluation state, propagated along a trip.
//
// For every position i>0: arrival = pred departure + travel, wait lifts the
// arrival to the window opening, departure adds service. Cargo accumulates
// signed demand, with dump occurrences absorbing the predecessor's cargo.
// Violation counts are cumulative and non-decreasing along the route.
type EvaluationState struct {
	TravelTime    float64
	ArrivalTime   float64
	WaitTime      float64
	DepartureTime float64
	DeltaTime     float64

	Cargo          float64
	TWV            int
	CV             int
	TotTravelTime  float64
	TotWaitTime    float64
	TotServiceTime float64
	DumpVisits     int
}

// HasTWV reports arrival after the stop's closing time.
func (e EvaluationState) HasTWV(s Stop) bool { return s.LateArrival(e.ArrivalTime) }

// HasCV reports cargo outside [0, limit].
func (e EvaluationState) HasCV(limit float64) bool { return e.Cargo > limit || e.Cargo < 0 }

// Feasible reports zero accumulated violations.
func (e EvaluationState) Feasible() bool { return e.TWV == 0 && e.CV == 0 }

// A single vehicle excursion: an ordered sequence of stop occurrences with
// propagated evaluation state. The head is always the vehicle's depot. All
// structural mutators re-propagate state from the earliest changed position;
// state at position k depends only on positions <= k, so the prefix is
// preserved untouched.
//
// A trip is exclusively owned by its vehicle and is not safe for concurrent
// mutation.
type Trip struct {
	seq      *Sequence
	states   []EvaluationState
	capacity float64
	oracle   ports.TravelTimeOracle
}

// NewTrip creates a trip holding only the depot stop, already evaluated.
// The depot must be Start-kind.
func NewTrip(ctx context.Context, depot Stop, capacity float64, oracle ports.TravelTimeOracle) (*Trip, error) {
	t := &Trip{
		seq:      NewSequence(depot),
		states:   make([]EvaluationState, 1),
		capacity: capacity,
		oracle:   oracle,
	}
	if err := t.Evaluate(ctx, 0); err != nil {
		return nil, fmt.Errorf("new trip: %w", err)
	}
	return t, nil
}

func (t *Trip) Len() int              { return t.seq.Len() }
func (t *Trip) Capacity() float64     { return t.capacity }
func (t *Trip) StopAt(pos int) Stop   { return t.seq.At(pos) }
func (t *Trip) Last() EvaluationState { return t.states[len(t.states)-1] }

// StateAt returns the evaluation state of the occurrence at pos.
func (t *Trip) StateAt(pos int) EvaluationState { return t.states[pos] }

// Stops returns a copy of the visited stops in order.
func (t *Trip) Stops() []Stop {
	out := make([]Stop, t.seq.Len())
	for i := range out {
		out[i] = t.seq.At(i)
	}
	return out
}

// Evaluate propagates time, cargo and violation state from position `from`
// to the end of the trip. Only the suffix is recomputed.
func (t *Trip) Evaluate(ctx context.Context, from int) error {
	n := t.seq.Len()
	if n == 0 {
		return nil
	}
	if from >= n {
		from = n - 1
	}
	if from < 0 {
		from = 0
	}

	for i := from; i < n; i++ {
		if i == 0 {
			if err := t.evaluateHead(); err != nil {
				return err
			}
			continue
		}
		if err := t.evaluateAt(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

func (t *Trip) evaluateHead() error {
	head := t.seq.At(0)
	if !head.IsStart() {
		return ErrHeadNotStart
	}

	st := EvaluationState{
		ArrivalTime:    head.Opens,
		DepartureTime:  head.Opens + head.ServiceTime,
		Cargo:          head.Demand,
		TotServiceTime: head.ServiceTime,
	}
	if st.Cargo > t.capacity {
		st.CV = 1
	}
	t.states[0] = st
	return nil
}

func (t *Trip) evaluateAt(ctx context.Context, pos int) error {
	pred := t.seq.At(pos - 1)
	cur := t.seq.At(pos)
	prev := t.states[pos-1]

	travel, err := t.oracle.Duration(ctx, pred.ID, cur.ID)
	if err != nil {
		return fmt.Errorf("evaluate trip pos=%d from=%d to=%d: %w", pos, pred.ID, cur.ID, err)
	}

	st := EvaluationState{TravelTime: travel}
	st.TotTravelTime = prev.TotTravelTime + travel
	st.ArrivalTime = prev.DepartureTime + travel
	if cur.EarlyArrival(st.ArrivalTime) {
		st.WaitTime = cur.Opens - st.ArrivalTime
	}
	st.TotWaitTime = prev.TotWaitTime + st.WaitTime
	st.TotServiceTime = prev.TotServiceTime + cur.ServiceTime
	st.DepartureTime = st.ArrivalTime + st.WaitTime + cur.ServiceTime

	// A dump empties whatever the vehicle carries: its effective demand is
	// derived from the predecessor's cargo, not fixed. Negative inbound
	// cargo is preserved as-is.
	if cur.IsDump() && prev.Cargo >= 0 {
		cur.Demand = -prev.Cargo
		t.seq.stops[pos] = cur
	}
	st.DumpVisits = prev.DumpVisits
	if cur.IsDump() {
		st.DumpVisits++
	}
	st.Cargo = prev.Cargo + cur.Demand

	st.TWV = prev.TWV
	if st.HasTWV(cur) {
		st.TWV++
	}
	st.CV = prev.CV
	if st.HasCV(t.capacity) {
		st.CV++
	}
	st.DeltaTime = st.DepartureTime - prev.DepartureTime

	t.states[pos] = st
	return nil
}

// Insert places the stop at pos and re-propagates the suffix from pos.
func (t *Trip) Insert(ctx context.Context, s Stop, pos int) error {
	if err := t.seq.Insert(s, pos); err != nil {
		return err
	}
	t.states = append(t.states, EvaluationState{})
	copy(t.states[pos+1:], t.states[pos:])
	t.states[pos] = EvaluationState{}
	return t.Evaluate(ctx, pos)
}

// PushBack appends the stop and evaluates only the new last position.
func (t *Trip) PushBack(ctx context.Context, s Stop) error {
	t.seq.PushBack(s)
	t.states = append(t.states, EvaluationState{})
	return t.Evaluate(ctx, t.seq.Len()-1)
}

// Remove erases the occurrence at pos and re-propagates the suffix.
func (t *Trip) Remove(ctx context.Context, pos int) error {
	if err := t.seq.Erase(pos); err != nil {
		return err
	}
	t.states = t.states[:len(t.states)-1]
	return t.Evaluate(ctx, pos)
}

// SwapStops exchanges two occurrences and re-propagates from the earlier
// position. Swapping a valid position with itself is a no-op.
func (t *Trip) SwapStops(ctx context.Context, i, j int) error {
	if err := t.seq.Swap(i, j); err != nil {
		return err
	}
	if i == j {
		return nil
	}
	from := i
	if j < i {
		from = j
	}
	return t.Evaluate(ctx, from)
}

// Feasible reports whether the whole trip is free of time-window and
// capacity violations.
func (t *Trip) Feasible() bool {
	if t.seq.Len() == 0 {
		return false
	}
	return t.Last().Feasible()
}

// Cost is the departure time from the last occurrence; lower is better.
// Violation weighting belongs to the optimization layer, not here.
func (t *Trip) Cost() float64 {
	if t.seq.Len() == 0 {
		return 0
	}
	return t.Last().DepartureTime
}

// CountPickups returns the number of pickup occurrences in the trip.
func (t *Trip) CountPickups() int {
	n := 0
	for i := 0; i < t.seq.Len(); i++ {
		if t.seq.At(i).IsPickup() {
			n++
		}
	}
	return n
}

package services

import (
	"context"
	"fmt"
	"math"

	"trash-route-solver/internal/domain"
	"trash-route-solver/internal/platform/obs"
	"trash-route-solver/internal/ports"
)

// IncompleteError reports a construction run that could not place every
// pickup. A partial solution is still returned alongside it; the caller
// decides whether that outcome is acceptable.
type IncompleteError struct {
	Unassigned []int64
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("construction exhausted all vehicles with %d pickups unassigned", len(e.Unassigned))
}

// Construct builds an initial solution by greedy cheapest-feasible
// insertion.
//
// One vehicle at a time starts a fresh trip from its depot. Each round,
// every still-unassigned pickup is tentatively inserted at every position
// after the depot; the tentative edit is always undone, and the single
// cheapest feasible (stop, position) pair is then committed. Comparison is
// strict, so the first candidate encountered wins ties, which keeps the
// result deterministic. When nothing fits the current trip, the trip is
// closed and the next vehicle takes over.
//
// The worst case is O(|unassigned| x |positions| x |route length|) oracle
// lookups per committed insertion; wrap the oracle with a memoizing
// adapter before calling this.
func Construct(ctx context.Context, problem *domain.Problem, oracle ports.TravelTimeOracle) (_ *domain.Solution, err error) {
	defer obs.Time(ctx, "construct.greedy")(&err)

	unassigned := append([]domain.Stop(nil), problem.Pickups...)
	vehicles := problem.BuildVehicles()

	sol := domain.NewSolution()

	for len(unassigned) > 0 && len(vehicles) > 0 {
		vehicle := vehicles[0]
		vehicles = vehicles[1:]

		trip, err := vehicle.NewTrip(ctx, oracle)
		if err != nil {
			return nil, fmt.Errorf("construct: vehicle %d: %w", vehicle.VID, err)
		}

		for len(unassigned) > 0 {
			bestIdx, bestPos, err := cheapestInsertion(ctx, trip, unassigned)
			if err != nil {
				return nil, fmt.Errorf("construct: vehicle %d: %w", vehicle.VID, err)
			}
			if bestIdx < 0 {
				break
			}

			if err := trip.Insert(ctx, unassigned[bestIdx], bestPos); err != nil {
				return nil, fmt.Errorf("construct: commit insertion: %w", err)
			}
			unassigned = append(unassigned[:bestIdx], unassigned[bestIdx+1:]...)
		}

		vehicle.AddTrip(trip)
		sol.Fleet = append(sol.Fleet, vehicle)
	}

	if len(unassigned) > 0 {
		ids := make([]int64, len(unassigned))
		for i, s := range unassigned {
			ids[i] = s.ID
		}
		return sol, &IncompleteError{Unassigned: ids}
	}
	return sol, nil
}

// cheapestInsertion scans every (stop, position) pair for the cheapest
// feasible insertion into the trip. Every tentative insertion is undone
// before the next is tried, feasible or not, so the trip is returned
// exactly as received. Positions start at 1: nothing precedes the depot.
func cheapestInsertion(ctx context.Context, trip *domain.Trip, candidates []domain.Stop) (int, int, error) {
	bestIdx := -1
	bestPos := -1
	bestCost := math.Inf(1)

	for si, stop := range candidates {
		for pos := 1; pos <= trip.Len(); pos++ {
			if err := trip.Insert(ctx, stop, pos); err != nil {
				return -1, -1, fmt.Errorf("tentative insert pickup %d at pos %d: %w", stop.ID, pos, err)
			}

			feasible := trip.Feasible()
			cost := trip.Cost()

			if err := trip.Remove(ctx, pos); err != nil {
				return -1, -1, fmt.Errorf("undo tentative insert at pos %d: %w", pos, err)
			}

			if feasible && cost < bestCost {
				bestCost = cost
				bestIdx = si
				bestPos = pos
			}
		}
	}
	return bestIdx, bestPos, nil
}

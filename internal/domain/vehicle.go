package domain

import (
	"context"
	"fmt"

	"trash-route-solver/internal/ports"
)

// A vehicle owns its trips exclusively. Trips do not share time or cargo
// state across trip boundaries; each starts fresh from the depot.
type Vehicle struct {
	VID        int64
	Depot      Stop
	DumpSite   Stop
	EndingSite Stop
	Capacity   float64
	MaxTrips   int
	ShiftStart float64
	ShiftEnd   float64
	Trips      []*Trip
}

// NewVehicle builds a vehicle from its role locations. The depot is always
// a dedicated Start-typed copy, so End-role logic on the same physical
// location can never retroactively change the route head.
func NewVehicle(vid int64, depot, dump, ending Stop, capacity float64, maxTrips int, shiftStart, shiftEnd float64) *Vehicle {
	return &Vehicle{
		VID:        vid,
		Depot:      depot.AsKind(KindStart),
		DumpSite:   dump.AsKind(KindDump),
		EndingSite: ending.AsKind(KindEnd),
		Capacity:   capacity,
		MaxTrips:   maxTrips,
		ShiftStart: shiftStart,
		ShiftEnd:   shiftEnd,
	}
}

// NewTrip starts a fresh trip headed by this vehicle's depot.
func (v *Vehicle) NewTrip(ctx context.Context, oracle ports.TravelTimeOracle) (*Trip, error) {
	return NewTrip(ctx, v.Depot, v.Capacity, oracle)
}

// AddTrip appends a trip to the vehicle.
func (v *Vehicle) AddTrip(t *Trip) { v.Trips = append(v.Trips, t) }

// Size is the total number of stop occurrences across all trips.
func (v *Vehicle) Size() int {
	n := 0
	for _, t := range v.Trips {
		n += t.Len()
	}
	return n
}

// Evaluate re-evaluates every trip independently from its head.
func (v *Vehicle) Evaluate(ctx context.Context) error {
	for i, t := range v.Trips {
		if err := t.Evaluate(ctx, 0); err != nil {
			return fmt.Errorf("vehicle %d trip %d: %w", v.VID, i, err)
		}
	}
	return nil
}

// Feasible is the conjunction of trip feasibility.
func (v *Vehicle) Feasible() bool {
	for _, t := range v.Trips {
		if !t.Feasible() {
			return false
		}
	}
	return true
}

// Cost sums trip costs.
func (v *Vehicle) Cost() float64 {
	total := 0.0
	for _, t := range v.Trips {
		total += t.Cost()
	}
	return total
}

// CountPickups across all trips.
func (v *Vehicle) CountPickups() int {
	n := 0
	for _, t := range v.Trips {
		n += t.CountPickups()
	}
	return n
}

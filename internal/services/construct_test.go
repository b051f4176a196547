package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"trash-route-solver/internal/adapters/oracle"
	"trash-route-solver/internal/domain"
)

func testProblem(pickups []domain.Stop, specs []domain.VehicleSpec) *domain.Problem {
	locations := []domain.Stop{
		{ID: 200, Closes: math.Inf(1)},
		{ID: 300, Closes: math.Inf(1)},
		{ID: 201, Closes: math.Inf(1)},
	}
	return domain.NewProblem(pickups, locations, specs)
}

func fullMatrix(ids []int64, seconds float64) []oracle.MatrixEntry {
	var entries []oracle.MatrixEntry
	for _, from := range ids {
		for _, to := range ids {
			if from == to {
				continue
			}
			entries = append(entries, oracle.MatrixEntry{FromID: from, ToID: to, Seconds: seconds})
		}
	}
	return entries
}

func TestConstructAssignsAllPickups(t *testing.T) {
	pickups := []domain.Stop{
		{ID: 1, Demand: 2, Closes: 1000},
		{ID: 2, Demand: 2, Closes: 1000},
		{ID: 3, Demand: 2, Closes: 1000},
	}
	specs := []domain.VehicleSpec{
		{VID: 1, StartID: 200, DumpID: 300, EndID: 201, Capacity: 10, MaxTrips: 1},
	}
	problem := testProblem(pickups, specs)
	travel := oracle.NewMatrix(fullMatrix([]int64{200, 300, 201, 1, 2, 3}, 10))

	sol, err := Construct(context.Background(), problem, travel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sol.CountPickups() != 3 {
		t.Fatalf("pickups placed = %d, want 3", sol.CountPickups())
	}
	if !sol.Feasible() {
		t.Error("solution should be feasible")
	}
}

func TestConstructPrefersCheaperInsertion(t *testing.T) {
	pickups := []domain.Stop{
		{ID: 1, Demand: 3, Closes: 1000},
		{ID: 2, Demand: 4, Closes: 1000},
	}
	specs := []domain.VehicleSpec{
		{VID: 1, StartID: 200, DumpID: 300, EndID: 201, Capacity: 5, MaxTrips: 1},
	}
	problem := testProblem(pickups, specs)

	travel := oracle.NewMatrix([]oracle.MatrixEntry{
		{FromID: 200, ToID: 1, Seconds: 10},
		{FromID: 200, ToID: 2, Seconds: 20},
		{FromID: 1, ToID: 2, Seconds: 5},
		{FromID: 2, ToID: 1, Seconds: 5},
	})

	sol, err := Construct(context.Background(), problem, travel)

	// Capacity 5 cannot carry both pickups; the nearer one wins and the
	// other is reported unassigned.
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("err = %v, want IncompleteError", err)
	}
	if len(incomplete.Unassigned) != 1 || incomplete.Unassigned[0] != 2 {
		t.Fatalf("unassigned = %v, want [2]", incomplete.Unassigned)
	}

	if sol == nil {
		t.Fatal("partial solution should still be returned")
	}
	if sol.CountPickups() != 1 {
		t.Fatalf("pickups placed = %d, want 1", sol.CountPickups())
	}
	trip := sol.Fleet[0].Trips[0]
	if trip.StopAt(1).ID != 1 {
		t.Fatalf("placed pickup = %d, want 1", trip.StopAt(1).ID)
	}
}

func TestConstructSpillsToNextVehicle(t *testing.T) {
	pickups := []domain.Stop{
		{ID: 1, Demand: 4, Closes: 1000},
		{ID: 2, Demand: 4, Closes: 1000},
	}
	specs := []domain.VehicleSpec{
		{VID: 1, StartID: 200, DumpID: 300, EndID: 201, Capacity: 5, MaxTrips: 1},
		{VID: 2, StartID: 200, DumpID: 300, EndID: 201, Capacity: 5, MaxTrips: 1},
	}
	problem := testProblem(pickups, specs)
	travel := oracle.NewMatrix(fullMatrix([]int64{200, 300, 201, 1, 2}, 10))

	sol, err := Construct(context.Background(), problem, travel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sol.FleetSize() != 2 {
		t.Fatalf("fleet = %d, want 2", sol.FleetSize())
	}
	if sol.Fleet[0].CountPickups() != 1 || sol.Fleet[1].CountPickups() != 1 {
		t.Fatalf("pickups split %d/%d, want 1/1",
			sol.Fleet[0].CountPickups(), sol.Fleet[1].CountPickups())
	}
}

func TestConstructExhaustsAllVehicles(t *testing.T) {
	pickups := []domain.Stop{
		{ID: 1, Demand: 2, Closes: 1000},
		{ID: 2, Demand: 50, Closes: 1000}, // fits no vehicle
	}
	specs := []domain.VehicleSpec{
		{VID: 1, StartID: 200, DumpID: 300, EndID: 201, Capacity: 5, MaxTrips: 1},
		{VID: 2, StartID: 200, DumpID: 300, EndID: 201, Capacity: 5, MaxTrips: 1},
	}
	problem := testProblem(pickups, specs)
	travel := oracle.NewMatrix(fullMatrix([]int64{200, 300, 201, 1, 2}, 10))

	sol, err := Construct(context.Background(), problem, travel)

	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("err = %v, want IncompleteError", err)
	}
	if len(incomplete.Unassigned) != 1 || incomplete.Unassigned[0] != 2 {
		t.Fatalf("unassigned = %v, want [2]", incomplete.Unassigned)
	}
	if incomplete.Error() == "" {
		t.Error("error message should not be empty")
	}

	// Every vehicle was tried before giving up, and the partial work stands.
	if sol.FleetSize() != 2 {
		t.Fatalf("fleet = %d, want both vehicles consumed", sol.FleetSize())
	}
	if sol.CountPickups() != 1 {
		t.Fatalf("pickups placed = %d, want 1", sol.CountPickups())
	}
}

func TestConstructIsDeterministic(t *testing.T) {
	pickups := []domain.Stop{
		{ID: 1, Demand: 1, Closes: 1000},
		{ID: 2, Demand: 1, Closes: 1000},
		{ID: 3, Demand: 1, Closes: 1000},
	}
	specs := []domain.VehicleSpec{
		{VID: 1, StartID: 200, DumpID: 300, EndID: 201, Capacity: 10, MaxTrips: 1},
	}
	// Every pair costs the same, so ordering is decided purely by strict
	// comparison: ties keep the first candidate.
	entries := fullMatrix([]int64{200, 300, 201, 1, 2, 3}, 7)

	var orders [][]int64
	for run := 0; run < 2; run++ {
		problem := testProblem(pickups, specs)
		sol, err := Construct(context.Background(), problem, oracle.NewMatrix(entries))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		trip := sol.Fleet[0].Trips[0]
		var order []int64
		for i := 1; i < trip.Len(); i++ {
			order = append(order, trip.StopAt(i).ID)
		}
		orders = append(orders, order)
	}

	if len(orders[0]) != 3 {
		t.Fatalf("order = %v, want all three pickups", orders[0])
	}
	for i := range orders[0] {
		if orders[0][i] != orders[1][i] {
			t.Fatalf("runs diverged: %v vs %v", orders[0], orders[1])
		}
	}
}

func TestConstructPropagatesOracleFailure(t *testing.T) {
	pickups := []domain.Stop{{ID: 1, Demand: 1, Closes: 1000}}
	specs := []domain.VehicleSpec{
		{VID: 1, StartID: 200, DumpID: 300, EndID: 201, Capacity: 10, MaxTrips: 1},
	}
	problem := testProblem(pickups, specs)

	// Empty matrix: the first tentative insertion has no travel time.
	_, err := Construct(context.Background(), problem, oracle.NewMatrix(nil))
	if err == nil {
		t.Fatal("expected an error from the empty matrix")
	}
	var incomplete *IncompleteError
	if errors.As(err, &incomplete) {
		t.Fatalf("oracle failure must not be reported as incomplete, got %v", err)
	}
}

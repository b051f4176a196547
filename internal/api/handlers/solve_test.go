package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trash-route-solver/internal/api/dto"
	"trash-route-solver/internal/domain"
)

func solveBody() string {
	return `{
		"pickups": [
			{"id": 1, "x": 0, "y": 0, "opens": 0, "closes": 1000, "service_time": 10, "demand": 2},
			{"id": 2, "x": 5, "y": 0, "opens": 0, "closes": 1000, "service_time": 10, "demand": 3}
		],
		"locations": [
			{"id": 200, "x": 1, "y": 1},
			{"id": 300, "x": 2, "y": 2},
			{"id": 201, "x": 3, "y": 3}
		],
		"vehicles": [
			{"vid": 1, "start_id": 200, "dump_id": 300, "end_id": 201, "capacity": 10}
		],
		"matrix": [
			{"from_id": 200, "to_id": 1, "seconds": 60},
			{"from_id": 200, "to_id": 2, "seconds": 90},
			{"from_id": 1, "to_id": 2, "seconds": 30},
			{"from_id": 2, "to_id": 1, "seconds": 30}
		]
	}`
}

func newSolveHandler() *SolveHandler {
	return &SolveHandler{Weights: domain.DefaultWeights()}
}

func TestSolveHappyPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(solveBody()))
	rec := httptest.NewRecorder()

	newSolveHandler().Solve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !res.Feasible {
		t.Error("solution should be feasible")
	}
	if len(res.Unassigned) != 0 {
		t.Errorf("unassigned = %v, want none", res.Unassigned)
	}
	if len(res.Routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(res.Routes))
	}

	trip := res.Routes[0].Trips[0]
	if len(trip.Stops) != 3 {
		t.Fatalf("stops = %d, want depot plus two pickups", len(trip.Stops))
	}
	if trip.Stops[0].Kind != "start" {
		t.Errorf("head kind = %q, want start", trip.Stops[0].Kind)
	}
	// Nearer pickup first: depot -> 1 -> 2.
	if trip.Stops[1].StopID != 1 || trip.Stops[2].StopID != 2 {
		t.Errorf("order = %d,%d, want 1,2", trip.Stops[1].StopID, trip.Stops[2].StopID)
	}
	if trip.Stops[2].Cargo != 5 {
		t.Errorf("final cargo = %v, want 5", trip.Stops[2].Cargo)
	}
}

func TestSolveReportsUnassigned(t *testing.T) {
	body := strings.Replace(solveBody(), `"capacity": 10`, `"capacity": 3`, 1)
	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newSolveHandler().Solve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Capacity 3 only fits the demand-2 pickup; stop 2 stays behind.
	if len(res.Unassigned) != 1 || res.Unassigned[0] != 2 {
		t.Fatalf("unassigned = %v, want [2]", res.Unassigned)
	}
}

func TestSolveRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "pickles"},
		{"unknown field", `{"pickups": [], "bogus": 1}`},
		{"missing pickups", `{"locations": [{"id": 1, "x": 0, "y": 0}], "vehicles": [{"vid": 1, "start_id": 1, "dump_id": 1, "end_id": 1, "capacity": 5}], "matrix": [{"from_id": 1, "to_id": 2, "seconds": 1}]}`},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()

		newSolveHandler().Solve(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestSolveRejectsWrongMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/solve", nil)
	rec := httptest.NewRecorder()

	newSolveHandler().Solve(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Errorf("Allow = %q, want POST", rec.Header().Get("Allow"))
	}
}

func TestSolveRejectsMissingMatrixPair(t *testing.T) {
	// Strip the matrix down to one pair; construction needs more.
	body := `{
		"pickups": [{"id": 1, "x": 0, "y": 0, "opens": 0, "closes": 1000, "service_time": 10, "demand": 2}],
		"locations": [{"id": 200, "x": 1, "y": 1}, {"id": 300, "x": 2, "y": 2}, {"id": 201, "x": 3, "y": 3}],
		"vehicles": [{"vid": 1, "start_id": 200, "dump_id": 300, "end_id": 201, "capacity": 10}],
		"matrix": [{"from_id": 1, "to_id": 2, "seconds": 30}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newSolveHandler().Solve(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", rec.Code, rec.Body.String())
	}
}

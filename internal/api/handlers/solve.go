package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"

	"trash-route-solver/internal/adapters/oracle"
	"trash-route-solver/internal/api/dto"
	"trash-route-solver/internal/domain"
	"trash-route-solver/internal/ports"
	"trash-route-solver/internal/services"
)

// RunStore persists finished solutions. Nil disables persistence.
type RunStore interface {
	SaveRun(ctx context.Context, dataset string, sol *domain.Solution) (string, error)
}

// SolveHandler runs greedy construction over a problem posted inline:
// pickups, vehicle locations, vehicles and the travel-time matrix all
// arrive in the request body.
type SolveHandler struct {
	Runs    RunStore
	Weights domain.Weights
}

func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SolveRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Pickups) == 0 {
		writeError(w, r, http.StatusBadRequest, "pickups is required")
		return
	}
	if len(req.Locations) == 0 {
		writeError(w, r, http.StatusBadRequest, "locations is required")
		return
	}
	if len(req.Vehicles) == 0 {
		writeError(w, r, http.StatusBadRequest, "vehicles is required")
		return
	}
	if len(req.Matrix) == 0 {
		writeError(w, r, http.StatusBadRequest, "matrix is required")
		return
	}

	problem := buildProblem(req)
	if len(problem.Vehicles) == 0 {
		writeError(w, r, http.StatusBadRequest, "no vehicle references known locations")
		return
	}

	entries := make([]oracle.MatrixEntry, 0, len(req.Matrix))
	for _, e := range req.Matrix {
		entries = append(entries, oracle.MatrixEntry{FromID: e.FromID, ToID: e.ToID, Seconds: e.Seconds})
	}
	memo := oracle.NewMemo(oracle.NewMatrix(entries))

	sol, err := services.Construct(r.Context(), problem, memo)

	var incomplete *services.IncompleteError
	switch {
	case err == nil:
	case errors.As(err, &incomplete):
		log.Printf("solve finished incomplete: unassigned=%d", len(incomplete.Unassigned))
	case errors.Is(err, ports.ErrRouteUnavailable):
		writeError(w, r, http.StatusUnprocessableEntity, "matrix is missing a required travel time")
		return
	default:
		log.Printf("solve failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	sol.Weights = requestWeights(req.Options, h.Weights)

	res := buildResponse(sol)
	if incomplete != nil {
		res.Unassigned = incomplete.Unassigned
	}

	if h.Runs != nil {
		dataset := "api"
		if req.Options != nil && req.Options.Dataset != "" {
			dataset = req.Options.Dataset
		}
		runID, err := h.Runs.SaveRun(r.Context(), dataset, sol)
		if err != nil {
			log.Printf("save run failed: %v", err)
		} else {
			res.RunID = runID
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

func buildProblem(req dto.SolveRequest) *domain.Problem {
	pickups := make([]domain.Stop, 0, len(req.Pickups))
	for _, p := range req.Pickups {
		streetID := int64(-1)
		if p.StreetID != nil {
			streetID = *p.StreetID
		}
		pickups = append(pickups, domain.Stop{
			ID:          p.ID,
			Location:    domain.Point{X: p.X, Y: p.Y},
			Opens:       p.Opens,
			Closes:      p.Closes,
			ServiceTime: p.ServiceTime,
			Demand:      p.Demand,
			StreetID:    streetID,
			Kind:        domain.KindPickup,
		})
	}

	locations := make([]domain.Stop, 0, len(req.Locations))
	for _, l := range req.Locations {
		closes := math.Inf(1)
		if l.Closes != nil {
			closes = *l.Closes
		}
		locations = append(locations, domain.Stop{
			ID:       l.ID,
			Location: domain.Point{X: l.X, Y: l.Y},
			Opens:    l.Opens,
			Closes:   closes,
			StreetID: -1,
		})
	}

	specs := make([]domain.VehicleSpec, 0, len(req.Vehicles))
	for _, v := range req.Vehicles {
		maxTrips := 1
		if v.MaxTrips != nil {
			maxTrips = *v.MaxTrips
		}
		shiftEnd := math.Inf(1)
		if v.ShiftEnd != nil {
			shiftEnd = *v.ShiftEnd
		}
		specs = append(specs, domain.VehicleSpec{
			VID:        v.VID,
			StartID:    v.StartID,
			DumpID:     v.DumpID,
			EndID:      v.EndID,
			Capacity:   v.Capacity,
			MaxTrips:   maxTrips,
			ShiftStart: v.ShiftStart,
			ShiftEnd:   shiftEnd,
		})
	}

	return domain.NewProblem(pickups, locations, specs)
}

func requestWeights(opts *dto.SolveOptions, fallback domain.Weights) domain.Weights {
	w := fallback
	if opts == nil {
		return w
	}
	if opts.WeightDuration != nil {
		w.Duration = *opts.WeightDuration
	}
	if opts.WeightTWV != nil {
		w.TWV = *opts.WeightTWV
	}
	if opts.WeightCV != nil {
		w.CV = *opts.WeightCV
	}
	return w
}

func buildResponse(sol *domain.Solution) dto.SolveResponse {
	res := dto.SolveResponse{
		Cost:     sol.Cost(),
		Feasible: sol.Feasible(),
		Routes:   make([]dto.VehicleRouteResponse, 0, len(sol.Fleet)),
	}

	for _, vehicle := range sol.Fleet {
		route := dto.VehicleRouteResponse{
			VID:   vehicle.VID,
			Trips: make([]dto.TripResponse, 0, len(vehicle.Trips)),
		}
		for _, trip := range vehicle.Trips {
			tr := dto.TripResponse{
				Stops:    make([]dto.StopResponse, 0, trip.Len()),
				Cost:     trip.Cost(),
				Feasible: trip.Feasible(),
			}
			prevTWV, prevCV := 0, 0
			for i := 0; i < trip.Len(); i++ {
				stop := trip.StopAt(i)
				st := trip.StateAt(i)
				tr.Stops = append(tr.Stops, dto.StopResponse{
					StopID:    stop.ID,
					Kind:      stop.Kind.String(),
					Arrival:   st.ArrivalTime,
					Wait:      st.WaitTime,
					Departure: st.DepartureTime,
					Cargo:     st.Cargo,
					TWV:       st.TWV > prevTWV,
					CV:        st.CV > prevCV,
				})
				prevTWV, prevCV = st.TWV, st.CV
			}
			route.Trips = append(route.Trips, tr)
		}
		res.Routes = append(res.Routes, route)
	}
	return res
}

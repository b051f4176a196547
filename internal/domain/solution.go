package domain

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Cost weights for duration, time-window violations and capacity
// violations. The construction layer only uses duration; the violation
// weights are consumed by optimization layers built on top.
type Weights struct {
	Duration float64
	TWV      float64
	CV       float64
}

// DefaultWeights matches the historical solver configuration.
func DefaultWeights() Weights { return Weights{Duration: 1, TWV: 100, CV: 100} }

// A fleet-wide solution: every vehicle with its assigned trips.
type Solution struct {
	Fleet   []*Vehicle
	Weights Weights
}

func NewSolution() *Solution {
	return &Solution{Weights: DefaultWeights()}
}

// Evaluate re-evaluates every vehicle in the fleet.
func (s *Solution) Evaluate(ctx context.Context) error {
	for _, v := range s.Fleet {
		if err := v.Evaluate(ctx); err != nil {
			return fmt.Errorf("evaluate solution: %w", err)
		}
	}
	return nil
}

// Cost is the sum of vehicle costs (each vehicle's last-stop departure
// times summed over its trips).
func (s *Solution) Cost() float64 {
	total := 0.0
	for _, v := range s.Fleet {
		total += v.Cost()
	}
	return total
}

// Feasible is the conjunction of vehicle feasibility.
func (s *Solution) Feasible() bool {
	for _, v := range s.Fleet {
		if !v.Feasible() {
			return false
		}
	}
	return true
}

func (s *Solution) FleetSize() int { return len(s.Fleet) }

// CountPickups across the whole fleet.
func (s *Solution) CountPickups() int {
	n := 0
	for _, v := range s.Fleet {
		n += v.CountPickups()
	}
	return n
}

// DropEmpty removes the first vehicle that visits nothing beyond its depot
// and returns its fleet position, or -1 when every vehicle works.
func (s *Solution) DropEmpty() int {
	for i, v := range s.Fleet {
		if v.Size() <= 1 {
			s.Fleet = append(s.Fleet[:i], s.Fleet[i+1:]...)
			return i
		}
	}
	return -1
}

// Solution stream type codes.
const (
	streamTypeVehicle = 0
	streamTypePickup  = 1
	streamTypeDump    = 2
	streamTypeSite    = 3
)

// WriteSolution emits the line-oriented solution stream.
//
// The stream opens with "-1 0", then for each non-empty vehicle: "0 <vid>",
// one "<type> <id>" line per visited stop (1=pickup, 2=dump, 3=start/end),
// the vehicle's mandatory dump and ending lines, and "-1 <vid>". The stream
// closes with "-2 -2". Format preserved for downstream compatibility.
func (s *Solution) WriteSolution(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, "-1 0"); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}

	for _, v := range s.Fleet {
		if v.Size() <= 1 {
			continue
		}

		fmt.Fprintf(bw, "%d %d\n", streamTypeVehicle, v.VID)
		for _, t := range v.Trips {
			stops := t.Stops()
			for _, stop := range stops[1:] { // head depot is implicit
				switch stop.Kind {
				case KindPickup:
					fmt.Fprintf(bw, "%d %d\n", streamTypePickup, stop.ID)
				case KindDump:
					fmt.Fprintf(bw, "%d %d\n", streamTypeDump, stop.ID)
				case KindEnd, KindStart:
					fmt.Fprintf(bw, "%d %d\n", streamTypeSite, stop.ID)
				}
			}
		}
		fmt.Fprintf(bw, "%d %d\n", streamTypeDump, v.DumpSite.ID)
		fmt.Fprintf(bw, "%d %d\n", streamTypeSite, v.EndingSite.ID)
		fmt.Fprintf(bw, "-1 %d\n", v.VID)
	}

	if _, err := fmt.Fprintln(bw, "-2 -2"); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write solution: flush: %w", err)
	}
	return nil
}

// One row of the companion tabular dump.
type TabularRecord struct {
	Seq       int
	VehicleID int64
	StopID    int64
	Departure float64
}

// TabularRecords lists every visited stop occurrence in order with its
// departure time.
func (s *Solution) TabularRecords() []TabularRecord {
	records := make([]TabularRecord, 0, 64)
	seq := 1
	for _, v := range s.Fleet {
		for _, t := range v.Trips {
			for i := 0; i < t.Len(); i++ {
				records = append(records, TabularRecord{
					Seq:       seq,
					VehicleID: v.VID,
					StopID:    t.StopAt(i).ID,
					Departure: t.StateAt(i).DepartureTime,
				})
				seq++
			}
		}
	}
	return records
}

// IDVector flattens the solution to user ids with -1 separators, matching
// the historical vector form.
func (s *Solution) IDVector() []int64 {
	out := []int64{-1}
	for _, v := range s.Fleet {
		if v.Size() <= 1 {
			continue
		}
		out = append(out, v.VID, -1)
		for _, t := range v.Trips {
			stops := t.Stops()
			for _, stop := range stops[1:] {
				out = append(out, stop.ID)
			}
		}
		out = append(out, v.DumpSite.ID, v.Depot.ID, -1)
	}
	return out
}

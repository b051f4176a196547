// Package problemfile loads problem instances from the line-oriented text
// formats: a pickups (containers) file, an other-locations file, a vehicles
// file and a travel-time matrix file sharing a base name. Blank lines and
// lines starting with '#' are ignored; malformed lines are logged and
// skipped, never fatal.
package problemfile

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"trash-route-solver/internal/adapters/oracle"
	"trash-route-solver/internal/domain"
)

// LoadProblem reads "<base>.containers.txt", "<base>.otherlocs.txt",
// "<base>.vehicles.txt" and "<base>.dmatrix-time.txt", assembles the
// validated problem and returns the matrix rows for the travel-time
// oracle.
func LoadProblem(base string) (*domain.Problem, []oracle.MatrixEntry, error) {
	pickups, err := LoadPickups(base + ".containers.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("load problem: %w", err)
	}

	otherLocs, err := LoadOtherLocs(base + ".otherlocs.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("load problem: %w", err)
	}

	specs, err := LoadVehicles(base + ".vehicles.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("load problem: %w", err)
	}

	matrix, err := LoadMatrix(base + ".dmatrix-time.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("load problem: %w", err)
	}

	problem := domain.NewProblem(pickups, otherLocs, specs)
	for _, s := range problem.InvalidPickups {
		log.Printf("pickup %d is also a vehicle location, excluded from pickups", s.ID)
	}
	for _, spec := range problem.InvalidVehicles {
		log.Printf("vehicle %d references an unknown location, excluded", spec.VID)
	}

	log.Printf("loaded dataset=%s pickups=%d locations=%d vehicles=%d matrix_pairs=%d",
		base, len(problem.Pickups), len(problem.OtherLocs), len(problem.Vehicles), len(matrix))

	return problem, matrix, nil
}

// LoadPickups parses a containers file.
// Row format: id x y opens closes service demand [street_id]
func LoadPickups(path string) ([]domain.Stop, error) {
	var stops []domain.Stop
	err := eachDataLine(path, func(lineNum int, fields []string) {
		stop, err := parsePickup(fields)
		if err != nil {
			log.Printf("skipping container line %d: %v", lineNum, err)
			return
		}
		stops = append(stops, stop)
	})
	if err != nil {
		return nil, fmt.Errorf("load pickups: %w", err)
	}
	return stops, nil
}

func parsePickup(fields []string) (domain.Stop, error) {
	if len(fields) < 7 {
		return domain.Stop{}, fmt.Errorf("want at least 7 fields, got %d", len(fields))
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("id: %w", err)
	}
	nums, err := parseFloats(fields[1:7])
	if err != nil {
		return domain.Stop{}, err
	}

	streetID := int64(-1)
	if len(fields) > 7 {
		streetID, err = strconv.ParseInt(fields[7], 10, 64)
		if err != nil {
			return domain.Stop{}, fmt.Errorf("street_id: %w", err)
		}
	}

	return domain.Stop{
		ID:          id,
		Location:    domain.Point{X: nums[0], Y: nums[1]},
		Opens:       nums[2],
		Closes:      nums[3],
		ServiceTime: nums[4],
		Demand:      nums[5],
		StreetID:    streetID,
		Kind:        domain.KindPickup,
	}, nil
}

// LoadOtherLocs parses the depot/dump/ending locations file.
// Row format: id x y [opens closes]
func LoadOtherLocs(path string) ([]domain.Stop, error) {
	var stops []domain.Stop
	err := eachDataLine(path, func(lineNum int, fields []string) {
		stop, err := parseOtherLoc(fields)
		if err != nil {
			log.Printf("skipping location line %d: %v", lineNum, err)
			return
		}
		stops = append(stops, stop)
	})
	if err != nil {
		return nil, fmt.Errorf("load other locations: %w", err)
	}
	return stops, nil
}

func parseOtherLoc(fields []string) (domain.Stop, error) {
	if len(fields) < 3 {
		return domain.Stop{}, fmt.Errorf("want at least 3 fields, got %d", len(fields))
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("id: %w", err)
	}
	nums, err := parseFloats(fields[1:3])
	if err != nil {
		return domain.Stop{}, err
	}

	stop := domain.Stop{
		ID:       id,
		Location: domain.Point{X: nums[0], Y: nums[1]},
		Closes:   math.Inf(1),
		StreetID: -1,
		Kind:     domain.KindUnknown,
	}
	if len(fields) > 3 {
		if stop.Opens, err = strconv.ParseFloat(fields[3], 64); err != nil {
			return domain.Stop{}, fmt.Errorf("opens: %w", err)
		}
	}
	if len(fields) > 4 {
		if stop.Closes, err = strconv.ParseFloat(fields[4], 64); err != nil {
			return domain.Stop{}, fmt.Errorf("closes: %w", err)
		}
	}
	return stop, nil
}

// LoadVehicles parses a vehicles file.
// Row format: vid start_id dump_id end_id capacity [max_trips] [shift_start] [shift_end]
func LoadVehicles(path string) ([]domain.VehicleSpec, error) {
	var specs []domain.VehicleSpec
	err := eachDataLine(path, func(lineNum int, fields []string) {
		spec, err := parseVehicle(fields)
		if err != nil {
			log.Printf("skipping vehicle line %d: %v", lineNum, err)
			return
		}
		specs = append(specs, spec)
	})
	if err != nil {
		return nil, fmt.Errorf("load vehicles: %w", err)
	}
	return specs, nil
}

func parseVehicle(fields []string) (domain.VehicleSpec, error) {
	if len(fields) < 5 {
		return domain.VehicleSpec{}, fmt.Errorf("want at least 5 fields, got %d", len(fields))
	}

	ids := make([]int64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return domain.VehicleSpec{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		ids[i] = v
	}

	capacity, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return domain.VehicleSpec{}, fmt.Errorf("capacity: %w", err)
	}

	spec := domain.VehicleSpec{
		VID:      ids[0],
		StartID:  ids[1],
		DumpID:   ids[2],
		EndID:    ids[3],
		Capacity: capacity,
		MaxTrips: 1,
		ShiftEnd: math.Inf(1),
	}
	if len(fields) > 5 {
		maxTrips, err := strconv.Atoi(fields[5])
		if err != nil {
			return domain.VehicleSpec{}, fmt.Errorf("max_trips: %w", err)
		}
		spec.MaxTrips = maxTrips
	}
	if len(fields) > 6 {
		if spec.ShiftStart, err = strconv.ParseFloat(fields[6], 64); err != nil {
			return domain.VehicleSpec{}, fmt.Errorf("shift_start: %w", err)
		}
	}
	if len(fields) > 7 {
		if spec.ShiftEnd, err = strconv.ParseFloat(fields[7], 64); err != nil {
			return domain.VehicleSpec{}, fmt.Errorf("shift_end: %w", err)
		}
	}
	return spec, nil
}

// LoadMatrix parses a travel-time matrix file.
// Row format: from_id to_id cost
func LoadMatrix(path string) ([]oracle.MatrixEntry, error) {
	var entries []oracle.MatrixEntry
	err := eachDataLine(path, func(lineNum int, fields []string) {
		if len(fields) < 3 {
			log.Printf("skipping matrix line %d: want 3 fields, got %d", lineNum, len(fields))
			return
		}
		fromID, err1 := strconv.ParseInt(fields[0], 10, 64)
		toID, err2 := strconv.ParseInt(fields[1], 10, 64)
		cost, err3 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			log.Printf("skipping matrix line %d: malformed row", lineNum)
			return
		}
		entries = append(entries, oracle.MatrixEntry{FromID: fromID, ToID: toID, Seconds: cost})
	})
	if err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}
	return entries, nil
}

// eachDataLine calls fn for every non-blank, non-comment line with its
// whitespace-split fields.
func eachDataLine(path string, fn func(lineNum int, fields []string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fn(lineNum, strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	return nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

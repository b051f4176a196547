package domain

// One row of the vehicles input: locations referenced by user id.
type VehicleSpec struct {
	VID        int64
	StartID    int64
	DumpID     int64
	EndID      int64
	Capacity   float64
	MaxTrips   int
	ShiftStart float64
	ShiftEnd   float64
}

// The full problem instance: pickup sites, the depot/dump/ending locations,
// and the vehicle specs that reference them.
//
// NewProblem validates the inputs: pickups duplicated in the location list
// and vehicle specs referencing unknown locations are excluded and exposed
// through InvalidPickups / InvalidVehicles for the caller to report.
type Problem struct {
	Pickups   []Stop
	OtherLocs []Stop
	Vehicles  []VehicleSpec

	Depots  []Stop
	Dumps   []Stop
	Endings []Stop

	InvalidPickups  []Stop
	InvalidVehicles []VehicleSpec

	// Average of all pickup stops, used for geometric pruning.
	Average Stop
}

func NewProblem(pickups, otherLocs []Stop, specs []VehicleSpec) *Problem {
	p := &Problem{
		OtherLocs: append([]Stop(nil), otherLocs...),
	}

	locIDs := make(map[int64]struct{}, len(otherLocs))
	for _, loc := range p.OtherLocs {
		locIDs[loc.ID] = struct{}{}
	}

	// A pickup that is also a depot/dump/ending is ambiguous; keep the
	// location role and drop the pickup.
	for _, s := range pickups {
		s.Kind = KindPickup
		if _, dup := locIDs[s.ID]; dup {
			p.InvalidPickups = append(p.InvalidPickups, s)
			continue
		}
		p.Pickups = append(p.Pickups, s)
	}

	p.renumber()
	p.computeAverage()

	for _, spec := range specs {
		if !p.hasLocations(spec) {
			p.InvalidVehicles = append(p.InvalidVehicles, spec)
			continue
		}
		p.Vehicles = append(p.Vehicles, spec)
		p.addVehicleLocations(spec)
	}

	return p
}

// renumber assigns sequence-local NIDs across pickups then locations.
func (p *Problem) renumber() {
	nid := 0
	for i := range p.Pickups {
		p.Pickups[i].NID = nid
		nid++
	}
	for i := range p.OtherLocs {
		p.OtherLocs[i].NID = nid
		nid++
	}
}

func (p *Problem) computeAverage() {
	n := len(p.Pickups)
	if n == 0 {
		return
	}
	var avg Stop
	for _, s := range p.Pickups {
		avg.Location.X += s.Location.X
		avg.Location.Y += s.Location.Y
		avg.Demand += s.Demand
		avg.Opens += s.Opens
		avg.Closes += s.Closes
		avg.ServiceTime += s.ServiceTime
	}
	f := float64(n)
	avg.Location.X /= f
	avg.Location.Y /= f
	avg.Demand /= f
	avg.Opens /= f
	avg.Closes /= f
	avg.ServiceTime /= f
	avg.NID = -1
	avg.ID = -1
	avg.StreetID = -1
	p.Average = avg
}

func (p *Problem) hasLocations(spec VehicleSpec) bool {
	for _, id := range []int64{spec.StartID, spec.DumpID, spec.EndID} {
		if _, ok := p.FindLocation(id); !ok {
			return false
		}
	}
	return true
}

func (p *Problem) addVehicleLocations(spec VehicleSpec) {
	roles := []struct {
		id     int64
		kind   StopKind
		bucket *[]Stop
	}{
		{spec.StartID, KindStart, &p.Depots},
		{spec.DumpID, KindDump, &p.Dumps},
		{spec.EndID, KindEnd, &p.Endings},
	}
	for _, role := range roles {
		loc, _ := p.FindLocation(role.id)
		if containsID(*role.bucket, loc.ID) {
			continue
		}
		*role.bucket = append(*role.bucket, loc.AsKind(role.kind))
	}
}

func containsID(stops []Stop, id int64) bool {
	for _, s := range stops {
		if s.ID == id {
			return true
		}
	}
	return false
}

// FindLocation returns the depot/dump/ending location with the given user
// id.
func (p *Problem) FindLocation(id int64) (Stop, bool) {
	for _, s := range p.OtherLocs {
		if s.ID == id {
			return s, true
		}
	}
	return Stop{}, false
}

// FindStop searches pickups first, then locations.
func (p *Problem) FindStop(id int64) (Stop, bool) {
	for _, s := range p.Pickups {
		if s.ID == id {
			return s, true
		}
	}
	return p.FindLocation(id)
}

// BuildVehicles constructs the fleet from the validated specs. Each vehicle
// receives its own Start/Dump/End role copies of the shared locations.
func (p *Problem) BuildVehicles() []*Vehicle {
	vehicles := make([]*Vehicle, 0, len(p.Vehicles))
	for _, spec := range p.Vehicles {
		depot, _ := p.FindLocation(spec.StartID)
		dump, _ := p.FindLocation(spec.DumpID)
		ending, _ := p.FindLocation(spec.EndID)
		vehicles = append(vehicles, NewVehicle(
			spec.VID, depot, dump, ending,
			spec.Capacity, spec.MaxTrips, spec.ShiftStart, spec.ShiftEnd,
		))
	}
	return vehicles
}

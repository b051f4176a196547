package domain

// Role of a stop inside a route.
type StopKind int

const (
	KindUnknown StopKind = iota
	KindStart
	KindPickup
	KindDump
	KindEnd
	KindDelivery
	KindLoad
	KindPhantom
)

func (k StopKind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindPickup:
		return "pickup"
	case KindDump:
		return "dump"
	case KindEnd:
		return "end"
	case KindDelivery:
		return "delivery"
	case KindLoad:
		return "load"
	case KindPhantom:
		return "phantom"
	default:
		return "unknown"
	}
}

// A located, typed, time-windowed, demand-bearing visit point.
//
// NID is the sequence-local position id, reassigned whenever stops are
// renumbered; ID is the user-supplied id (positive means valid). Demand is
// signed: positive is cargo picked up, negative is cargo unloaded. A dump
// occurrence's demand is rewritten during evaluation, so stops are held by
// value inside routes and never shared mutably across them.
type Stop struct {
	NID         int
	ID          int64
	Location    Point
	Demand      float64
	Opens       float64
	Closes      float64
	ServiceTime float64
	StreetID    int64
	Kind        StopKind
}

// Valid reports whether the stop carries a usable user id.
func (s Stop) Valid() bool { return s.ID > 0 }

func (s Stop) IsStart() bool    { return s.Kind == KindStart }
func (s Stop) IsPickup() bool   { return s.Kind == KindPickup }
func (s Stop) IsDump() bool     { return s.Kind == KindDump }
func (s Stop) IsEnd() bool      { return s.Kind == KindEnd }
func (s Stop) IsDelivery() bool { return s.Kind == KindDelivery }
func (s Stop) IsLoad() bool     { return s.Kind == KindLoad }
func (s Stop) IsPhantom() bool  { return s.Kind == KindPhantom }

// HasDemand reports a positive demand (goods to pick up).
func (s Stop) HasDemand() bool { return s.Demand > 0 }

// HasSupply reports a negative demand (goods to unload).
func (s Stop) HasSupply() bool { return s.Demand < 0 }

// WindowLength is the width of the time window.
func (s Stop) WindowLength() float64 { return s.Closes - s.Opens }

// EarlyArrival reports arrival before the window opens.
func (s Stop) EarlyArrival(arrival float64) bool { return arrival < s.Opens }

// LateArrival reports arrival strictly after the window closes.
func (s Stop) LateArrival(arrival float64) bool { return arrival > s.Closes }

// OnTime reports arrival inside the window.
func (s Stop) OnTime(arrival float64) bool {
	return !s.EarlyArrival(arrival) && !s.LateArrival(arrival)
}

// SameStreet reports whether both stops carry the same street id.
func (s Stop) SameStreet(o Stop) bool { return s.StreetID == o.StreetID }

// AsKind returns a copy of the stop with the given role. Used to give a
// shared physical location a dedicated role copy (e.g. a depot that is also
// the ending site) so later role changes never alias.
func (s Stop) AsKind(kind StopKind) Stop {
	s.Kind = kind
	return s
}

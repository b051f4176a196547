package dto

type PickupRequest struct {
	ID          int64   `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Opens       float64 `json:"opens"`
	Closes      float64 `json:"closes"`
	ServiceTime float64 `json:"service_time"`
	Demand      float64 `json:"demand"`
	StreetID    *int64  `json:"street_id,omitempty"`
}

type LocationRequest struct {
	ID     int64    `json:"id"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Opens  float64  `json:"opens"`
	Closes *float64 `json:"closes,omitempty"`
}

type VehicleRequest struct {
	VID        int64    `json:"vid"`
	StartID    int64    `json:"start_id"`
	DumpID     int64    `json:"dump_id"`
	EndID      int64    `json:"end_id"`
	Capacity   float64  `json:"capacity"`
	MaxTrips   *int     `json:"max_trips,omitempty"`
	ShiftStart float64  `json:"shift_start"`
	ShiftEnd   *float64 `json:"shift_end,omitempty"`
}

type MatrixEntryRequest struct {
	FromID  int64   `json:"from_id"`
	ToID    int64   `json:"to_id"`
	Seconds float64 `json:"seconds"`
}

type SolveOptions struct {
	WeightDuration *float64 `json:"weight_duration,omitempty"`
	WeightTWV      *float64 `json:"weight_twv,omitempty"`
	WeightCV       *float64 `json:"weight_cv,omitempty"`
	Dataset        string   `json:"dataset,omitempty"`
}

type SolveRequest struct {
	Pickups   []PickupRequest      `json:"pickups"`
	Locations []LocationRequest    `json:"locations"`
	Vehicles  []VehicleRequest     `json:"vehicles"`
	Matrix    []MatrixEntryRequest `json:"matrix"`
	Options   *SolveOptions        `json:"options,omitempty"`
}

type StopResponse struct {
	StopID    int64   `json:"stop_id"`
	Kind      string  `json:"kind"`
	Arrival   float64 `json:"arrival"`
	Wait      float64 `json:"wait"`
	Departure float64 `json:"departure"`
	Cargo     float64 `json:"cargo"`
	TWV       bool    `json:"twv"`
	CV        bool    `json:"cv"`
}

type TripResponse struct {
	Stops    []StopResponse `json:"stops"`
	Cost     float64        `json:"cost"`
	Feasible bool           `json:"feasible"`
}

type VehicleRouteResponse struct {
	VID   int64          `json:"vid"`
	Trips []TripResponse `json:"trips"`
}

type SolveResponse struct {
	RunID      string                 `json:"run_id,omitempty"`
	Cost       float64                `json:"cost"`
	Feasible   bool                   `json:"feasible"`
	Routes     []VehicleRouteResponse `json:"routes"`
	Unassigned []int64                `json:"unassigned,omitempty"`
}

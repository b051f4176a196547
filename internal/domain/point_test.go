package domain

import (
	"math"
	"testing"
)

func TestPointEuclideanDistance(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}

	if d := a.EuclideanDistance(b); d != 5.0 {
		t.Fatalf("distance = %v, want 5", d)
	}
	if d := b.EuclideanDistance(a); d != 5.0 {
		t.Fatalf("distance should be symmetric, got %v", d)
	}
}

func TestPointDistanceSelectsHaversineForGeoCoordinates(t *testing.T) {
	// Phoenix-ish coordinates, stored as (lon, lat).
	a := Point{X: -112.07, Y: 33.45}
	b := Point{X: -112.00, Y: 33.50}

	if !a.IsLatLon() || !b.IsLatLon() {
		t.Fatal("both points should be treated as lat/lon")
	}

	got := a.Distance(b)
	want := a.Haversine(b)
	if got != want {
		t.Fatalf("Distance = %v, want haversine %v", got, want)
	}

	// Roughly 8.5km between these points; a planar reading would be ~0.086.
	if got < 7000 || got > 10000 {
		t.Fatalf("haversine distance = %v m, want between 7000 and 10000", got)
	}

	if diff := math.Abs(a.Haversine(b) - b.Haversine(a)); diff > 1e-9 {
		t.Fatalf("haversine should be symmetric, diff = %v", diff)
	}
}

func TestPointDistanceFallsBackToEuclidean(t *testing.T) {
	a := Point{X: 500, Y: 20}
	b := Point{X: 503, Y: 24}

	if d := a.Distance(b); d != 5.0 {
		t.Fatalf("planar coordinates should use euclidean distance, got %v", d)
	}
}

func TestPositionAlongSegment(t *testing.T) {
	v := Point{X: 0, Y: 0}
	w := Point{X: 10, Y: 0}

	cases := []struct {
		name string
		p    Point
		tol  float64
		want float64
	}{
		{"on segment", Point{X: 5, Y: 0}, 1e-9, 0.5},
		{"within tolerance", Point{X: 2.5, Y: 0.5}, 1.0, 0.25},
		{"too far off", Point{X: 5, Y: 3}, 1.0, -1},
		{"before start", Point{X: -4, Y: 0}, 1.0, -1},
		{"past end", Point{X: 14, Y: 0}, 1.0, -1},
	}

	for _, tc := range cases {
		got := tc.p.PositionAlongSegment(v, w, tc.tol)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: position = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDistanceToSegment(t *testing.T) {
	v := Point{X: 0, Y: 0}
	w := Point{X: 10, Y: 0}
	p := Point{X: 5, Y: 3}

	dist, closest := p.DistanceToSegment(v, w)
	if dist != 3.0 {
		t.Fatalf("distance = %v, want 3", dist)
	}
	if closest.X != 5 || closest.Y != 0 {
		t.Fatalf("closest = %+v, want (5,0)", closest)
	}

	// Beyond the segment end the nearest point clamps to the endpoint.
	q := Point{X: 13, Y: 4}
	dist, closest = q.DistanceToSegment(v, w)
	if dist != 5.0 {
		t.Fatalf("clamped distance = %v, want 5", dist)
	}
	if closest != w {
		t.Fatalf("closest = %+v, want endpoint %+v", closest, w)
	}
}

func TestIsRightOfSegment(t *testing.T) {
	begin := Point{X: 0, Y: 0}
	end := Point{X: 0, Y: 10}

	right := Point{X: 3, Y: 5}
	left := Point{X: -3, Y: 5}

	if !right.IsRightOfSegment(begin, end) {
		t.Error("point east of a northbound segment should be on the right")
	}
	if left.IsRightOfSegment(begin, end) {
		t.Error("point west of a northbound segment should not be on the right")
	}
}

package domain

import "math"

// Earth radius used by the haversine branch, in meters.
const earthRadius = 6367000.0

// Immutable 2D location. X,Y hold either planar coordinates or
// longitude,latitude; Distance picks the metric accordingly.
type Point struct {
	X float64
	Y float64
}

// Vector addition.
func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

// Vector subtraction.
func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

// Scalar multiplication.
func (p Point) Times(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Vector dot product.
func (p Point) Dot(o Point) float64 { return p.X*o.X + p.Y*o.Y }

// Euclidean length of the vector.
func (p Point) Length() float64 { return math.Sqrt(p.X*p.X + p.Y*p.Y) }

// Gradient returns the slope of the vector from p to o.
// A vertical vector yields +Inf or -Inf depending on direction.
func (p Point) Gradient(o Point) float64 {
	deltaY := o.Y - p.Y
	deltaX := o.X - p.X
	if deltaX == 0 {
		if deltaY >= 0 {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	return deltaY / deltaX
}

// Unit returns the unit vector, or the zero point for a zero vector.
func (p Point) Unit() Point {
	length := p.Length()
	if length == 0 {
		return Point{}
	}
	return p.Times(1 / length)
}

// IsLatLon reports whether the coordinates fall in the geographic range
// (longitude in X, latitude in Y).
func (p Point) IsLatLon() bool {
	return -180 < p.X && p.X < 180 && -90 < p.Y && p.Y < 90
}

// Distance between two points: haversine when both look geographic,
// Euclidean otherwise.
func (p Point) Distance(o Point) float64 {
	if p.IsLatLon() && o.IsLatLon() {
		return p.Haversine(o)
	}
	return p.EuclideanDistance(o)
}

// Haversine computes the spherical distance in meters, reading X,Y as
// longitude,latitude in degrees.
func (p Point) Haversine(o Point) float64 {
	const deg2rad = math.Pi / 180
	dLon := (o.X - p.X) * deg2rad
	dLat := (o.Y - p.Y) * deg2rad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(p.Y*deg2rad)*math.Cos(o.Y*deg2rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// EuclideanDistance regardless of coordinate range.
func (p Point) EuclideanDistance(o Point) float64 {
	return math.Sqrt(p.distanceSquared(o))
}

func (p Point) distanceSquared(o Point) float64 {
	dx := o.X - p.X
	dy := o.Y - p.Y
	return dx*dx + dy*dy
}

// SamePos reports whether two points coincide within tolerance.
// A zero tolerance requires an exact match.
func (p Point) SamePos(o Point, tolerance float64) bool {
	if tolerance == 0 {
		return p.Distance(o) == 0
	}
	return p.Distance(o) < tolerance
}

// DistanceToSegment returns the shortest Euclidean distance from p to the
// segment v-w and the closest point on the segment.
func (p Point) DistanceToSegment(v, w Point) (float64, Point) {
	distSq := v.distanceSquared(w)
	if distSq == 0 { // degenerate segment
		return p.EuclideanDistance(v), v
	}

	t := p.Sub(v).Dot(w.Sub(v)) / distSq
	if t < 0 {
		return p.EuclideanDistance(v), v
	}
	if t > 1 {
		return p.EuclideanDistance(w), w
	}

	projection := v.Add(w.Sub(v).Times(t))
	return p.EuclideanDistance(projection), projection
}

// PositionAlongSegment returns the projection parameter t in [0,1] of p
// onto segment v-w when the perpendicular distance is within tolerance,
// or -1 when p does not lie on the segment.
func (p Point) PositionAlongSegment(v, w Point, tolerance float64) float64 {
	tolSq := tolerance * tolerance
	distSq := v.distanceSquared(w)
	if distSq == 0 {
		if p.distanceSquared(v) < tolSq {
			return 0
		}
		return -1
	}

	t := p.Sub(v).Dot(w.Sub(v)) / distSq
	if t < 0 || t > 1 {
		return -1
	}

	projection := v.Add(w.Sub(v).Times(t))
	if p.distanceSquared(projection) > tolSq {
		return -1
	}
	return t
}

// IsRightOfSegment reports whether p lies strictly to the right of the
// directed line from lineBegin to lineEnd.
func (p Point) IsRightOfSegment(lineBegin, lineEnd Point) bool {
	return (lineEnd.X-lineBegin.X)*(p.Y-lineBegin.Y)-
		(lineEnd.Y-lineBegin.Y)*(p.X-lineBegin.X) < 0
}

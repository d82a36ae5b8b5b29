// Geometric utilities for circuit diagram rendering.
// Provides Manhattan trace routing and arc-length interpolation along a route.

package circuit

import "math"

// Point represents a 2D coordinate in surface pixels.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect represents an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Contains reports whether p lies inside r. Edges are inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Route is an orthogonal path with a single bend column: a horizontal run
// from From to the midpoint column, a vertical run to To's row, and a
// horizontal run into To.
type Route struct {
	From, To Point
	MidX     float64
}

// ManhattanRoute builds the route between two points.
func ManhattanRoute(from, to Point) Route {
	return Route{From: from, To: to, MidX: (from.X + to.X) / 2}
}

// Points returns the four vertices of the route in travel order.
func (r Route) Points() [4]Point {
	return [4]Point{
		r.From,
		{r.MidX, r.From.Y},
		{r.MidX, r.To.Y},
		r.To,
	}
}

// Segments returns the lengths of the three runs.
func (r Route) Segments() (s1, s2, s3 float64) {
	s1 = math.Abs(r.MidX - r.From.X)
	s2 = math.Abs(r.To.Y - r.From.Y)
	s3 = math.Abs(r.To.X - r.MidX)
	return s1, s2, s3
}

// Length returns the total route length.
func (r Route) Length() float64 {
	s1, s2, s3 := r.Segments()
	return s1 + s2 + s3
}

// PointAt returns the point at fraction t of the route's arc length.
// t is clamped to [0,1]. A degenerate route returns From.
func (r Route) PointAt(t float64) Point {
	if t <= 0 {
		return r.From
	}
	if t >= 1 {
		return r.To
	}

	s1, s2, s3 := r.Segments()
	total := s1 + s2 + s3
	if total == 0 {
		return r.From
	}

	d := t * total
	switch {
	case d < s1:
		return Point{lerp(r.From.X, r.MidX, d/s1), r.From.Y}
	case d < s1+s2:
		return Point{r.MidX, lerp(r.From.Y, r.To.Y, (d-s1)/s2)}
	default:
		if s3 == 0 {
			return r.To
		}
		return Point{lerp(r.MidX, r.To.X, (d-s1-s2)/s3), r.To.Y}
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// frac returns x mod 1 in [0,1), also for negative x.
func frac(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}
	return f
}

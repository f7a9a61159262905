package gradient

import "math"

// Point represents a point in pixel space.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dot returns the dot product of two vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Length returns the length of the vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// GradientLine is the segment along which color stops are interpolated.
// Every cross section perpendicular to the line has a constant color.
type GradientLine struct {
	Start Point // Position of offset 0
	End   Point // Position of offset 1
}

// Midpoint returns the center of the line.
func (l GradientLine) Midpoint() Point {
	return l.Start.Lerp(l.End, 0.5)
}

// Length returns the distance between Start and End.
func (l GradientLine) Length() float64 {
	return l.End.Sub(l.Start).Length()
}

// Reverse returns the line with its endpoints swapped.
func (l GradientLine) Reverse() GradientLine {
	return GradientLine{Start: l.End, End: l.Start}
}

// Size is the rectangle an angle is resolved against.
// Unlike pixel dimensions it may be fractional.
type Size struct {
	W, H float64
}

package gradient

import "math"

// BoundaryEpsilon is the tolerance, in degrees, within which an angle is
// treated as one of the rectangle's diagonal angles.
const BoundaryEpsilon = 1e-9

// Resolver converts a rectangle of size w×h and an angle in degrees into the
// line a linear gradient fill is drawn along.
//
// Both [Resolve] and [ResolveLegacy] satisfy Resolver.
type Resolver func(w, h, angle float64) GradientLine

// rect caches the half extents used by every projection.
type rect struct {
	w, h   float64
	wh, hh float64
}

func newRect(w, h float64) rect {
	return rect{w: w, h: h, wh: w / 2, hh: h / 2}
}

// vertical is the bottom-to-top line through the center, the 0° direction.
func (r rect) vertical() GradientLine {
	return GradientLine{Start: Pt(r.wh, r.h), End: Pt(r.wh, 0)}
}

// projection computes the line for an angle strictly inside a sector.
// sin and cos are those of the angle in degrees.
type projection func(r rect, sin, cos float64) GradientLine

// sector is a half-open angle range [lo, hi) handled by a single projection.
type sector struct {
	lo, hi  float64
	name    string
	project projection
}

// corner is a diagonal angle whose line runs between opposite corners.
type corner struct {
	angle float64
	line  GradientLine
}

// Projections from the center onto a pair of opposite edges.
// Near 0° and 180° the endpoints lie on the top and bottom edges,
// near 90° and 270° on the left and right edges.

func projectUp(r rect, sin, cos float64) GradientLine {
	c := sin / cos * r.hh
	return GradientLine{Start: Pt(r.wh-c, r.h), End: Pt(r.wh+c, 0)}
}

func projectRight(r rect, sin, cos float64) GradientLine {
	c := r.wh * cos / sin
	return GradientLine{Start: Pt(0, r.hh+c), End: Pt(r.w, r.hh-c)}
}

func projectDown(r rect, sin, cos float64) GradientLine {
	c := sin / cos * r.hh
	return GradientLine{Start: Pt(r.wh+c, 0), End: Pt(r.wh-c, r.h)}
}

func projectLeft(r rect, sin, cos float64) GradientLine {
	c := r.wh * cos / sin
	return GradientLine{Start: Pt(r.w, r.hh-c), End: Pt(0, r.hh+c)}
}

// diagonalAngle returns the angle of the top-right diagonal seen from the
// center, rounded to whole degrees.
func diagonalAngle(w, h float64) float64 {
	return math.Round(math.Atan(w/h) * 180 / math.Pi)
}

// diagonals returns the four boundary angles for a rectangle.
// a1 is kept inside [1, 89] so the sectors around 0° and 90° are never empty.
func diagonals(w, h float64) (a1, a2, a3, a4 float64) {
	a1 = min(max(diagonalAngle(w, h), 1), 89)
	return a1, 180 - a1, 180 + a1, 360 - a1
}

// corners returns the boundary table, in ascending angle order.
func (r rect) corners(a1, a2, a3, a4 float64) [4]corner {
	return [4]corner{
		{angle: a1, line: GradientLine{Start: Pt(0, r.h), End: Pt(r.w, 0)}},
		{angle: a2, line: GradientLine{Start: Pt(0, 0), End: Pt(r.w, r.h)}},
		{angle: a3, line: GradientLine{Start: Pt(r.w, 0), End: Pt(0, r.h)}},
		{angle: a4, line: GradientLine{Start: Pt(r.w, r.h), End: Pt(0, 0)}},
	}
}

// sectors returns the projection table. The ranges are sorted and together
// cover [0, 360) without gaps.
func sectors(a1, a2, a3, a4 float64) [5]sector {
	return [5]sector{
		{lo: 0, hi: a1, name: "up", project: projectUp},
		{lo: a1, hi: a2, name: "right", project: projectRight},
		{lo: a2, hi: a3, name: "down", project: projectDown},
		{lo: a3, hi: a4, name: "left", project: projectLeft},
		{lo: a4, hi: 360, name: "up", project: projectUp},
	}
}

// NormalizeAngle maps any angle into [0, 360). NaN and infinities map to 0.
func NormalizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	deg := math.Mod(angle, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// sincosDeg returns the sine and cosine of an angle in degrees.
// Multiples of 90° are exact.
func sincosDeg(deg float64) (sin, cos float64) {
	switch deg {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(deg * math.Pi / 180)
}

// Resolve returns the gradient line for a w×h rectangle and an angle in
// degrees, measured clockwise from "up".
//
// The angle is normalized into [0, 360) first. At the four diagonal angles the
// line runs corner to corner; everywhere else the endpoints are projected
// from the center onto two opposite edges. The line always passes through
// the center (w/2, h/2). w and h must be positive.
func Resolve(w, h, angle float64) GradientLine {
	deg := NormalizeAngle(angle)
	r := newRect(w, h)
	a1, a2, a3, a4 := diagonals(w, h)

	for _, c := range r.corners(a1, a2, a3, a4) {
		if math.Abs(deg-c.angle) <= BoundaryEpsilon {
			return c.line
		}
	}

	sin, cos := sincosDeg(deg)
	for _, s := range sectors(a1, a2, a3, a4) {
		if deg >= s.lo && deg < s.hi {
			return s.project(r, sin, cos)
		}
	}
	// Not reached: the sector table covers [0, 360).
	return r.vertical()
}

// ResolveLegacy resolves the gradient line with the branch structure of
// earlier gradient generators: boundaries are matched by exact equality, the
// last sector is bounded by 361, and any angle no branch matches (negative
// angles, angles above 361, or a diagonal missed by rounding) silently
// produces the vertical bottom-to-top line.
//
// Use it only when pixel-for-pixel compatibility with such output is needed.
func ResolveLegacy(w, h, angle float64) GradientLine {
	r := newRect(w, h)
	a1 := diagonalAngle(w, h)
	a2, a3, a4 := 180-a1, 180+a1, 360-a1
	corners := r.corners(a1, a2, a3, a4)

	switch angle {
	case a1:
		return corners[0].line
	case a2:
		return corners[1].line
	case a3:
		return corners[2].line
	case a4:
		return corners[3].line
	}

	mtan := math.Tan(angle * math.Pi / 180)
	line := r.vertical()
	switch {
	case 0 < angle && angle < a1:
		c := mtan * r.hh
		line.Start.X, line.End.X = r.wh-c, r.wh+c
	case a1 < angle && angle < a2:
		c := r.wh / mtan
		line = GradientLine{Start: Pt(0, r.hh+c), End: Pt(r.w, r.hh-c)}
	case a2 < angle && angle < a3:
		c := mtan * r.hh
		line = GradientLine{Start: Pt(r.wh+c, 0), End: Pt(r.wh-c, r.h)}
	case a3 < angle && angle < a4:
		c := r.wh / mtan
		line = GradientLine{Start: Pt(r.w, r.hh-c), End: Pt(0, r.hh+c)}
	case a4 < angle && angle < 361:
		c := mtan * r.hh
		line.Start.X, line.End.X = r.wh-c, r.wh+c
	}
	return line
}

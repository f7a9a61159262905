package gradient

// LinearGradientBrush represents a linear color transition between two points.
// It implements the Brush interface and supports multiple color stops with
// sRGB interpolation. Colors beyond the endpoints extend the edge stops.
//
// Example:
//
//	line := gradient.Resolve(300, 150, 135)
//	brush := gradient.NewLinearGradientBrush(line).
//	    AddColorStop(0, gradient.Hex("#22577A")).
//	    AddColorStop(1, gradient.Hex("#57CC99"))
//	pm.Fill(brush, 1)
type LinearGradientBrush struct {
	Start Point  // Start point of the gradient
	End   Point  // End point of the gradient
	Stops []Stop // Color stops in insertion order
}

// NewLinearGradientBrush creates a new linear gradient along line.
func NewLinearGradientBrush(line GradientLine) *LinearGradientBrush {
	return &LinearGradientBrush{
		Start: line.Start,
		End:   line.End,
	}
}

// AddColorStop adds a color stop at the specified offset.
// Offset is clamped to [0, 1]. Stops are kept in the order they are added.
// Returns the gradient for method chaining.
func (g *LinearGradientBrush) AddColorStop(offset float64, c RGBA) *LinearGradientBrush {
	g.Stops = append(g.Stops, Stop{Offset: clamp01(offset), Color: c})
	return g
}

// Line returns the gradient line of the brush.
func (g *LinearGradientBrush) Line() GradientLine {
	return GradientLine{Start: g.Start, End: g.End}
}

// brushMarker implements the Brush interface marker.
func (LinearGradientBrush) brushMarker() {}

// ColorAt returns the color at the given point.
// Implements the Brush interface.
func (g *LinearGradientBrush) ColorAt(x, y float64) RGBA {
	return g.shader()(x, y)
}

// shader orders the stops once and returns a sampling function.
// The returned function does not observe later AddColorStop calls and is
// safe for concurrent use.
func (g *LinearGradientBrush) shader() func(x, y float64) RGBA {
	stops := newRamp(g.Stops)

	d := g.End.Sub(g.Start)
	lengthSq := d.Dot(d)

	// Zero-length gradient (start == end)
	if lengthSq == 0 {
		c := stops.at(0)
		return func(_, _ float64) RGBA { return c }
	}

	start := g.Start
	return func(x, y float64) RGBA {
		// t = dot(P - Start, End - Start) / |End - Start|^2
		return stops.at(Pt(x, y).Sub(start).Dot(d) / lengthSq)
	}
}

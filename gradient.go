package gradient

import (
	"errors"
	"slices"
	"sort"
)

// ErrNoStops is returned when a gradient is rendered without any color stop.
var ErrNoStops = errors.New("gradient: no color stops")

// ColorStop is a color anchored at a percentage along the gradient line.
//
// A gradient is an ordered []ColorStop; the slice order is the stop order.
// Position is expected in [0, 100] and is clamped when the stop is added to
// a brush.
type ColorStop struct {
	Color    RGBA
	Position float64 // Percent along the gradient line, 0 to 100
}

// Offset returns the stop position as a fraction of the gradient line.
func (s ColorStop) Offset() float64 {
	return s.Position / 100
}

// Stop represents a color at a fractional offset in a gradient brush.
type Stop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Color  RGBA    // Color at this position
}

// orderStops returns the stops ordered by offset.
// The sort is stable: stops sharing an offset keep their insertion order,
// which is how hard color transitions are expressed. The input is not modified.
func orderStops(stops []Stop) []Stop {
	sorted := slices.Clone(stops)
	slices.SortStableFunc(sorted, func(a, b Stop) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
	return sorted
}

// clamp01 clamps a value to [0, 1] range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// interpolateColor blends two colors in sRGB space on premultiplied
// components, the way canvas gradient fills blend stops.
func interpolateColor(c1, c2 RGBA, t float64) RGBA {
	if c1.A == 1 && c2.A == 1 {
		return c1.Lerp(c2, t)
	}
	return c1.Premultiply().Lerp(c2.Premultiply(), t).Unpremultiply()
}

// ramp is a list of stops ordered by offset, ready for sampling.
type ramp []Stop

func newRamp(stops []Stop) ramp {
	return ramp(orderStops(stops))
}

// at returns the color at offset t. t is padded to [0, 1].
func (r ramp) at(t float64) RGBA {
	switch len(r) {
	case 0:
		return Transparent
	case 1:
		return r[0].Color
	}

	t = clamp01(t)

	// First stop strictly past t; with duplicated offsets the later stop wins.
	idx := sort.Search(len(r), func(i int) bool {
		return r[i].Offset > t
	})
	if idx == 0 {
		return r[0].Color
	}
	if idx >= len(r) {
		return r[len(r)-1].Color
	}

	lo, hi := r[idx-1], r[idx]
	local := (t - lo.Offset) / (hi.Offset - lo.Offset)
	return interpolateColor(lo.Color, hi.Color, local)
}

package gradient

// Brush is a fill source sampled at pixel centers. The set of brushes is
// closed: SolidBrush for single-stop gradients and LinearGradientBrush for
// everything else.
type Brush interface {
	brushMarker()

	// ColorAt returns the color at (x, y) in pixel space.
	ColorAt(x, y float64) RGBA
}

// shaderBrush is implemented by brushes that precompute sampling state once
// per fill.
type shaderBrush interface {
	shader() func(x, y float64) RGBA
}

// SolidBrush paints one color everywhere.
type SolidBrush struct {
	Color RGBA
}

func (SolidBrush) brushMarker() {}

// ColorAt returns b.Color.
func (b SolidBrush) ColorAt(_, _ float64) RGBA {
	return b.Color
}

// Solid returns a brush painting c.
func Solid(c RGBA) SolidBrush {
	return SolidBrush{Color: c}
}

// samplerOf returns the per-pixel sampling function of b.
func samplerOf(b Brush) func(x, y float64) RGBA {
	if s, ok := b.(shaderBrush); ok {
		return s.shader()
	}
	return b.ColorAt
}

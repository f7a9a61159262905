package gradient

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
)

// PreviewSize is the width and height of preview bitmaps, in pixels.
const PreviewSize = 300

// PreviewGeometry returns the rectangle a preview resolves its angle against:
// the image's aspect ratio scaled so the longer side is PreviewSize. The
// shorter side keeps its fractional length. A square image yields
// PreviewSize×PreviewSize.
func PreviewGeometry(spec ImageSpec) Size {
	w, h := float64(spec.Width), float64(spec.Height)
	switch {
	case w < h:
		return Size{W: w * PreviewSize / h, H: PreviewSize}
	case w > h:
		return Size{W: PreviewSize, H: h * PreviewSize / w}
	}
	return Size{W: PreviewSize, H: PreviewSize}
}

// Render paints the gradient described by stops and spec.Angle onto a new
// canvas. The gradient line is resolved against canvas and the whole canvas
// rectangle is filled; a fractional side yields a partially covered last
// row or column of pixels.
//
// Stops are added to the brush in slice order at Position/100. At least one
// stop is required; a single stop paints a solid color.
func Render(stops []ColorStop, spec ImageSpec, canvas Size, opts ...RenderOption) (*Pixmap, error) {
	o := applyRenderOptions(opts)
	if !(canvas.W > 0 && canvas.H > 0) || math.IsInf(canvas.W, 0) || math.IsInf(canvas.H, 0) {
		return nil, fmt.Errorf("gradient: render: %w: %vx%v", ErrInvalidDimension, canvas.W, canvas.H)
	}
	if canvas.W > float64(o.maxDimension) || canvas.H > float64(o.maxDimension) {
		return nil, fmt.Errorf("gradient: render: %w: %vx%v exceeds %d", ErrTooLarge, canvas.W, canvas.H, o.maxDimension)
	}
	width, height := int(math.Ceil(canvas.W)), int(math.Ceil(canvas.H))
	return render(stops, spec.Angle, width, height, canvas, canvas, o)
}

// RenderExport paints the gradient at the image's full resolution.
func RenderExport(stops []ColorStop, spec ImageSpec, opts ...RenderOption) (*Pixmap, error) {
	o := applyRenderOptions(opts)
	if err := spec.Validate(o.maxDimension); err != nil {
		return nil, fmt.Errorf("gradient: render export: %w", err)
	}
	return render(stops, spec.Angle, spec.Width, spec.Height, spec.Size(), spec.Size(), o)
}

// RenderPreview paints a PreviewSize×PreviewSize bitmap whose gradient line
// is resolved against [PreviewGeometry], so the preview shows the same visual
// direction as the export regardless of the export's aspect ratio.
//
// The image dimensions are not limited by the maximum render dimension:
// the preview cost is fixed.
func RenderPreview(stops []ColorStop, spec ImageSpec, opts ...RenderOption) (*Pixmap, error) {
	o := applyRenderOptions(opts)
	if err := spec.Validate(math.MaxInt32); err != nil {
		return nil, fmt.Errorf("gradient: render preview: %w", err)
	}

	geom := PreviewGeometry(spec)
	area := Size{W: PreviewSize, H: PreviewSize}
	if o.previewFit == PreviewLetterbox {
		area = geom
	}
	Logger().Debug("gradient: preview geometry",
		"width", spec.Width, "height", spec.Height,
		slog.Group("geometry", "w", geom.W, "h", geom.H),
		"fit", o.previewFit)

	return render(stops, spec.Angle, PreviewSize, PreviewSize, geom, area, o)
}

// render allocates a width×height pixmap, resolves the gradient line for
// geom, and fills the area rectangle anchored at the origin.
func render(stops []ColorStop, angle float64, width, height int, geom, area Size, o renderOptions) (*Pixmap, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("gradient: render: %w", ErrNoStops)
	}

	line := o.resolver(geom.W, geom.H, angle)
	brush := brushFor(stops, line)

	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pm := NewPixmap(width, height)
	bands := pm.FillRect(brush, 0, 0, area.W, area.H, workers)

	Logger().Debug("gradient: rendered",
		"width", width, "height", height,
		"angle", angle,
		slog.Group("start", "x", line.Start.X, "y", line.Start.Y),
		slog.Group("end", "x", line.End.X, "y", line.End.Y),
		"stops", len(stops),
		"bands", bands)

	return pm, nil
}

// brushFor builds the fill for stops along line. One stop is a solid fill.
func brushFor(stops []ColorStop, line GradientLine) Brush {
	if len(stops) == 1 {
		return Solid(stops[0].Color)
	}
	g := NewLinearGradientBrush(line)
	for _, s := range stops {
		g.AddColorStop(s.Offset(), s.Color)
	}
	return g
}

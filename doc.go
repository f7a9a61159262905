// Package gradient renders multi-stop linear color gradients into raster images.
//
// # Overview
//
// gradient takes a rectangle size, an angle in the CSS convention and an
// ordered list of color stops, and produces a bitmap that can be encoded to
// PNG, BMP or TIFF. It is the rendering core behind gradient generators in
// design tools: the host editor supplies the inputs, gradient paints the
// pixels.
//
// # Quick Start
//
//	import "github.com/gogpu/gradient"
//
//	stops := []gradient.ColorStop{
//	    {Color: gradient.Hex("#22577A"), Position: 0},
//	    {Color: gradient.Hex("#57CC99"), Position: 100},
//	}
//	spec := gradient.ImageSpec{Width: 1000, Height: 500, Angle: 135}
//
//	pm, err := gradient.RenderExport(stops, spec)
//	if err != nil {
//	    return err
//	}
//	return pm.SavePNG("gradient.png")
//
// # Angles
//
// Angles follow the convention of declarative gradient syntaxes:
//   - 0 points up (the last stop is at the top)
//   - 90 points right
//   - angles increase clockwise
//
// This differs from the trigonometric convention used by the math package.
// [Resolve] converts an angle into the [GradientLine] a linear fill needs.
// The line always passes through the rectangle center and, at the four
// diagonal angles, runs exactly corner to corner.
//
// # Coordinate System
//
// Pixel space with the origin at the top-left, X increasing right and Y
// increasing down.
//
// # Previews
//
// [RenderPreview] paints a fixed 300×300 bitmap but resolves the gradient
// line against the export's aspect ratio scaled into that box, so the preview
// shows the same visual direction as the export.
package gradient

package gradient

import "fmt"

// PreviewFit controls how a preview paints its fixed-size canvas.
type PreviewFit int

const (
	// PreviewFill paints the whole preview canvas.
	PreviewFill PreviewFit = iota

	// PreviewLetterbox paints only the rectangle with the export's aspect
	// ratio at the top-left of the canvas; the rest stays transparent.
	PreviewLetterbox
)

// String returns the name of the fit.
func (f PreviewFit) String() string {
	switch f {
	case PreviewFill:
		return "fill"
	case PreviewLetterbox:
		return "letterbox"
	default:
		return fmt.Sprintf("PreviewFit(%d)", int(f))
	}
}

// ParsePreviewFit parses "fill" or "letterbox".
func ParsePreviewFit(s string) (PreviewFit, error) {
	switch s {
	case "", "fill":
		return PreviewFill, nil
	case "letterbox":
		return PreviewLetterbox, nil
	}
	return PreviewFill, fmt.Errorf("gradient: unknown preview fit %q", s)
}

// RenderOption configures a render call.
//
// Example:
//
//	pm, err := gradient.RenderExport(stops, spec,
//	    gradient.WithWorkers(4),
//	    gradient.WithMaxDimension(4096))
type RenderOption func(*renderOptions)

// renderOptions holds optional configuration for rendering.
type renderOptions struct {
	resolver     Resolver
	workers      int
	maxDimension int
	previewFit   PreviewFit
}

// defaultRenderOptions returns the default render options.
func defaultRenderOptions() renderOptions {
	return renderOptions{
		resolver:     Resolve,
		workers:      1,
		maxDimension: MaxDimension,
		previewFit:   PreviewFill,
	}
}

func applyRenderOptions(opts []RenderOption) renderOptions {
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithResolver sets the function that turns the angle into a gradient line.
func WithResolver(r Resolver) RenderOption {
	return func(o *renderOptions) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithLegacyAngles resolves angles with [ResolveLegacy] instead of [Resolve].
func WithLegacyAngles() RenderOption {
	return WithResolver(ResolveLegacy)
}

// WithWorkers sets the number of goroutines used to fill large images.
// n <= 0 uses GOMAXPROCS. The default fills on the calling goroutine.
func WithWorkers(n int) RenderOption {
	return func(o *renderOptions) {
		o.workers = n
	}
}

// WithMaxDimension sets the largest accepted width or height.
func WithMaxDimension(n int) RenderOption {
	return func(o *renderOptions) {
		if n > 0 {
			o.maxDimension = n
		}
	}
}

// WithPreviewFit sets how RenderPreview paints its canvas.
func WithPreviewFit(f PreviewFit) RenderOption {
	return func(o *renderOptions) {
		o.previewFit = f
	}
}

package gradient

import (
	"errors"
	"fmt"
)

// MaxDimension is the default upper bound for rendered width and height.
const MaxDimension = 8192

var (
	// ErrInvalidDimension is returned when a width or height is not positive.
	ErrInvalidDimension = errors.New("gradient: invalid dimension")

	// ErrTooLarge is returned when a width or height exceeds the render limit.
	ErrTooLarge = errors.New("gradient: image too large")
)

// ImageSpec describes the image to produce.
//
// Angle is in degrees, clockwise from "up", and is expected in [0, 360].
// Other values are normalized by [Resolve].
type ImageSpec struct {
	Width  int
	Height int
	Angle  float64
}

// Size returns the image's dimensions as a Size.
func (s ImageSpec) Size() Size {
	return Size{W: float64(s.Width), H: float64(s.Height)}
}

// Validate checks the dimensions against a maximum of limit pixels per side.
// A limit <= 0 means MaxDimension.
func (s ImageSpec) Validate(limit int) error {
	if limit <= 0 {
		limit = MaxDimension
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, s.Width, s.Height)
	}
	if s.Width > limit || s.Height > limit {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrTooLarge, s.Width, s.Height, limit)
	}
	return nil
}

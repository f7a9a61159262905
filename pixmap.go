package gradient

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gradient/internal/parallel"
)

// Pixmap represents a rectangular pixel buffer: the rendered bitmap.
// Pixels are stored as non-premultiplied RGBA, 4 bytes per pixel.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a new transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (non-premultiplied RGBA).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.put((y*p.width+x)*4, c)
}

func (p *Pixmap) put(i int, c RGBA) {
	p.data[i+0] = uint8(clamp255(c.R*255 + 0.5))
	p.data[i+1] = uint8(clamp255(c.G*255 + 0.5))
	p.data[i+2] = uint8(clamp255(c.B*255 + 0.5))
	p.data[i+3] = uint8(clamp255(c.A*255 + 0.5))
}

// GetPixel returns the color of a single pixel.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Fill paints the whole pixmap with a brush. See FillRect.
func (p *Pixmap) Fill(b Brush, workers int) int {
	return p.FillRect(b, 0, 0, float64(p.width), float64(p.height), workers)
}

// FillRect paints every pixel whose center lies inside the rectangle
// (x0, y0)–(x1, y1) with the brush, sampling the brush at pixel centers.
// Pixels outside the rectangle are left untouched.
//
// Rows are split into bands filled by up to workers goroutines; workers <= 1
// fills on the calling goroutine. FillRect returns the number of bands used.
func (p *Pixmap) FillRect(b Brush, x0, y0, x1, y1 float64, workers int) int {
	// Pixel x is covered when x0 <= x+0.5 < x1.
	px0 := max(int(math.Ceil(x0-0.5)), 0)
	py0 := max(int(math.Ceil(y0-0.5)), 0)
	px1 := min(int(math.Ceil(x1-0.5)), p.width)
	py1 := min(int(math.Ceil(y1-0.5)), p.height)
	if px0 >= px1 || py0 >= py1 {
		return 0
	}

	sample := samplerOf(b)
	bands := parallel.FillRows(px1-px0, py1-py0, workers, func(band parallel.Band) {
		for y := py0 + band.Y0; y < py0+band.Y1; y++ {
			fy := float64(y) + 0.5
			row := y * p.width * 4
			for x := px0; x < px1; x++ {
				p.put(row+x*4, sample(float64(x)+0.5, fy))
			}
		}
	})
	return len(bands)
}

// ToImage converts the pixmap to an image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// IsOpaque reports whether every pixel is fully opaque.
func (p *Pixmap) IsOpaque() bool {
	for i := 3; i < len(p.data); i += 4 {
		if p.data[i] != 255 {
			return false
		}
	}
	return true
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * 4
	return color.NRGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}

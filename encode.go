package gradient

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for an unknown output format.
var ErrUnsupportedFormat = errors.New("gradient: unsupported format")

// Format is an encodable image format.
type Format int

const (
	// FormatPNG is lossless PNG, the default.
	FormatPNG Format = iota
	// FormatBMP is uncompressed Windows bitmap.
	FormatBMP
	// FormatTIFF is deflate-compressed TIFF.
	FormatTIFF
)

var formatInfo = [...]struct {
	name, ext, mime string
}{
	FormatPNG:  {"png", ".png", "image/png"},
	FormatBMP:  {"bmp", ".bmp", "image/bmp"},
	FormatTIFF: {"tiff", ".tiff", "image/tiff"},
}

// String returns the short format name.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatInfo) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatInfo[f].name
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f < 0 || int(f) >= len(formatInfo) {
		return ""
	}
	return formatInfo[f].ext
}

// MIMEType returns the media type of the format.
func (f Format) MIMEType() string {
	if f < 0 || int(f) >= len(formatInfo) {
		return "application/octet-stream"
	}
	return formatInfo[f].mime
}

// ParseFormat parses a format name or file extension ("png", ".tif").
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "", "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	}
	return FormatPNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	if pm, ok := img.(*Pixmap); ok {
		img = pm.ToImage()
	}

	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("gradient: encode %v: %w", f, err)
	}
	return nil
}

// EncodeToBytes encodes img in format f and returns the bytes.
func EncodeToBytes(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI encodes img in format f as a base64 data URI,
// e.g. "data:image/png;base64,iVBORw0KGgo...".
func DataURI(img image.Image, f Format) (string, error) {
	data, err := EncodeToBytes(img, f)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(f.MIMEType()) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString("data:")
	sb.WriteString(f.MIMEType())
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String(), nil
}

// Save writes the pixmap to path in format f.
func (p *Pixmap) Save(path string, f Format) error {
	file, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("gradient: create file: %w", err)
	}
	if err := Encode(file, p, f); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	return p.Save(path, FormatPNG)
}

// EncodePNG writes the pixmap as PNG to w.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return Encode(w, p, FormatPNG)
}

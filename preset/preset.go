// Package preset loads and saves gradient definitions as YAML, TOML or JSON
// documents and converts them to the types the renderer consumes.
//
// Every document is checked against an embedded JSON Schema before use:
// dimensions are at least 1, positions lie in [0, 100] and a preset holds
// between MinStops and MaxStops stops.
package preset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/gradient"
)

// Stop count bounds enforced by the schema.
const (
	MinStops = 2
	MaxStops = 31
)

var (
	// ErrInvalid is returned when a document does not conform to the schema.
	ErrInvalid = errors.New("preset: invalid document")

	// ErrUnknownFormat is returned for an unrecognized document format.
	ErrUnknownFormat = errors.New("preset: unknown format")
)

//go:embed schema.json
var schemaJSON []byte

var schema = mustCompileSchema()

func mustCompileSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("preset: compile schema: %v", err))
	}
	return s
}

// Stop is a color stop as written in a document. Color is any string
// accepted by gradient.ParseColor.
type Stop struct {
	Color    string  `json:"color" yaml:"color" toml:"color"`
	Position float64 `json:"position" yaml:"position" toml:"position"`
}

// Preset is a complete gradient definition.
type Preset struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Width  int     `json:"width" yaml:"width" toml:"width"`
	Height int     `json:"height" yaml:"height" toml:"height"`
	Angle  float64 `json:"angle" yaml:"angle" toml:"angle"`
	Stops  []Stop  `json:"stops" yaml:"stops" toml:"stops"`
}

// Default returns the gradient a new editor session starts with.
func Default() Preset {
	return Preset{
		Width:  500,
		Height: 500,
		Angle:  180,
		Stops: []Stop{
			{Color: "#22577A", Position: 0},
			{Color: "#57CC99", Position: 100},
		},
	}
}

// Format is a document encoding.
type Format string

// Supported document formats.
const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

// FormatOf returns the format implied by a file name's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Load reads, decodes and validates the preset at path.
func Load(path string) (Preset, error) {
	f, err := FormatOf(path)
	if err != nil {
		return Preset{}, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Preset{}, fmt.Errorf("preset: read: %w", err)
	}
	p, err := Parse(data, f)
	if err != nil {
		return Preset{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a document.
func Parse(data []byte, f Format) (Preset, error) {
	var p Preset
	var err error
	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &p)
	case TOML:
		err = toml.Unmarshal(data, &p)
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&p)
	default:
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("preset: decode %s: %w", f, err)
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// Validate checks the preset against the schema and parses every color.
func (p Preset) Validate() error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(p))
	if err != nil {
		return fmt.Errorf("preset: validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	if _, err := p.ColorStops(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Marshal encodes the preset in format f.
func (p Preset) Marshal(f Format) ([]byte, error) {
	switch f {
	case YAML:
		return yaml.Marshal(p)
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return nil, fmt.Errorf("preset: encode toml: %w", err)
		}
		return buf.Bytes(), nil
	case JSON:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("preset: encode json: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Save validates the preset and writes it to path in the format implied by
// the extension.
func (p Preset) Save(path string) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := p.Marshal(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // presets are not secret
		return fmt.Errorf("preset: write: %w", err)
	}
	return nil
}

// Spec returns the image spec of the preset.
func (p Preset) Spec() gradient.ImageSpec {
	return gradient.ImageSpec{Width: p.Width, Height: p.Height, Angle: p.Angle}
}

// ColorStops parses the stop colors, keeping document order.
func (p Preset) ColorStops() ([]gradient.ColorStop, error) {
	stops := make([]gradient.ColorStop, len(p.Stops))
	for i, s := range p.Stops {
		c, err := gradient.ParseColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		stops[i] = gradient.ColorStop{Color: c, Position: s.Position}
	}
	return stops, nil
}

// FromGradient builds a preset from renderer types. Colors are written as hex.
func FromGradient(spec gradient.ImageSpec, stops []gradient.ColorStop) Preset {
	p := Preset{Width: spec.Width, Height: spec.Height, Angle: spec.Angle}
	p.Stops = make([]Stop, len(stops))
	for i, s := range stops {
		p.Stops[i] = Stop{Color: s.Color.Hex(), Position: s.Position}
	}
	return p
}

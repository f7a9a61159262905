package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/gradient"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvLogLevel, EnvLogFormat, EnvLogFile, EnvMaxDimension, EnvWorkers} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gradientgen.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileKeepsUnsetDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
render:
  workers: 4
  preview_fit: Letterbox
output:
  format: TIFF
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := Defaults()
	want.Render.Workers = 4
	want.Render.PreviewFit = "letterbox"
	want.Output.Format = "tiff"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if cfg.OutputFormat() != gradient.FormatTIFF {
		t.Errorf("OutputFormat() = %v, want tiff", cfg.OutputFormat())
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogFile, "/tmp/gradient.log")
	t.Setenv(EnvMaxDimension, "2048")
	t.Setenv(EnvWorkers, "not-a-number")

	cfg, err := Load(writeConfig(t, "render:\n  workers: 3\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" || cfg.Logging.File != "/tmp/gradient.log" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Render.MaxDimension != 2048 {
		t.Errorf("Render.MaxDimension = %d, want 2048", cfg.Render.MaxDimension)
	}
	if cfg.Render.Workers != 3 {
		t.Errorf("Render.Workers = %d, want the file value 3", cfg.Render.Workers)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
		want error
	}{
		{"negative workers", "render:\n  workers: -1\n", ErrInvalid},
		{"negative max", "render:\n  max_dimension: -5\n", ErrInvalid},
		{"bad fit", "render:\n  preview_fit: stretch\n", ErrInvalid},
		{"bad format", "output:\n  format: gif\n", ErrInvalid},
		{"bad log format", "logging:\n  format: xml\n", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Load(writeConfig(t, "render: [")); err == nil {
		t.Error("Load() of malformed YAML succeeded")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	cfg := Defaults()
	cfg.Render.LegacyAngles = true
	cfg.Output.Dir = "out"
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Render.LegacyAngles = true
	cfg.Render.Workers = 2
	if got := len(cfg.RenderOptions()); got != 4 {
		t.Errorf("RenderOptions() returned %d options, want 4", got)
	}

	// The options must be accepted by the renderer.
	stops := []gradient.ColorStop{{Color: gradient.Red, Position: 0}, {Color: gradient.Blue, Position: 100}}
	if _, err := gradient.RenderExport(stops, gradient.ImageSpec{Width: 4, Height: 4}, cfg.RenderOptions()...); err != nil {
		t.Errorf("RenderExport() with config options error = %v", err)
	}

	cfg.Render.MaxDimension = 2
	if _, err := gradient.RenderExport(stops, gradient.ImageSpec{Width: 4, Height: 4}, cfg.RenderOptions()...); !errors.Is(err, gradient.ErrTooLarge) {
		t.Errorf("RenderExport() over the configured limit error = %v, want ErrTooLarge", err)
	}
}

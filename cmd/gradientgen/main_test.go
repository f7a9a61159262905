package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gogpu/gradient/asset"
	"github.com/gogpu/gradient/internal/config"
	"github.com/gogpu/gradient/preset"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvLogLevel, config.EnvLogFormat, config.EnvLogFile, config.EnvMaxDimension, config.EnvWorkers} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_DefaultPreset(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "g.png")
	preview := filepath.Join(dir, "g-preview.png")

	code, _, stderr := runCLI(t, "-out", out, "-preview", preview)
	if code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 500 || b.Dy() != 500 {
		t.Errorf("output size = %v, want 500x500", b)
	}

	data, err = os.ReadFile(preview)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	pv, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("preview is not PNG: %v", err)
	}
	if b := pv.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Errorf("preview size = %v, want 300x300", b)
	}
	if !strings.Contains(stderr, "saved") {
		t.Errorf("stderr missing save log:\n%s", stderr)
	}
}

func TestRun_PresetConfigAndSideOutputs(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	p := preset.Default()
	p.Name = "wide"
	p.Width, p.Height = 40, 20
	presetPath := filepath.Join(dir, "wide.toml")
	if err := p.Save(presetPath); err != nil {
		t.Fatal(err)
	}

	cfg := config.Defaults()
	cfg.Output.Dir = filepath.Join(dir, "images")
	cfg.Output.Format = "bmp"
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := config.Save(cfgPath, cfg); err != nil {
		t.Fatal(err)
	}

	uploads := filepath.Join(dir, "uploads")
	saved := filepath.Join(dir, "effective.json")
	code, stdout, stderr := runCLI(t,
		"-preset", presetPath,
		"-config", cfgPath,
		"-angle", "45",
		"-data-uri",
		"-upload-dir", uploads,
		"-save-preset", saved,
	)
	if code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr)
	}

	f, err := os.Open(filepath.Join(dir, "images", "wide.bmp"))
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("output is not BMP: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("output size = %v, want 40x20", b)
	}

	if !strings.HasPrefix(stdout, "data:image/png;base64,") {
		t.Errorf("stdout = %.40q..., want a data URI", stdout)
	}

	store, err := asset.NewDirStore(uploads)
	if err != nil {
		t.Fatal(err)
	}
	placed, err := store.Placements()
	if err != nil || len(placed) != 1 {
		t.Errorf("Placements() = %v, %v; want one entry", placed, err)
	}

	back, err := preset.Load(saved)
	if err != nil {
		t.Fatalf("saved preset: %v", err)
	}
	if back.Angle != 45 || back.Name != "wide" {
		t.Errorf("saved preset = %+v, want angle 45 and name wide", back)
	}
}

func TestRun_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("width: 0\nheight: 1\nangle: 0\nstops: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"-nope"}, 2},
		{"watch without preset", []string{"-watch"}, 2},
		{"save onto watched preset", []string{"-preset", bad, "-watch", "-save-preset", bad}, 2},
		{"save onto watched preset via unclean path", []string{"-preset", bad, "-watch", "-save-preset", dir + "/./bad.yaml"}, 2},
		{"invalid preset", []string{"-preset", bad, "-out", filepath.Join(dir, "x.png")}, 1},
		{"missing config", []string{"-config", filepath.Join(dir, "none.yaml")}, 1},
		{"bad format", []string{"-format", "gif", "-out", filepath.Join(dir, "x.gif")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, tt.args...); code != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, code, tt.want)
			}
		})
	}
}

func TestRun_WatchStopsOnCancel(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	presetPath := filepath.Join(dir, "p.yaml")
	if err := preset.Default().Save(presetPath); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"-preset", presetPath, "-out", filepath.Join(dir, "p.png"), "-watch"}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("run() = %d, stderr:\n%s", code, stderr.String())
	}
}

func TestParseFlags_SavePresetWhileWatching(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "p.yaml")
	if err := preset.Default().Save(watched); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link.yaml")
	if err := os.Symlink(watched, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	var stderr bytes.Buffer
	if _, err := parseFlags([]string{"-preset", watched, "-watch", "-save-preset", link}, &stderr); err == nil {
		t.Error("parseFlags() accepted -save-preset pointing at the watched preset through a symlink")
	}
	if _, err := parseFlags([]string{"-preset", watched, "-watch", "-save-preset", filepath.Join(dir, "copy.yaml")}, &stderr); err != nil {
		t.Errorf("parseFlags() rejected a different -save-preset target: %v", err)
	}
	if _, err := parseFlags([]string{"-preset", watched, "-save-preset", watched}, &stderr); err != nil {
		t.Errorf("parseFlags() rejected saving over the preset without -watch: %v", err)
	}
}

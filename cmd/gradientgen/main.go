// Command gradientgen renders linear gradients described by preset files.
//
// Usage:
//
//	gradientgen -preset ocean.yaml -out ocean.png -preview ocean-preview.png
//	gradientgen -preset ocean.yaml -watch
//	gradientgen -angle 45 -data-uri
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gogpu/gradient"
	"github.com/gogpu/gradient/asset"
	"github.com/gogpu/gradient/internal/config"
	glog "github.com/gogpu/gradient/internal/log"
	"github.com/gogpu/gradient/internal/watch"
	"github.com/gogpu/gradient/preset"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	presetPath   string
	configPath   string
	out          string
	preview      string
	format       string
	dataURI      bool
	uploadDir    string
	watch        bool
	legacyAngles bool
	angle        float64
	angleSet     bool
	savePreset   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("gradientgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.presetPath, "preset", "", "gradient preset (.yaml, .toml or .json); built-in default if empty")
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.StringVar(&o.out, "out", "", "output image (default <output.dir>/<preset name>.<format>)")
	fs.StringVar(&o.preview, "preview", "", "also write a 300x300 preview image here")
	fs.StringVar(&o.format, "format", "", "image format: png, bmp or tiff (default from config)")
	fs.BoolVar(&o.dataURI, "data-uri", false, "print the image as a data URI on stdout")
	fs.StringVar(&o.uploadDir, "upload-dir", "", "upload the image to this asset directory and add it to its design")
	fs.BoolVar(&o.watch, "watch", false, "re-render whenever the preset file changes")
	fs.BoolVar(&o.legacyAngles, "legacy-angles", false, "resolve angles with the legacy exact-match rules")
	fs.Float64Var(&o.angle, "angle", 0, "override the preset angle in degrees")
	fs.StringVar(&o.savePreset, "save-preset", "", "write the effective preset to this file")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "angle" {
			o.angleSet = true
		}
	})
	if o.watch && o.presetPath == "" {
		return o, errors.New("-watch requires -preset")
	}
	// Saving onto the watched file would trigger another render.
	if o.watch && o.savePreset != "" && samePath(o.presetPath, o.savePreset) {
		return o, errors.New("-save-preset cannot overwrite the preset being watched")
	}
	return o, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	sa, errA := os.Stat(a)
	sb, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(sa, sb)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "gradientgen:", err)
		return 2
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintln(stderr, "gradientgen:", err)
		return 1
	}
	logger, closer := glog.New(stderr, glog.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	defer closer.Close()
	gradient.SetLogger(logger)
	defer gradient.SetLogger(nil)

	g, err := newGenerator(o, cfg, stdout, logger)
	if err != nil {
		logger.Error("setup failed", "err", err)
		return 1
	}
	if err := g.generate(ctx); err != nil {
		logger.Error("render failed", "err", err)
		return 1
	}
	if !o.watch {
		return 0
	}

	w, err := watch.New(o.presetPath, 0)
	if err != nil {
		logger.Error("watch failed", "err", err)
		return 1
	}
	w.OnError = func(err error) { logger.Warn("re-render failed", "err", err) }
	logger.Info("watching preset", "path", w.Path())
	if err := w.Run(ctx, func() error { return g.generate(ctx) }); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watch stopped", "err", err)
		return 1
	}
	return 0
}

type generator struct {
	opts   options
	cfg    config.Config
	format gradient.Format
	render []gradient.RenderOption
	store  *asset.DirStore
	stdout io.Writer
	log    *slog.Logger
}

func newGenerator(o options, cfg config.Config, stdout io.Writer, logger *slog.Logger) (*generator, error) {
	g := &generator{opts: o, cfg: cfg, stdout: stdout, log: logger}

	g.format = cfg.OutputFormat()
	if o.format != "" {
		f, err := gradient.ParseFormat(o.format)
		if err != nil {
			return nil, err
		}
		g.format = f
	}

	g.render = cfg.RenderOptions()
	if o.legacyAngles {
		g.render = append(g.render, gradient.WithLegacyAngles())
	}

	if o.uploadDir != "" {
		s, err := asset.NewDirStore(o.uploadDir)
		if err != nil {
			return nil, err
		}
		g.store = s
	}
	return g, nil
}

func (g *generator) loadPreset() (preset.Preset, error) {
	p := preset.Default()
	if g.opts.presetPath != "" {
		var err error
		if p, err = preset.Load(g.opts.presetPath); err != nil {
			return p, err
		}
	}
	if g.opts.angleSet {
		p.Angle = g.opts.angle
	}
	return p, nil
}

func (g *generator) outputPath(p preset.Preset) string {
	if g.opts.out != "" {
		return g.opts.out
	}
	name := p.Name
	if name == "" && g.opts.presetPath != "" {
		base := filepath.Base(g.opts.presetPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if name == "" {
		name = "gradient"
	}
	return filepath.Join(g.cfg.Output.Dir, name+g.format.Ext())
}

// generate renders the export image and every requested side output once.
func (g *generator) generate(ctx context.Context) error {
	p, err := g.loadPreset()
	if err != nil {
		return err
	}
	stops, err := p.ColorStops()
	if err != nil {
		return err
	}

	img, err := gradient.RenderExport(stops, p.Spec(), g.render...)
	if err != nil {
		return err
	}
	out := g.outputPath(p)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := img.Save(out, g.format); err != nil {
		return err
	}
	g.log.Info("saved", "path", out, "w", p.Width, "h", p.Height, "angle", p.Angle)

	if g.opts.preview != "" {
		pv, err := gradient.RenderPreview(stops, p.Spec(), g.render...)
		if err != nil {
			return err
		}
		f, err := gradient.ParseFormat(filepath.Ext(g.opts.preview))
		if err != nil {
			f = gradient.FormatPNG
		}
		if err := pv.Save(g.opts.preview, f); err != nil {
			return err
		}
		g.log.Info("saved preview", "path", g.opts.preview)
	}

	if g.opts.dataURI {
		uri, err := gradient.DataURI(img, gradient.FormatPNG)
		if err != nil {
			return err
		}
		fmt.Fprintln(g.stdout, uri)
	}

	if g.store != nil {
		ref, err := asset.AddToDesign(ctx, g.store, g.store, img)
		if err != nil {
			return err
		}
		g.log.Info("added to design", "ref", string(ref), "dir", g.store.Dir())
	}

	if g.opts.savePreset != "" {
		if err := p.Save(g.opts.savePreset); err != nil {
			return err
		}
	}
	return nil
}

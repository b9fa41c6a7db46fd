package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/hellowindow/backend"
	"github.com/gogpu/hellowindow/backend/offscreen"
	"github.com/gogpu/hellowindow/backend/software"
	"github.com/gogpu/hellowindow/config"
	"github.com/gogpu/hellowindow/framebuffer"
	"github.com/gogpu/hellowindow/lifecycle"
	"github.com/gogpu/hellowindow/platform/headless"
)

var errNoFrame = errors.New("no frame was presented")

func runRender(ctx context.Context, e *env, args []string) error {
	cfg := e.cfg
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	output := fs.String("o", "mandelbrot.png", "output image (.png, .bmp, .tif)")
	width := fs.Uint("width", uint(cfg.Window.Width), "image width")
	height := fs.Uint("height", uint(cfg.Window.Height), "image height")
	backendName := fs.String("backend", software.Name, "backend: "+software.Name+" or "+offscreen.Name)
	rendererKind := fs.String("renderer", cfg.Renderer, "renderer: clear or fractal")
	scale := fs.Int("scale", 1, "nearest-neighbor upscale factor")
	frames := fs.Int("frames", 1, "number of frames to draw")
	quiet := fs.Bool("q", false, "no progress bar")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 0 || *scale < 1 || *frames < 1 {
		fs.Usage()
		return errUsage
	}
	if _, err := framebuffer.FormatFromPath(*output); err != nil {
		return err
	}
	cfg.Renderer = *rendererKind
	if err := cfg.Validate(); err != nil {
		return err
	}
	size := lifecycle.Size{Width: uint32(*width), Height: uint32(*height)}.Clamp() //nolint:gosec // flag values

	var last *framebuffer.Buffer
	keep := func(img *framebuffer.Buffer) { last = img.Clone() }
	var g lifecycle.Graphics
	switch *backendName {
	case software.Name:
		g = software.New(software.WithPresentFunc(keep))
	case offscreen.Name:
		if entry, ok := backend.Get(offscreen.Name); !ok || (entry.Available != nil && !entry.Available()) {
			return fmt.Errorf("%w: %s", backend.ErrBackendUnavailable, offscreen.Name)
		}
		g = offscreen.New(offscreen.WithPresentFunc(keep))
	default:
		return fmt.Errorf("%w: %q cannot render headless", backend.ErrBackendNotFound, *backendName)
	}

	var progress func(done, total int)
	if !*quiet && cfg.Renderer == config.RendererFractal {
		bar := progressbar.NewOptions(int(size.Height),
			progressbar.OptionSetWriter(e.stderr),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionClearOnFinish())
		defer bar.Finish()
		progress = func(int, int) { _ = bar.Add(1) }
	}
	r, closeRenderer, err := newRenderer(ctx, cfg, progress)
	if err != nil {
		return err
	}
	defer closeRenderer()

	attrs := cfg.WindowAttributes()
	attrs.Size = size
	p := headless.New(headless.Script(size, *frames),
		headless.WithLogger(e.logger),
		headless.WithContext(ctx))
	c := lifecycle.New(p, g, r,
		lifecycle.WithWindowAttributes(attrs),
		lifecycle.WithLogger(e.logger))
	defer c.Close()
	if err := p.Run(c); err != nil {
		return err
	}
	if last == nil {
		return errNoFrame
	}

	if *scale > 1 {
		err = framebuffer.SaveImage(*output, last.Scale(*scale))
	} else {
		err = last.Save(*output)
	}
	if err != nil {
		return err
	}
	e.logger.Info("image written",
		"path", *output,
		"size", size.String(),
		"scale", *scale,
		"presented", c.Stats().Presented,
		"skipped", c.Stats().Skipped)
	return nil
}

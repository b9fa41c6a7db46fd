package main

import (
	"context"
	"fmt"

	"github.com/gogpu/hellowindow/backend"
	"github.com/gogpu/hellowindow/config"
	"github.com/gogpu/hellowindow/fractal"
	"github.com/gogpu/hellowindow/lifecycle"
	"github.com/gogpu/hellowindow/platform/glfw"
	"github.com/gogpu/hellowindow/renderer"
)

// runWindow serves both window and mandelbrot; they differ only in their
// base configuration.
func runWindow(ctx context.Context, e *env, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments %q", args)
	}

	g, err := backend.Open(e.cfg.Backend)
	if err != nil {
		return err
	}
	r, closeRenderer, err := newRenderer(ctx, e.cfg, nil)
	if err != nil {
		return err
	}
	defer closeRenderer()

	p, err := glfw.New(glfw.WithLogger(e.logger), glfw.WithContext(ctx))
	if err != nil {
		return err
	}
	defer p.Close()

	c := lifecycle.New(p, g, r,
		lifecycle.WithWindowAttributes(e.cfg.WindowAttributes()),
		lifecycle.WithLogger(e.logger))
	defer c.Close()
	return p.Run(c)
}

// newRenderer builds the renderer selected by cfg. The returned function
// releases it.
func newRenderer(ctx context.Context, cfg config.Config, progress fractal.ProgressFunc) (lifecycle.Renderer, func(), error) {
	switch cfg.Renderer {
	case config.RendererFractal:
		opts := []fractal.Option{fractal.WithWorkers(cfg.Fractal.Workers)}
		if progress != nil {
			opts = append(opts, fractal.WithProgress(progress))
		}
		fr, err := fractal.NewRenderer(cfg.FractalParams(), opts...)
		if err != nil {
			return nil, nil, err
		}
		return renderer.NewFractal(ctx, fr), fr.Close, nil
	default:
		return renderer.NewClear(cfg.Color()), func() {}, nil
	}
}

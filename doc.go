// Package hellowindow hosts small windowed rendering programs built around
// one reusable piece: the surface lifecycle.
//
// # Overview
//
// A platform (glfw, or a headless event script) delivers lifecycle events to
// a [lifecycle.Controller]. On the first activation the controller creates
// the window and opens a graphics backend on it (webgpu, an offscreen HAL
// target, or a software frame buffer). On every resize it reconfigures the
// surface to the window's physical size. On every redraw it acquires a
// frame, hands it to a renderer and presents it.
//
// Two renderers are provided:
//
//   - renderer.Clear clears the frame to a fixed color with one GPU render pass
//   - renderer.Fractal computes an escape-time Mandelbrot raster on the CPU
//     and blits it into the frame's mapped pixel buffer
//
// # Quick Start
//
//	fr, err := fractal.NewRenderer(fractal.DefaultParams())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer fr.Close()
//
//	p := headless.New(headless.Script(lifecycle.Size{Width: 640, Height: 480}, 1))
//	c := lifecycle.New(p, software.New(), renderer.NewFractal(ctx, fr))
//	defer c.Close()
//	if err := p.Run(c); err != nil {
//	    log.Fatal(err)
//	}
//
// # Logging
//
// Nothing is logged by default. Use [SetLogger] to install a slog logger that
// all sub-packages share.
//
// # Packages
//
//   - lifecycle: controller state machine and collaborator interfaces
//   - fractal: escape-time raster
//   - renderer: clear and fractal frame renderers
//   - framebuffer: XRGB pixel buffer and image encoding
//   - backend: backend registry; backend/software, backend/offscreen, backend/webgpu
//   - platform/glfw, platform/headless: event sources
//   - media: container and stream metadata probe
//   - config: YAML configuration
package hellowindow

// Version information
const (
	// Version is the current version of the module
	Version = "0.1.0"
)

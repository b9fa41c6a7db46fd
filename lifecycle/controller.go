// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/hellowindow"
)

// Stats counts what the controller did with redraw requests.
type Stats struct {
	// Presented is the number of frames rendered and presented.
	Presented uint64

	// Skipped is the number of redraws that produced no frame.
	Skipped uint64

	// Reconfigures is the number of times the surface configuration was
	// reapplied after the initial configuration.
	Reconfigures uint64

	// LastFrameTime is the render+present time of the last presented frame.
	LastFrameTime time.Duration
}

// Controller drives a window, its surface and a renderer from platform
// events. It is not safe for concurrent use; platforms deliver events on a
// single goroutine.
type Controller struct {
	platform Platform
	graphics Graphics
	renderer Renderer
	attrs    WindowAttributes
	logger   *slog.Logger

	state   State
	window  Window
	surface Surface
	config  SurfaceConfig
	stats   Stats
}

// New creates a controller in the Uninitialized state. No resource is
// acquired until the first EventActivated.
func New(p Platform, g Graphics, r Renderer, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller{
		platform: p,
		graphics: g,
		renderer: r,
		attrs:    o.attrs,
		logger:   o.logger,
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Config returns the applied surface configuration. ok is false until the
// surface has been configured.
func (c *Controller) Config() (cfg SurfaceConfig, ok bool) {
	return c.config, c.state == StateActive
}

// Window returns the window, or nil before activation.
func (c *Controller) Window() Window { return c.window }

// Stats returns frame accounting.
func (c *Controller) Stats() Stats { return c.stats }

func (c *Controller) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return hellowindow.Logger()
}

// Dispatch handles one platform event and reports what it expects the
// platform to do next. Only *InitError results are fatal; all other errors
// leave the controller Active.
func (c *Controller) Dispatch(ev Event) (Action, error) {
	if c.state == StateTerminated {
		return ActionNone, nil
	}
	switch ev.Kind {
	case EventActivated:
		return c.activate()
	case EventResized:
		return c.resize(ev.Size)
	case EventRedrawRequested:
		return c.redraw()
	case EventCloseRequested:
		return c.close()
	default:
		return ActionNone, nil
	}
}

func (c *Controller) activate() (Action, error) {
	c.log().Info("Resumed")
	if c.state != StateUninitialized {
		return ActionNone, nil
	}

	w, err := c.platform.CreateWindow(c.attrs)
	if err != nil {
		return ActionNone, &InitError{Step: StepWindow, Err: fmt.Errorf("%w: %w", ErrWindowCreation, err)}
	}

	s, err := c.graphics.Open(w)
	if err != nil {
		return ActionNone, &InitError{Step: StepSurface, Err: err}
	}

	size := w.Size().Clamp()
	cfg, err := s.DefaultConfig(size)
	if err != nil {
		s.Release()
		return ActionNone, &InitError{Step: StepConfigure, Err: err}
	}
	cfg = cfg.WithSize(size)
	if err := s.Configure(cfg); err != nil {
		s.Release()
		return ActionNone, &InitError{Step: StepConfigure, Err: err}
	}

	c.window = w
	c.surface = s
	c.config = cfg
	c.state = StateActive
	c.log().Info("surface configured",
		"size", cfg.Size().String(),
		"format", cfg.Format,
		"present_mode", cfg.PresentMode.String(),
		"alpha_mode", cfg.AlphaMode.String())
	return ActionNone, nil
}

func (c *Controller) resize(size Size) (Action, error) {
	if c.state != StateActive {
		return ActionNone, nil
	}
	if err := c.reconfigure(size); err != nil {
		return ActionNone, err
	}
	c.window.RequestRedraw()
	return ActionRedraw, nil
}

// reconfigure reapplies the configuration with a new size. The stored
// configuration only changes once the surface accepted it.
func (c *Controller) reconfigure(size Size) error {
	cfg := c.config.WithSize(size)
	if err := c.surface.Configure(cfg); err != nil {
		c.log().Warn("surface reconfiguration failed", "size", cfg.Size().String(), "err", err)
		return fmt.Errorf("%w: %w", ErrConfigure, err)
	}
	c.config = cfg
	c.stats.Reconfigures++
	c.log().Debug("surface reconfigured", "size", cfg.Size().String())
	return nil
}

func (c *Controller) redraw() (Action, error) {
	if c.state != StateActive {
		return ActionNone, nil
	}

	// Some platforms deliver a redraw before the matching resize; never
	// present into a configuration that no longer matches the window.
	if want := c.window.Size().Clamp(); want != c.config.Size() {
		if err := c.reconfigure(want); err != nil {
			c.skip("configure", err)
			return ActionNone, nil
		}
	}

	start := time.Now()
	f, err := c.surface.AcquireFrame()
	if err != nil {
		c.skip("acquire", err)
		return ActionNone, nil
	}
	if err := c.renderer.Render(f); err != nil {
		f.Discard()
		c.skip("render", err)
		return ActionNone, nil
	}
	if err := f.Present(); err != nil {
		c.skip("present", err)
		return ActionNone, nil
	}

	c.stats.Presented++
	c.stats.LastFrameTime = time.Since(start)
	c.log().Debug("frame presented",
		"size", f.Size().String(),
		"elapsed", c.stats.LastFrameTime)
	return ActionNone, nil
}

func (c *Controller) skip(stage string, err error) {
	c.stats.Skipped++
	c.log().Warn("frame skipped", "stage", stage, "err", err, "skipped", c.stats.Skipped)
}

func (c *Controller) close() (Action, error) {
	c.log().Info("Close requested")
	c.state = StateTerminated
	c.platform.Exit()
	return ActionExit, nil
}

// Close releases the surface, device and queue. It is safe to call more
// than once and in any state.
func (c *Controller) Close() error {
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.state == StateActive {
		c.state = StateTerminated
	}
	return nil
}

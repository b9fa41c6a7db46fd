// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package webgpu implements the windowed graphics backend on WebGPU
// (wgpu-native through github.com/cogentcore/webgpu).
//
// The window passed to Open must describe its native surface by
// implementing SurfaceWindow; the glfw platform does.
package webgpu

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellowindow"
	"github.com/gogpu/hellowindow/backend"
	"github.com/gogpu/hellowindow/framebuffer"
	"github.com/gogpu/hellowindow/lifecycle"
)

// Name is the registry name of this backend.
const Name = "webgpu"

func init() {
	backend.Register(Name, backend.PriorityWindowed, func() (lifecycle.Graphics, error) {
		return New(), nil
	}, nil)
}

// surfaceUsage is what clearing and CPU uploads need from the swapchain.
const surfaceUsage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopyDst

// SurfaceWindow is a window that can describe its native surface.
type SurfaceWindow interface {
	lifecycle.Window
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// ErrUnsupportedFormat is returned by Configure for a format the surface
// does not support.
var ErrUnsupportedFormat = errors.New("webgpu: unsupported surface format")

// ErrNoBlitFormat is returned when CPU pixels cannot be uploaded because
// the surface format is not an 8-bit RGBA or BGRA format.
var ErrNoBlitFormat = errors.New("webgpu: surface format does not accept CPU pixels")

// Graphics opens WebGPU surfaces on native windows.
type Graphics struct {
	powerPreference wgpu.PowerPreference
}

// Option configures Graphics.
type Option func(*Graphics)

// WithHighPerformance prefers a discrete adapter.
func WithHighPerformance() Option {
	return func(g *Graphics) {
		g.powerPreference = wgpu.PowerPreferenceHighPerformance
	}
}

// New creates a WebGPU backend.
func New(opts ...Option) *Graphics {
	g := &Graphics{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Open creates an instance and a surface for w, then requests an adapter
// compatible with that surface and a device. It blocks until the device is
// ready.
func (g *Graphics) Open(w lifecycle.Window) (lifecycle.Surface, error) {
	sw, ok := w.(SurfaceWindow)
	if !ok {
		return nil, fmt.Errorf("%w: %T has no native surface", lifecycle.ErrSurfaceCreation, w)
	}
	desc := sw.SurfaceDescriptor()
	if desc == nil {
		return nil, fmt.Errorf("%w: window returned no surface descriptor", lifecycle.ErrSurfaceCreation)
	}

	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, fmt.Errorf("%w: create instance", lifecycle.ErrNoAdapter)
	}
	surface := instance.CreateSurface(desc)
	if surface == nil {
		instance.Release()
		return nil, lifecycle.ErrSurfaceCreation
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   g.powerPreference,
	})
	if err != nil {
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: %w", lifecycle.ErrNoAdapter, err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: request device: %w", lifecycle.ErrNoAdapter, err)
	}

	s := &Surface{
		instance: instance,
		surface:  surface,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
		caps:     surface.GetCapabilities(adapter),
	}
	hellowindow.Logger().Info("webgpu device ready",
		"formats", len(s.caps.Formats),
		"present_modes", len(s.caps.PresentModes))
	return s, nil
}

// Surface is a configured WebGPU surface with its adapter, device and
// queue.
type Surface struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	caps     wgpu.SurfaceCapabilities

	native   wgpu.SurfaceConfiguration
	cfg      lifecycle.SurfaceConfig
	pixels   *framebuffer.Buffer
	staging  []byte
	released bool
}

// DefaultConfig picks the preferred format and Fifo presentation.
func (s *Surface) DefaultConfig(size lifecycle.Size) (lifecycle.SurfaceConfig, error) {
	if len(s.caps.Formats) == 0 {
		return lifecycle.SurfaceConfig{}, fmt.Errorf("%w: surface reports no formats", lifecycle.ErrSurfaceCreation)
	}
	size = size.Clamp()
	return lifecycle.SurfaceConfig{
		Width:       size.Width,
		Height:      size.Height,
		Format:      toGPUFormat(preferredFormat(s.caps.Formats)),
		PresentMode: lifecycle.PresentModeFifo,
		AlphaMode:   lifecycle.AlphaModeAuto,
		Usage:       surfaceUsage,
	}, nil
}

// Configure applies cfg to the surface. An undefined format selects the
// surface's preferred one; a format the surface does not support is an
// error.
func (s *Surface) Configure(cfg lifecycle.SurfaceConfig) error {
	if s.released {
		return lifecycle.ErrReleased
	}
	native, applied, err := s.nativeConfig(cfg)
	if err != nil {
		return err
	}
	s.native = native
	s.surface.Configure(s.adapter, s.device, &s.native)
	s.cfg = applied
	return nil
}

// nativeConfig translates cfg for wgpu. The returned SurfaceConfig carries
// the format and modes actually applied.
func (s *Surface) nativeConfig(cfg lifecycle.SurfaceConfig) (wgpu.SurfaceConfiguration, lifecycle.SurfaceConfig, error) {
	var format wgpu.TextureFormat
	if cfg.Format == gputypes.TextureFormatUndefined {
		format = preferredFormat(s.caps.Formats)
	} else {
		f, ok := fromGPUFormat(cfg.Format)
		if !ok || !slices.Contains(s.caps.Formats, f) {
			return wgpu.SurfaceConfiguration{}, cfg, fmt.Errorf("%w: %v", ErrUnsupportedFormat, cfg.Format)
		}
		format = f
	}
	native := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopyDst,
		Format:      format,
		Width:       max(cfg.Width, 1),
		Height:      max(cfg.Height, 1),
		PresentMode: s.presentMode(cfg.PresentMode),
		AlphaMode:   s.alphaMode(cfg.AlphaMode),
	}
	cfg.Format = toGPUFormat(format)
	if native.PresentMode == wgpu.PresentModeFifo {
		cfg.PresentMode = lifecycle.PresentModeFifo
	}
	if native.AlphaMode == wgpu.CompositeAlphaModeAuto {
		cfg.AlphaMode = lifecycle.AlphaModeAuto
	}
	return native, cfg, nil
}

func (s *Surface) presentMode(m lifecycle.PresentMode) wgpu.PresentMode {
	want := wgpu.PresentModeFifo
	switch m {
	case lifecycle.PresentModeMailbox:
		want = wgpu.PresentModeMailbox
	case lifecycle.PresentModeImmediate:
		want = wgpu.PresentModeImmediate
	}
	if slices.Contains(s.caps.PresentModes, want) {
		return want
	}
	return wgpu.PresentModeFifo
}

func (s *Surface) alphaMode(m lifecycle.AlphaMode) wgpu.CompositeAlphaMode {
	want := wgpu.CompositeAlphaModeAuto
	switch m {
	case lifecycle.AlphaModeOpaque:
		want = wgpu.CompositeAlphaModeOpaque
	case lifecycle.AlphaModePremultiplied:
		want = wgpu.CompositeAlphaModePremultiplied
	}
	if want == wgpu.CompositeAlphaModeAuto || slices.Contains(s.caps.AlphaModes, want) {
		return want
	}
	return wgpu.CompositeAlphaModeAuto
}

// AcquireFrame gets the next swapchain texture.
func (s *Surface) AcquireFrame() (lifecycle.Frame, error) {
	if s.released {
		return nil, lifecycle.ErrReleased
	}
	tex, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", lifecycle.ErrFrameAcquire, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("%w: create view: %w", lifecycle.ErrFrameAcquire, err)
	}
	return &Frame{surface: s, texture: tex, view: view, size: s.cfg.Size()}, nil
}

// Release frees the surface, device and queue.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.queue != nil {
		s.queue.Release()
	}
	s.device.Release()
	s.adapter.Release()
	s.surface.Release()
	s.instance.Release()
}

func (s *Surface) framePixels(size lifecycle.Size) *framebuffer.Buffer {
	w, h := int(size.Width), int(size.Height)
	if s.pixels == nil {
		s.pixels = framebuffer.New(w, h)
	} else if s.pixels.Width() != w || s.pixels.Height() != h {
		s.pixels.Resize(w, h)
	}
	return s.pixels
}

// Frame is a swapchain texture. It implements lifecycle.ClearTarget and
// lifecycle.PixelTarget; CPU pixels are uploaded with WriteTexture before
// presenting.
type Frame struct {
	surface *Surface
	texture *wgpu.Texture
	view    *wgpu.TextureView
	size    lifecycle.Size
	pixels  *framebuffer.Buffer
	done    bool
}

// Size returns the frame size.
func (f *Frame) Size() lifecycle.Size { return f.size }

// Clear encodes a single render pass clearing the view to c and submits it.
func (f *Frame) Clear(c gputypes.Color) error {
	s := f.surface
	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("webgpu: create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       f.view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: c.R, G: c.G, B: c.B, A: c.A},
		}},
	})
	pass.End()
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("webgpu: finish encoder: %w", err)
	}
	defer cmd.Release()
	s.queue.Submit(cmd)
	return nil
}

// Pixels returns the CPU buffer uploaded to the texture on Present.
func (f *Frame) Pixels() *framebuffer.Buffer {
	if f.pixels == nil {
		f.pixels = f.surface.framePixels(f.size)
	}
	return f.pixels
}

// Present uploads pending CPU pixels and presents the texture.
func (f *Frame) Present() error {
	if f.done {
		return errors.New("webgpu: frame already finished")
	}
	f.done = true
	defer f.release()

	if f.pixels != nil {
		if err := f.upload(); err != nil {
			return err
		}
	}
	f.surface.surface.Present()
	return nil
}

func (f *Frame) upload() error {
	s := f.surface
	order, ok := byteOrder(s.native.Format)
	if !ok {
		return fmt.Errorf("%w: %v", ErrNoBlitFormat, s.native.Format)
	}
	need := f.pixels.Width() * f.pixels.Height() * 4
	if cap(s.staging) < need {
		s.staging = make([]byte, 0, need)
	}
	if order == orderBGRA {
		s.staging = f.pixels.BGRA(s.staging[:0])
	} else {
		s.staging = f.pixels.RGBA(s.staging[:0])
	}

	w, h := uint32(f.pixels.Width()), uint32(f.pixels.Height()) //nolint:gosec // sized from uint32 config
	s.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  f.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		s.staging,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * w,
			RowsPerImage: h,
		},
		&wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	return nil
}

// Discard releases the texture without presenting it.
func (f *Frame) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.release()
}

func (f *Frame) release() {
	f.view.Release()
	f.texture.Release()
}

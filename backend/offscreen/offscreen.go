// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package offscreen implements a GPU backend that renders into an
// offscreen texture through the gogpu/wgpu HAL and reads every presented
// frame back to the CPU.
//
// The device is either opened from the Vulkan HAL backend on first use or
// shared from a host application via WithProvider.
package offscreen

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellowindow"
	"github.com/gogpu/hellowindow/backend"
	"github.com/gogpu/hellowindow/framebuffer"
	"github.com/gogpu/hellowindow/lifecycle"
	"github.com/gogpu/wgpu/hal"

	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Name is the registry name of this backend.
const Name = "hal"

// copyPitchAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// gpuTimeout bounds every fence wait.
const gpuTimeout = 5 * time.Second

// targetUsage is required for clearing, uploading and reading back.
const targetUsage = gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageCopyDst

func init() {
	backend.Register(Name, backend.PriorityOffscreen, func() (lifecycle.Graphics, error) {
		return New(), nil
	}, available)
}

func available() bool {
	_, ok := hal.GetBackend(gputypes.BackendVulkan)
	return ok
}

// halProvider is implemented by device providers that expose their HAL
// objects, such as a gogpu application.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// ErrNotHalProvider is returned when a shared provider does not expose
// hal.Device and hal.Queue.
var ErrNotHalProvider = errors.New("offscreen: provider does not expose HAL device and queue")

// PresentFunc receives every presented image read back from the GPU. The
// buffer is only valid during the call.
type PresentFunc func(img *framebuffer.Buffer)

// Option configures Graphics.
type Option func(*Graphics)

// WithProvider shares the device and queue of a host application instead
// of opening a new one. The provider must also implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func WithProvider(p gpucontext.DeviceProvider) Option {
	return func(g *Graphics) {
		g.provider = p
	}
}

// WithPresentFunc registers a callback run after every present.
func WithPresentFunc(fn PresentFunc) Option {
	return func(g *Graphics) {
		g.onPresent = fn
	}
}

// Graphics opens offscreen GPU surfaces.
type Graphics struct {
	provider  gpucontext.DeviceProvider
	onPresent PresentFunc
}

// New creates an offscreen GPU backend.
func New(opts ...Option) *Graphics {
	g := &Graphics{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Open acquires a device and queue and returns a surface sized from w on
// its first Configure. Opening blocks until the device is ready.
func (g *Graphics) Open(w lifecycle.Window) (lifecycle.Surface, error) {
	if g.provider != nil {
		device, queue, err := fromProvider(g.provider)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", lifecycle.ErrNoAdapter, err)
		}
		requested := g.provider.SurfaceFormat()
		format, _ := targetFormat(requested)
		if format != requested && requested != gputypes.TextureFormatUndefined {
			hellowindow.Logger().Warn("offscreen: provider format has no CPU byte order, using BGRA8Unorm",
				"requested", requested)
		}
		return newSurface(device, queue, nil, format, g.onPresent), nil
	}

	dev, err := openDevice()
	if err != nil {
		return nil, err
	}
	hellowindow.Logger().Info("offscreen device opened",
		"adapter", dev.adapterName,
		"window_size", w.Size().String())
	return newSurface(dev.device, dev.queue, dev, gputypes.TextureFormatBGRA8Unorm, g.onPresent), nil
}

func fromProvider(p gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	hp, ok := p.(halProvider)
	if !ok {
		return nil, nil, ErrNotHalProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, nil, ErrNotHalProvider
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, nil, ErrNotHalProvider
	}
	return device, queue, nil
}

// ownedDevice is a device this package opened and must destroy.
type ownedDevice struct {
	instance    hal.Instance
	device      hal.Device
	queue       hal.Queue
	adapterName string
}

func openDevice() (*ownedDevice, error) {
	b, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", lifecycle.ErrNoAdapter)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", lifecycle.ErrNoAdapter, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", lifecycle.ErrNoAdapter)
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", lifecycle.ErrNoAdapter, err)
	}
	return &ownedDevice{
		instance:    instance,
		device:      openDev.Device,
		queue:       openDev.Queue,
		adapterName: selected.Info.Name,
	}, nil
}

func (d *ownedDevice) destroy() {
	d.device.Destroy()
	d.instance.Destroy()
}

// Surface is an offscreen color texture plus a staging buffer for
// readback. It implements the HalDevice/HalQueue accessors so other gogpu
// code can share the device.
type Surface struct {
	mu        sync.Mutex
	device    hal.Device
	queue     hal.Queue
	owned     *ownedDevice
	format    gputypes.TextureFormat
	order     byteOrder
	onPresent PresentFunc

	cfg        lifecycle.SurfaceConfig
	configured bool
	texture    hal.Texture
	view       hal.TextureView
	staging    hal.Buffer
	rowPitch   uint32

	pixels   *framebuffer.Buffer
	front    *framebuffer.Buffer
	readback []byte
	acquired bool
	released bool

	presented uint64
}

func newSurface(device hal.Device, queue hal.Queue, owned *ownedDevice, format gputypes.TextureFormat, onPresent PresentFunc) *Surface {
	format, order := targetFormat(format)
	return &Surface{
		device:    device,
		queue:     queue,
		owned:     owned,
		format:    format,
		order:     order,
		onPresent: onPresent,
	}
}

// HalDevice returns the hal.Device.
func (s *Surface) HalDevice() any { return s.device }

// HalQueue returns the hal.Queue.
func (s *Surface) HalQueue() any { return s.queue }

// SurfaceFormat returns the color texture format.
func (s *Surface) SurfaceFormat() gputypes.TextureFormat { return s.format }

// DefaultConfig returns a Fifo configuration in the surface format.
func (s *Surface) DefaultConfig(size lifecycle.Size) (lifecycle.SurfaceConfig, error) {
	size = size.Clamp()
	return lifecycle.SurfaceConfig{
		Width:       size.Width,
		Height:      size.Height,
		Format:      s.format,
		PresentMode: lifecycle.PresentModeFifo,
		AlphaMode:   lifecycle.AlphaModeOpaque,
		Usage:       targetUsage,
	}, nil
}

// Configure (re)creates the color texture and staging buffer. An unchanged
// size keeps the existing resources.
func (s *Surface) Configure(cfg lifecycle.SurfaceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return lifecycle.ErrReleased
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("offscreen: zero-sized configuration %s", cfg.Size())
	}
	if s.configured && cfg.Size() == s.cfg.Size() && s.texture != nil {
		s.cfg = cfg
		return nil
	}

	s.destroyTargets()
	if err := s.createTargets(cfg.Width, cfg.Height); err != nil {
		s.destroyTargets()
		return err
	}
	s.cfg = cfg
	s.configured = true
	return nil
}

func (s *Surface) createTargets(w, h uint32) error {
	tex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_color",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        s.format,
		Usage:         targetUsage,
	})
	if err != nil {
		return fmt.Errorf("offscreen: create texture: %w", err)
	}
	s.texture = tex

	view, err := s.device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "offscreen_color_view"})
	if err != nil {
		return fmt.Errorf("offscreen: create texture view: %w", err)
	}
	s.view = view

	s.rowPitch = (w*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	size := uint64(s.rowPitch) * uint64(h)
	staging, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "offscreen_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("offscreen: create staging buffer: %w", err)
	}
	s.staging = staging

	if s.pixels == nil {
		s.pixels = framebuffer.New(int(w), int(h))
	} else {
		s.pixels.Resize(int(w), int(h))
	}
	if cap(s.readback) < int(size) {
		s.readback = make([]byte, size)
	}
	s.readback = s.readback[:size]
	return nil
}

func (s *Surface) destroyTargets() {
	if s.staging != nil {
		s.device.DestroyBuffer(s.staging)
		s.staging = nil
	}
	if s.view != nil {
		s.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.texture != nil {
		s.device.DestroyTexture(s.texture)
		s.texture = nil
	}
}

// AcquireFrame returns the offscreen texture as a frame.
func (s *Surface) AcquireFrame() (lifecycle.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.released:
		return nil, lifecycle.ErrReleased
	case !s.configured:
		return nil, fmt.Errorf("%w: surface not configured", lifecycle.ErrFrameAcquire)
	case s.acquired:
		return nil, fmt.Errorf("%w: previous frame still outstanding", lifecycle.ErrFrameAcquire)
	}
	s.acquired = true
	return &Frame{surface: s, size: s.cfg.Size()}, nil
}

// Release destroys the GPU resources, and the device if this package
// opened it.
func (s *Surface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.destroyTargets()
	if s.owned != nil {
		s.owned.destroy()
		s.owned = nil
	}
	s.device = nil
	s.queue = nil
}

// Front returns a copy of the last image read back, or nil.
func (s *Surface) Front() *framebuffer.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil {
		return nil
	}
	return s.front.Clone()
}

// Presented returns the number of presented frames.
func (s *Surface) Presented() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

// submit ends encoding, submits and waits for completion.
func (s *Surface) submit(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("offscreen: end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	fence, err := s.device.CreateFence()
	if err != nil {
		return fmt.Errorf("offscreen: create fence: %w", err)
	}
	defer s.device.DestroyFence(fence)

	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("offscreen: submit: %w", err)
	}
	ok, err := s.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !ok {
		return fmt.Errorf("offscreen: wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}

func (s *Surface) beginEncoder(label string) (hal.CommandEncoder, error) {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("offscreen: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("offscreen: begin encoding: %w", err)
	}
	return encoder, nil
}

// clear encodes and submits a single clear pass.
func (s *Surface) clear(c gputypes.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return lifecycle.ErrReleased
	}
	encoder, err := s.beginEncoder("offscreen_clear")
	if err != nil {
		return err
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "offscreen_clear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       s.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c,
		}},
	})
	rp.End()
	return s.submit(encoder)
}

// upload writes the CPU pixels into the color texture.
func (s *Surface) upload() {
	w, h := s.cfg.Width, s.cfg.Height
	data := encodePixels(make([]byte, 0, int(w)*int(h)*4), s.pixels, s.order)
	s.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  s.texture,
			MipLevel: 0,
		},
		data,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
}

// present copies the texture to the staging buffer, waits, and reads the
// result into the front buffer.
func (s *Surface) present(uploadPixels bool) error {
	s.mu.Lock()
	s.acquired = false
	if s.released {
		s.mu.Unlock()
		return lifecycle.ErrReleased
	}
	if err := s.readbackLocked(uploadPixels); err != nil {
		s.mu.Unlock()
		return err
	}
	s.presented++
	fn, front := s.onPresent, s.front
	s.mu.Unlock()

	if fn != nil {
		fn(front)
	}
	return nil
}

func (s *Surface) readbackLocked(uploadPixels bool) error {
	if uploadPixels {
		s.upload()
	}
	w, h := s.cfg.Width, s.cfg.Height

	encoder, err := s.beginEncoder("offscreen_readback")
	if err != nil {
		return err
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(s.texture, s.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: s.rowPitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: s.texture, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	if err := s.submit(encoder); err != nil {
		return err
	}

	if err := s.queue.ReadBuffer(s.staging, 0, s.readback); err != nil {
		return fmt.Errorf("offscreen: readback: %w", err)
	}

	if s.front == nil {
		s.front = framebuffer.New(int(w), int(h))
	} else if s.front.Width() != int(w) || s.front.Height() != int(h) {
		s.front.Resize(int(w), int(h))
	}
	tight := int(w) * 4
	for y := range int(h) {
		off := y * int(s.rowPitch)
		if err := decodeRow(s.front.Row(y), s.readback[off:off+tight], s.order); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) discard() {
	s.mu.Lock()
	s.acquired = false
	s.mu.Unlock()
}

// Frame is one offscreen frame. It implements lifecycle.ClearTarget and
// lifecycle.PixelTarget; pixels written through Pixels are uploaded to the
// texture on Present.
type Frame struct {
	surface    *Surface
	size       lifecycle.Size
	pixelsUsed bool
	done       bool
}

// Size returns the frame size.
func (f *Frame) Size() lifecycle.Size { return f.size }

// Clear submits one render pass clearing the texture to c.
func (f *Frame) Clear(c gputypes.Color) error {
	return f.surface.clear(c)
}

// Pixels returns the CPU staging image for the frame.
func (f *Frame) Pixels() *framebuffer.Buffer {
	f.pixelsUsed = true
	return f.surface.pixels
}

// Present uploads CPU pixels if any were requested, then reads the texture
// back into the surface front buffer.
func (f *Frame) Present() error {
	if f.done {
		return errors.New("offscreen: frame already finished")
	}
	f.done = true
	return f.surface.present(f.pixelsUsed)
}

// Discard drops the frame.
func (f *Frame) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.surface.discard()
}

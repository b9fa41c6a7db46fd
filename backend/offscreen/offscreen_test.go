// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package offscreen

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellowindow/backend"
	"github.com/gogpu/hellowindow/framebuffer"
	"github.com/gogpu/hellowindow/lifecycle"
	"github.com/gogpu/hellowindow/renderer"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// noopProvider shares a noop HAL device the way a host application would.
type noopProvider struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
}

func (p *noopProvider) Device() gpucontext.Device             { return nil }
func (p *noopProvider) Queue() gpucontext.Queue               { return nil }
func (p *noopProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *noopProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *noopProvider) HalDevice() any                        { return p.device }
func (p *noopProvider) HalQueue() any                         { return p.queue }

// plainProvider lacks HAL accessors.
type plainProvider struct{}

func (plainProvider) Device() gpucontext.Device             { return nil }
func (plainProvider) Queue() gpucontext.Queue               { return nil }
func (plainProvider) Adapter() gpucontext.Adapter           { return nil }
func (plainProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }

type fixedWindow struct{ size lifecycle.Size }

func (w fixedWindow) Size() lifecycle.Size { return w.size }
func (w fixedWindow) RequestRedraw()       {}

func createNoopProvider(t *testing.T) *noopProvider {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return &noopProvider{device: openDev.Device, queue: openDev.Queue}
}

func openConfigured(t *testing.T, g *Graphics, w, h uint32) *Surface {
	t.Helper()
	size := lifecycle.Size{Width: w, Height: h}
	ls, err := g.Open(fixedWindow{size})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s := ls.(*Surface)
	t.Cleanup(s.Release)
	cfg, err := s.DefaultConfig(size)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	return s
}

func TestRegistered(t *testing.T) {
	e, ok := backend.Get(Name)
	if !ok {
		t.Fatal("hal backend not registered")
	}
	if e.Priority != backend.PriorityOffscreen {
		t.Errorf("priority = %d, want %d", e.Priority, backend.PriorityOffscreen)
	}
}

func TestOpenWithProvider(t *testing.T) {
	p := createNoopProvider(t)
	s := openConfigured(t, New(WithProvider(p)), 64, 48)

	if s.HalDevice() != p.device || s.HalQueue() != p.queue {
		t.Error("surface does not share the provider device and queue")
	}
	if s.SurfaceFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("format = %v, want BGRA8Unorm fallback", s.SurfaceFormat())
	}
	if s.rowPitch != 256 {
		t.Errorf("rowPitch = %d, want 256 for 64 px", s.rowPitch)
	}
}

func TestOpenWithoutHalProvider(t *testing.T) {
	_, err := New(WithProvider(plainProvider{})).Open(fixedWindow{lifecycle.Size{Width: 1, Height: 1}})
	if !errors.Is(err, lifecycle.ErrNoAdapter) || !errors.Is(err, ErrNotHalProvider) {
		t.Errorf("Open() error = %v, want ErrNoAdapter wrapping ErrNotHalProvider", err)
	}
}

func TestClearPresentOnNoop(t *testing.T) {
	p := createNoopProvider(t)
	var presented []*framebuffer.Buffer
	g := New(WithProvider(p), WithPresentFunc(func(img *framebuffer.Buffer) {
		presented = append(presented, img.Clone())
	}))
	s := openConfigured(t, g, 33, 7)

	f, err := s.AcquireFrame()
	if err != nil {
		t.Fatalf("AcquireFrame() error = %v", err)
	}
	if err := renderer.NewClear(renderer.DefaultClearColor).Render(f); err != nil {
		t.Fatalf("clear render error = %v", err)
	}
	if err := f.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if s.Presented() != 1 || len(presented) != 1 {
		t.Fatalf("presented %d frames, callback %d", s.Presented(), len(presented))
	}
	if presented[0].Width() != 33 || presented[0].Height() != 7 {
		t.Errorf("front size = %dx%d, want 33x7", presented[0].Width(), presented[0].Height())
	}
}

func TestPixelUploadOnNoop(t *testing.T) {
	p := createNoopProvider(t)
	s := openConfigured(t, New(WithProvider(p)), 16, 16)

	f, err := s.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	pt, ok := f.(lifecycle.PixelTarget)
	if !ok {
		t.Fatal("offscreen frame is not a PixelTarget")
	}
	pt.Pixels().Fill(0x09F600)
	if err := f.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if s.Front() == nil {
		t.Error("no front buffer after present")
	}
}

func TestReconfigureOnNoop(t *testing.T) {
	p := createNoopProvider(t)
	s := openConfigured(t, New(WithProvider(p)), 10, 10)
	tex := s.texture

	if err := s.Configure(s.cfg); err != nil {
		t.Fatal(err)
	}
	if s.texture != tex {
		t.Error("same-size configure recreated the texture")
	}

	if err := s.Configure(s.cfg.WithSize(lifecycle.Size{Width: 100, Height: 3})); err != nil {
		t.Fatal(err)
	}
	if s.rowPitch != 512 {
		t.Errorf("rowPitch = %d, want 512 for 100 px", s.rowPitch)
	}
	f, err := s.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if f.Size() != (lifecycle.Size{Width: 100, Height: 3}) {
		t.Errorf("frame size = %v", f.Size())
	}
	f.Discard()
}

func TestAcquireAfterRelease(t *testing.T) {
	p := createNoopProvider(t)
	s := openConfigured(t, New(WithProvider(p)), 4, 4)
	s.Release()
	s.Release()
	if _, err := s.AcquireFrame(); !errors.Is(err, lifecycle.ErrReleased) {
		t.Errorf("AcquireFrame after Release error = %v", err)
	}
}

func TestDecodeRow(t *testing.T) {
	tests := []struct {
		name  string
		order byteOrder
		data  []byte
		want  []uint32
	}{
		{"bgra", orderBGRA, []byte{0x00, 0xF6, 0x09, 0xFF, 0x00, 0xF7, 0x08, 0xFF}, []uint32{0x09F600, 0x08F700}},
		{"rgba", orderRGBA, []byte{0x09, 0xF6, 0x00, 0xFF, 0x08, 0xF7, 0x00, 0xFF}, []uint32{0x09F600, 0x08F700}},
		// A blue clear stored in an RGBA texture.
		{"rgba blue", orderRGBA, []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0xFF, 0xFF}, []uint32{0x0000FF, 0x0000FF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := make([]uint32, 2)
			if err := decodeRow(row, tt.data, tt.order); err != nil {
				t.Fatal(err)
			}
			if row[0] != tt.want[0] || row[1] != tt.want[1] {
				t.Errorf("row = %#06x %#06x, want %#06x %#06x", row[0], row[1], tt.want[0], tt.want[1])
			}
		})
	}
	if err := decodeRow(make([]uint32, 2), []byte{1, 2, 3}, orderBGRA); err == nil {
		t.Error("short data should fail")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := framebuffer.New(3, 1)
	src.Set(0, 0, 0x0000FF)
	src.Set(1, 0, 0xFF0000)
	src.Set(2, 0, 0x09F600)
	for _, o := range []byteOrder{orderBGRA, orderRGBA} {
		data := encodePixels(nil, src, o)
		row := make([]uint32, 3)
		if err := decodeRow(row, data, o); err != nil {
			t.Fatal(err)
		}
		for x, px := range row {
			if px != src.Get(x, 0) {
				t.Errorf("order %d pixel %d = %#06x, want %#06x", o, x, px, src.Get(x, 0))
			}
		}
	}
}

func TestProviderFormat(t *testing.T) {
	tests := []struct {
		name      string
		requested gputypes.TextureFormat
		want      gputypes.TextureFormat
		order     byteOrder
	}{
		{"undefined", gputypes.TextureFormatUndefined, gputypes.TextureFormatBGRA8Unorm, orderBGRA},
		{"bgra srgb", gputypes.TextureFormatBGRA8UnormSrgb, gputypes.TextureFormatBGRA8UnormSrgb, orderBGRA},
		{"rgba", gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8Unorm, orderRGBA},
		{"float falls back", gputypes.TextureFormatRGBA16Float, gputypes.TextureFormatBGRA8Unorm, orderBGRA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createNoopProvider(t)
			p.format = tt.requested
			s := openConfigured(t, New(WithProvider(p)), 8, 2)
			if s.SurfaceFormat() != tt.want || s.order != tt.order {
				t.Errorf("format = %v order %d, want %v order %d", s.SurfaceFormat(), s.order, tt.want, tt.order)
			}
			if s.cfg.Format != tt.want {
				t.Errorf("configured format = %v, want %v", s.cfg.Format, tt.want)
			}
		})
	}
}

func TestClearPresentRGBAProvider(t *testing.T) {
	p := createNoopProvider(t)
	p.format = gputypes.TextureFormatRGBA8Unorm
	s := openConfigured(t, New(WithProvider(p)), 4, 4)

	f, err := s.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if err := renderer.NewClear(renderer.DefaultClearColor).Render(f); err != nil {
		t.Fatal(err)
	}
	f.(lifecycle.PixelTarget).Pixels().Fill(0x0000FF)
	if err := f.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if s.Presented() != 1 {
		t.Errorf("Presented() = %d", s.Presented())
	}
}

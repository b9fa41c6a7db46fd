// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellowindow/fractal"
	"github.com/gogpu/hellowindow/framebuffer"
	"github.com/gogpu/hellowindow/lifecycle"
)

type plainFrame struct{ size lifecycle.Size }

func (f *plainFrame) Size() lifecycle.Size { return f.size }
func (f *plainFrame) Present() error       { return nil }
func (f *plainFrame) Discard()             {}

type clearFrame struct {
	plainFrame
	cleared []gputypes.Color
	err     error
}

func (f *clearFrame) Clear(c gputypes.Color) error {
	if f.err != nil {
		return f.err
	}
	f.cleared = append(f.cleared, c)
	return nil
}

type pixelFrame struct {
	plainFrame
	buf *framebuffer.Buffer
}

func (f *pixelFrame) Pixels() *framebuffer.Buffer { return f.buf }

func TestClearRender(t *testing.T) {
	r := NewClear(DefaultClearColor)
	f := &clearFrame{}
	if err := r.Render(f); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(f.cleared) != 1 || f.cleared[0] != (gputypes.Color{R: 0, G: 0, B: 1, A: 1}) {
		t.Errorf("cleared = %v, want one blue pass", f.cleared)
	}

	f.err = errors.New("queue lost")
	if err := r.Render(f); err == nil {
		t.Error("Render() should propagate clear errors")
	}
}

func TestClearUnsupportedFrame(t *testing.T) {
	err := NewClear(DefaultClearColor).Render(&plainFrame{})
	if !errors.Is(err, lifecycle.ErrUnsupportedFrame) {
		t.Errorf("Render(plain) error = %v, want ErrUnsupportedFrame", err)
	}
}

func TestColorToPixel(t *testing.T) {
	tests := []struct {
		c    gputypes.Color
		want uint32
	}{
		{DefaultClearColor, 0x0000FF},
		{gputypes.Color{R: 1, G: 1, B: 1, A: 1}, 0xFFFFFF},
		{gputypes.Color{R: 0.5, G: 0, B: 0, A: 1}, 0x800000},
		{gputypes.Color{R: 2, G: -1, B: 0, A: 1}, 0xFF0000},
	}
	for _, tt := range tests {
		if got := ColorToPixel(tt.c); got != tt.want {
			t.Errorf("ColorToPixel(%v) = %#06x, want %#06x", tt.c, got, tt.want)
		}
	}
}

func TestFractalRender(t *testing.T) {
	fr, err := fractal.NewRenderer(fractal.DefaultParams(), fractal.WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	defer fr.Close()

	r := NewFractal(context.Background(), fr)
	f := &pixelFrame{buf: framebuffer.New(2, 1)}
	if err := r.Render(f); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if f.buf.Get(0, 0) != 0x09F600 || f.buf.Get(1, 0) != 0x08F700 {
		t.Errorf("pixels = %#06x %#06x", f.buf.Get(0, 0), f.buf.Get(1, 0))
	}

	if err := r.Render(&clearFrame{}); !errors.Is(err, lifecycle.ErrUnsupportedFrame) {
		t.Errorf("Render(clear frame) error = %v, want ErrUnsupportedFrame", err)
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"errors"
	"testing"

	"github.com/gogpu/hellowindow/framebuffer"
)

func TestEscapeTime(t *testing.T) {
	tests := []struct {
		name        string
		c           complex128
		limit       int
		wantCount   int
		wantEscaped bool
	}{
		{"origin never escapes", 0, 255, 0, false},
		{"origin limit 1", 0, 1, 0, false},
		{"far right", complex(3, 0), 255, 1, true},
		{"just outside radius", complex(2.5, 0), 255, 1, true},
		{"negative real outside", complex(-2.1, 0), 255, 1, true},
		{"diagonal", complex(0.5, 0.5), 255, 5, true},
		{"slow escape", complex(-1.15, 0.275), 255, 224, true},
		{"slow escape below limit", complex(-1.15, 0.275), 200, 0, false},
		{"minus two stays bounded", complex(-2, 0), 255, 0, false},
		{"zero limit", complex(3, 0), 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, escaped := EscapeTime(tt.c, tt.limit)
			if count != tt.wantCount || escaped != tt.wantEscaped {
				t.Errorf("EscapeTime(%v, %d) = (%d, %v), want (%d, %v)",
					tt.c, tt.limit, count, escaped, tt.wantCount, tt.wantEscaped)
			}
		})
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		count   int
		escaped bool
		want    uint32
	}{
		{0, false, 0x000000},
		{100, false, 0x000000},
		{0, true, 0x00FF00},
		{1, true, 0x01FE00},
		{9, true, 0x09F600},
		{8, true, 0x08F700},
		{255, true, 0xFF0000},
		{300, true, 0xFF0000},
		{-4, true, 0x00FF00},
	}
	for _, tt := range tests {
		if got := Color(tt.count, tt.escaped); got != tt.want {
			t.Errorf("Color(%d, %v) = %#06x, want %#06x", tt.count, tt.escaped, got, tt.want)
		}
	}
}

func TestPixelToPoint(t *testing.T) {
	p := Params{UpperLeft: complex(-1, 1), LowerRight: complex(1, -1), Limit: 10}
	tests := []struct {
		x, y int
		want complex128
	}{
		{0, 0, complex(-1, 1)},
		{50, 50, complex(0, 0)},
		{100, 100, complex(1, -1)},
		{25, 75, complex(-0.5, -0.5)},
	}
	for _, tt := range tests {
		if got := p.PixelToPoint(tt.x, tt.y, 100, 100); got != tt.want {
			t.Errorf("PixelToPoint(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("DefaultParams().Validate() = %v", err)
	}
	bad := []Params{
		{UpperLeft: complex(-1, 1), LowerRight: complex(1, -1), Limit: 0},
		{UpperLeft: complex(1, 1), LowerRight: complex(-1, -1), Limit: 10},
		{UpperLeft: complex(-1, -1), LowerRight: complex(1, 1), Limit: 10},
		{UpperLeft: complex(0, 0), LowerRight: complex(0, 0), Limit: 10},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidParams", p, err)
		}
	}
}

func TestRenderRegression2x1(t *testing.T) {
	buf := framebuffer.New(2, 1)
	Render(buf, DefaultParams())
	want := []uint32{0x09F600, 0x08F700}
	for i, v := range buf.Pix() {
		if v != want[i] {
			t.Errorf("pixel %d = %#06x, want %#06x", i, v, want[i])
		}
	}
}

func TestRenderRegression4x3(t *testing.T) {
	buf := framebuffer.New(4, 3)
	Render(buf, DefaultParams())
	want := []uint32{
		0x09F600, 0x09F600, 0x08F700, 0x0CF300,
		0x10EF00, 0x14EB00, 0x0CF300, 0x0DF200,
		0x0FF000, 0x000000, 0x18E700, 0x000000,
	}
	for i, v := range buf.Pix() {
		if v != want[i] {
			t.Errorf("pixel (%d,%d) = %#06x, want %#06x", i%4, i/4, v, want[i])
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	a := framebuffer.New(64, 48)
	b := framebuffer.New(64, 48)
	Render(a, DefaultParams())
	Render(b, DefaultParams())
	for i := range a.Pix() {
		if a.Pix()[i] != b.Pix()[i] {
			t.Fatalf("pixel %d differs between runs", i)
		}
	}
}

func TestRenderOriginIsBlack(t *testing.T) {
	// With a symmetric region and an odd size the center pixel maps to c=0.
	p := Params{UpperLeft: complex(-2, 2), LowerRight: complex(2, -2), Limit: 255}
	buf := framebuffer.New(4, 4)
	Render(buf, p)
	if got := buf.Get(2, 2); got != 0 {
		t.Errorf("pixel at c=0 = %#06x, want black", got)
	}
	if got := buf.Get(0, 0); got != 0x01FE00 {
		t.Errorf("corner pixel = %#06x, want 0x01FE00", got)
	}
}

func BenchmarkRender(b *testing.B) {
	buf := framebuffer.New(160, 120)
	p := DefaultParams()
	for b.Loop() {
		Render(buf, p)
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/gogpu/hellowindow/framebuffer"
)

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := NewRenderer(DefaultParams(), opts...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestRendererMatchesSequential(t *testing.T) {
	want := framebuffer.New(97, 61)
	Render(want, DefaultParams())

	for _, workers := range []int{1, 2, 3, 8} {
		r := newTestRenderer(t, WithWorkers(workers), WithCacheCapacity(0))
		got := framebuffer.New(97, 61)
		if err := r.Render(context.Background(), got); err != nil {
			t.Fatalf("workers=%d: Render() error = %v", workers, err)
		}
		for i := range want.Pix() {
			if got.Pix()[i] != want.Pix()[i] {
				t.Fatalf("workers=%d: pixel %d = %#06x, want %#06x",
					workers, i, got.Pix()[i], want.Pix()[i])
			}
		}
	}
}

func TestRendererProgress(t *testing.T) {
	var calls atomic.Int32
	var maxDone atomic.Int32
	r := newTestRenderer(t, WithWorkers(4), WithProgress(func(done, total int) {
		calls.Add(1)
		if total != 30 {
			t.Errorf("progress total = %d, want 30", total)
		}
		for {
			cur := maxDone.Load()
			if int32(done) <= cur || maxDone.CompareAndSwap(cur, int32(done)) {
				break
			}
		}
	}))
	if err := r.Render(context.Background(), framebuffer.New(40, 30)); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 30 || maxDone.Load() != 30 {
		t.Errorf("progress calls = %d, max done = %d, want 30 and 30", calls.Load(), maxDone.Load())
	}
}

func TestRendererCache(t *testing.T) {
	r := newTestRenderer(t, WithCacheCapacity(2))
	ctx := context.Background()

	a := framebuffer.New(20, 10)
	if err := r.Render(ctx, a); err != nil {
		t.Fatal(err)
	}
	b := framebuffer.New(20, 10)
	if err := r.Render(ctx, b); err != nil {
		t.Fatal(err)
	}
	for i := range a.Pix() {
		if a.Pix()[i] != b.Pix()[i] {
			t.Fatalf("cached raster differs at %d", i)
		}
	}

	// Mutating a rendered buffer must not affect later copies.
	a.Fill(0xFFFFFF)
	c := framebuffer.New(20, 10)
	if err := r.Render(ctx, c); err != nil {
		t.Fatal(err)
	}
	if c.Get(0, 0) != 0x09F600 {
		t.Error("cache aliases a caller buffer")
	}

	_ = r.Render(ctx, framebuffer.New(5, 5))
	_ = r.Render(ctx, framebuffer.New(6, 6))

	s := r.CacheStats()
	if s.Hits != 2 || s.Misses != 3 || s.Evictions != 1 || s.Len != 2 {
		t.Errorf("cache stats = %+v, want 2 hits, 3 misses, 1 eviction, len 2", s)
	}
}

func TestRendererCanceled(t *testing.T) {
	r := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Render(ctx, framebuffer.New(10, 10))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
	if s := r.CacheStats(); s.Len != 0 {
		t.Errorf("canceled raster was cached: %+v", s)
	}
}

func TestNewRendererInvalid(t *testing.T) {
	_, err := NewRenderer(Params{Limit: 10})
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("NewRenderer() error = %v, want ErrInvalidParams", err)
	}
}

func TestRendererEmptyBuffer(t *testing.T) {
	r := newTestRenderer(t)
	if err := r.Render(context.Background(), framebuffer.New(0, 0)); err != nil {
		t.Errorf("Render(empty) error = %v", err)
	}
}

func BenchmarkRendererParallel(b *testing.B) {
	r, err := NewRenderer(DefaultParams(), WithCacheCapacity(0))
	if err != nil {
		b.Fatal(err)
	}
	defer r.Close()
	buf := framebuffer.New(160, 120)
	ctx := context.Background()
	for b.Loop() {
		_ = r.Render(ctx, buf)
	}
}

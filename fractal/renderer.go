// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"context"
	"sync/atomic"

	"github.com/gogpu/hellowindow"
	"github.com/gogpu/hellowindow/framebuffer"
	"github.com/gogpu/hellowindow/internal/parallel"
)

// ProgressFunc is called after each finished row with the number of rows
// done so far and the total. It may be called from several goroutines.
type ProgressFunc func(done, total int)

// Option configures a Renderer.
type Option func(*Renderer)

// WithWorkers sets the number of goroutines computing rows. Zero or a
// negative value uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		r.workers = n
	}
}

// WithProgress registers a row progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Renderer) {
		r.progress = fn
	}
}

// WithCacheCapacity sets how many finished rasters are kept. Zero disables
// caching.
func WithCacheCapacity(n int) Option {
	return func(r *Renderer) {
		r.cacheCapacity = n
	}
}

// Renderer computes rasters for fixed Params, fanning rows out to a worker
// pool. The output is identical to Render regardless of the worker count.
//
// Renderer is safe for concurrent use as long as callers render into
// distinct buffers.
type Renderer struct {
	params        Params
	workers       int
	progress      ProgressFunc
	cacheCapacity int

	pool  *parallel.Pool
	cache *rasterCache
}

// NewRenderer validates p and starts the worker pool. Call Close when done.
func NewRenderer(p Params, opts ...Option) (*Renderer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{params: p, cacheCapacity: DefaultCacheCapacity}
	for _, opt := range opts {
		opt(r)
	}
	r.pool = parallel.NewPool(r.workers)
	r.cache = newRasterCache(r.cacheCapacity)
	return r, nil
}

// Params returns the rendered region.
func (r *Renderer) Params() Params { return r.params }

// Workers returns the size of the worker pool.
func (r *Renderer) Workers() int { return r.pool.Workers() }

// CacheStats returns raster cache statistics.
func (r *Renderer) CacheStats() CacheStats { return r.cache.stats() }

// Render fills buf with the raster for its current size. On cancellation
// buf may be partially written and nothing is cached.
func (r *Renderer) Render(ctx context.Context, buf *framebuffer.Buffer) error {
	key := rasterKey{width: buf.Width(), height: buf.Height()}
	if cached, ok := r.cache.get(key); ok {
		return buf.CopyFrom(cached)
	}

	h := buf.Height()
	var done atomic.Int64
	err := r.pool.For(ctx, h, func(y int) {
		renderRow(buf, r.params, y)
		if r.progress != nil {
			r.progress(int(done.Add(1)), h)
		}
	})
	if err != nil {
		return err
	}

	hellowindow.Logger().Debug("fractal raster computed",
		"size", buf.Bounds().Size().String(),
		"workers", r.pool.Workers())
	r.cache.put(key, buf.Clone())
	return nil
}

// Close stops the worker pool.
func (r *Renderer) Close() {
	r.pool.Close()
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/gogpu/hellowindow/framebuffer"
)

// DefaultCacheCapacity is the number of rasters kept by a Renderer.
const DefaultCacheCapacity = 4

// rasterKey identifies a finished raster. Params are immutable for a
// Renderer, so the size is enough within one cache.
type rasterKey struct {
	width, height int
}

type rasterEntry struct {
	key rasterKey
	buf *framebuffer.Buffer
}

// rasterCache is a small LRU of finished rasters. Redraws at an unchanged
// size copy the stored raster instead of iterating again.
type rasterCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[rasterKey]*list.Element
	lru      *list.List

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

func newRasterCache(capacity int) *rasterCache {
	return &rasterCache{
		capacity: capacity,
		entries:  make(map[rasterKey]*list.Element),
		lru:      list.New(),
	}
}

func (c *rasterCache) get(k rasterKey) (*framebuffer.Buffer, bool) {
	if c.capacity <= 0 {
		c.misses.Add(1)
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[k]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.lru.MoveToFront(el)
	c.hits.Add(1)
	return el.Value.(*rasterEntry).buf, true
}

func (c *rasterCache) put(k rasterKey, buf *framebuffer.Buffer) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[k]; ok {
		el.Value.(*rasterEntry).buf = buf
		c.lru.MoveToFront(el)
		return
	}
	c.entries[k] = c.lru.PushFront(&rasterEntry{key: k, buf: buf})
	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*rasterEntry).key)
		c.evictions.Add(1)
	}
}

func (c *rasterCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// CacheStats reports raster cache activity.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
}

func (c *rasterCache) stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.len(),
	}
}

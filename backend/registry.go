// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend selects the graphics implementation a lifecycle
// controller draws with.
//
// Implementations register themselves from init functions:
//
//	func init() {
//	    backend.Register("software", backend.PrioritySoftware, New, nil)
//	}
//
// and callers pick one by name or take the best available:
//
//	g, err := backend.Open("")        // highest priority that works
//	g, err := backend.Open("software") // a specific one
package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/hellowindow/lifecycle"
)

// Standard priorities.
const (
	// PriorityWindowed is used by backends presenting to an OS window.
	PriorityWindowed = 100

	// PriorityOffscreen is used by GPU backends rendering to textures.
	PriorityOffscreen = 50

	// PrioritySoftware is used by pure CPU backends.
	PrioritySoftware = 10
)

var (
	// ErrNoBackendAvailable is returned when no registered backend is usable.
	ErrNoBackendAvailable = errors.New("backend: no backend available")

	// ErrBackendNotFound is returned for unknown backend names.
	ErrBackendNotFound = errors.New("backend: not found")

	// ErrBackendUnavailable is returned when a named backend reports it
	// cannot run on this system.
	ErrBackendUnavailable = errors.New("backend: not available")
)

// Factory creates a graphics implementation.
type Factory func() (lifecycle.Graphics, error)

// Entry is a registered backend.
type Entry struct {
	// Name is the unique identifier, e.g. "webgpu", "hal", "software".
	Name string

	// Priority determines selection order, higher first.
	Priority int

	// Factory creates instances.
	Factory Factory

	// Available reports whether the backend can run on this system.
	Available func() bool
}

var global = NewRegistry()

// Registry holds registered backends.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates an empty registry. Most code uses the package-level
// functions backed by the global registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds a backend to the global registry. A nil available means
// always available. Registering an existing name replaces it.
func Register(name string, priority int, factory Factory, available func() bool) {
	global.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) { global.Unregister(name) }

// List returns all registered names, highest priority first.
func List() []string { return global.List() }

// Available returns the names of usable backends, highest priority first.
func Available() []string { return global.Available() }

// Get returns a copy of a registered entry.
func Get(name string) (*Entry, bool) { return global.Get(name) }

// Open creates the named backend, or the best available one when name is
// empty.
func Open(name string) (lifecycle.Graphics, error) { return global.Open(name) }

// Register adds a backend to r.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	if available == nil {
		available = func() bool { return true }
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &Entry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from r.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns all registered names, highest priority first.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Available returns the names of usable backends, highest priority first.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(true)
}

// Get returns a copy of a registered entry.
func (r *Registry) Get(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	cp := *e
	return &cp, true
}

// Open creates the named backend. With an empty name every available
// backend is tried in priority order and the first that opens is returned.
func (r *Registry) Open(name string) (lifecycle.Graphics, error) {
	if name != "" {
		e, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBackendNotFound, name)
		}
		if !e.Available() {
			return nil, fmt.Errorf("%w: %q", ErrBackendUnavailable, name)
		}
		g, err := e.Factory()
		if err != nil {
			return nil, fmt.Errorf("backend %q: %w", name, err)
		}
		return g, nil
	}

	names := r.Available()
	if len(names) == 0 {
		return nil, ErrNoBackendAvailable
	}
	var errs []error
	for _, n := range names {
		g, err := r.Open(n)
		if err == nil {
			return g, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrNoBackendAvailable, errors.Join(errs...))
}

// sortedNames returns names by descending priority, then by name.
// Caller must hold r.mu.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	entries := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

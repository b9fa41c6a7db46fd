// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package headless provides a platform without a window system. Events come
// from a script, and the window is a virtual rectangle whose size follows
// the scripted Resized events.
//
// It drives offscreen rendering from the command line and end-to-end tests
// of the lifecycle controller.
package headless

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gogpu/hellowindow/lifecycle"
)

// DefaultSize is the window size used when the attributes request none.
var DefaultSize = lifecycle.Size{Width: 800, Height: 600}

// ErrWindowExists is returned when a second window is requested.
var ErrWindowExists = errors.New("headless: window already created")

// Platform delivers scripted events.
type Platform struct {
	ctx     context.Context
	mu      sync.Mutex
	queue   []lifecycle.Event
	window  *Window
	exit    bool
	logger  *slog.Logger
	history []lifecycle.Event
}

// Option configures a Platform.
type Option func(*Platform)

// WithLogger sets the logger used for swallowed errors.
func WithLogger(l *slog.Logger) Option {
	return func(p *Platform) {
		p.logger = l
	}
}

// WithContext makes Run deliver CloseRequested, then stop, once ctx is
// done.
func WithContext(ctx context.Context) Option {
	return func(p *Platform) {
		p.ctx = ctx
	}
}

// New returns a platform that will deliver script in order.
func New(script []lifecycle.Event, opts ...Option) *Platform {
	p := &Platform{queue: append([]lifecycle.Event(nil), script...)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Script returns the event sequence of one offscreen render: activate,
// resize to size, draw frames times, close.
func Script(size lifecycle.Size, frames int) []lifecycle.Event {
	evs := []lifecycle.Event{
		lifecycle.Activated(),
		lifecycle.Resized(size.Width, size.Height),
	}
	for range frames {
		evs = append(evs, lifecycle.RedrawRequested())
	}
	return append(evs, lifecycle.CloseRequested())
}

// Post appends an event to the queue.
func (p *Platform) Post(ev lifecycle.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, ev)
}

// CreateWindow creates the virtual window.
func (p *Platform) CreateWindow(attrs lifecycle.WindowAttributes) (lifecycle.Window, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.window != nil {
		return nil, ErrWindowExists
	}
	size := attrs.Size
	if size == (lifecycle.Size{}) {
		size = DefaultSize
	}
	p.window = &Window{platform: p, title: attrs.Title, size: size}
	return p.window, nil
}

// Window returns the created window, or nil.
func (p *Platform) Window() *Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.window
}

// History returns the events delivered so far.
func (p *Platform) History() []lifecycle.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]lifecycle.Event(nil), p.history...)
}

// Run delivers queued events to h until the queue is empty, Exit is called,
// the context is done, or h returns a fatal error.
func (p *Platform) Run(h lifecycle.Handler) error {
	for {
		if p.ctx != nil && p.ctx.Err() != nil {
			return p.cancel(h)
		}
		ev, ok := p.next()
		if !ok {
			return nil
		}
		stop, err := lifecycle.Deliver(h, ev, p.logger)
		if err != nil {
			return err
		}
		if stop {
			p.Exit()
		}
	}
}

// cancel closes the window on behalf of a canceled context.
func (p *Platform) cancel(h lifecycle.Handler) error {
	p.mu.Lock()
	if p.exit {
		p.mu.Unlock()
		return nil
	}
	ev := lifecycle.CloseRequested()
	p.history = append(p.history, ev)
	p.mu.Unlock()

	_, err := lifecycle.Deliver(h, ev, p.logger)
	p.Exit()
	return err
}

func (p *Platform) next() (lifecycle.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exit || len(p.queue) == 0 {
		return lifecycle.Event{}, false
	}
	ev := p.queue[0]
	p.queue = p.queue[1:]
	if ev.Kind == lifecycle.EventResized && p.window != nil {
		p.window.size = ev.Size
	}
	if ev.Kind == lifecycle.EventRedrawRequested && p.window != nil {
		p.window.pending = false
	}
	p.history = append(p.history, ev)
	return ev, true
}

// Exit stops delivery after the current event.
func (p *Platform) Exit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exit = true
}

// Window is a virtual window.
type Window struct {
	platform *Platform
	title    string
	size     lifecycle.Size
	pending  bool
	redraws  int
}

// Title returns the window title.
func (w *Window) Title() string { return w.title }

// Size returns the current virtual size.
func (w *Window) Size() lifecycle.Size {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	return w.size
}

// SetSize changes the size without delivering an event, as a window system
// does between a resize and its notification.
func (w *Window) SetSize(s lifecycle.Size) {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	w.size = s
}

// RequestRedraw queues one RedrawRequested; requests made while one is
// pending are coalesced.
func (w *Window) RequestRedraw() {
	p := w.platform
	p.mu.Lock()
	defer p.mu.Unlock()
	w.redraws++
	if w.pending {
		return
	}
	w.pending = true
	p.queue = append(p.queue, lifecycle.RedrawRequested())
}

// Redraws returns the number of RequestRedraw calls.
func (w *Window) Redraws() int {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	return w.redraws
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import "log/slog"

// Option configures a Controller during creation.
//
// Example:
//
//	c := lifecycle.New(p, g, r,
//	    lifecycle.WithTitle("Mandelbrot Set"),
//	    lifecycle.WithSize(1600, 1200))
type Option func(*options)

type options struct {
	attrs  WindowAttributes
	logger *slog.Logger
}

func defaultOptions() options {
	return options{attrs: DefaultWindowAttributes()}
}

// WithWindowAttributes replaces the attributes of the window created on
// first activation.
func WithWindowAttributes(attrs WindowAttributes) Option {
	return func(o *options) {
		o.attrs = attrs
	}
}

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.attrs.Title = title
	}
}

// WithSize sets the requested initial inner size of the window.
func WithSize(width, height uint32) Option {
	return func(o *options) {
		o.attrs.Size = Size{Width: width, Height: height}
	}
}

// WithLogger sets a logger for this controller only. By default the
// package-wide hellowindow.Logger() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

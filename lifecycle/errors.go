// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import (
	"errors"
	"fmt"
)

// Fatal initialization errors.
var (
	// ErrWindowCreation is returned when the platform cannot create a window.
	ErrWindowCreation = errors.New("lifecycle: window creation failed")

	// ErrSurfaceCreation is returned when no surface can be bound to the window.
	ErrSurfaceCreation = errors.New("lifecycle: surface creation failed")

	// ErrNoAdapter is returned when no adapter/device compatible with the
	// surface can be obtained.
	ErrNoAdapter = errors.New("lifecycle: no compatible adapter")
)

// Transient per-frame errors.
var (
	// ErrFrameAcquire is returned by Surface.AcquireFrame when no frame is
	// available. The controller skips the frame.
	ErrFrameAcquire = errors.New("lifecycle: frame acquisition failed")

	// ErrUnsupportedFrame is returned by renderers when a frame does not
	// implement the target interface they draw into.
	ErrUnsupportedFrame = errors.New("lifecycle: unsupported frame type")

	// ErrConfigure is returned when reapplying a configuration fails.
	ErrConfigure = errors.New("lifecycle: surface configuration failed")

	// ErrReleased is returned by surfaces used after Release.
	ErrReleased = errors.New("lifecycle: surface released")
)

// InitStep names the startup step that failed.
type InitStep string

// Startup steps.
const (
	StepWindow    InitStep = "create window"
	StepSurface   InitStep = "open surface"
	StepConfigure InitStep = "configure surface"
)

// InitError is a fatal startup error. The process is expected to report it
// and terminate.
type InitError struct {
	Step InitStep
	Err  error
}

// Error implements error.
func (e *InitError) Error() string {
	return fmt.Sprintf("lifecycle: %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error { return e.Err }

// IsFatal reports whether err is an initialization error that must stop
// the event loop.
func IsFatal(err error) bool {
	var ie *InitError
	return errors.As(err, &ie)
}

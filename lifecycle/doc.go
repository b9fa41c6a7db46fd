// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package lifecycle implements the windowed-surface rendering lifecycle.
//
// A [Controller] is a single-threaded state machine driven by platform
// events. It moves through three states:
//
//	Uninitialized --Activated--> Active --CloseRequested--> Terminated
//
// On the first [EventActivated] it asks the [Platform] for a window, opens a
// [Graphics] backend on that window (this blocks until an adapter and device
// have been negotiated) and configures the resulting [Surface] to the
// window's physical size. Every [EventResized] reapplies the configuration
// with the new size and requests a redraw. Every [EventRedrawRequested]
// acquires a [Frame], hands it to the [Renderer] and presents it.
//
// Surface dimensions are clamped to a minimum of 1 in each direction, so a
// minimized window never produces a degenerate configuration.
//
// Collaborators are expressed as small interfaces so the controller can run
// against glfw + webgpu, a headless script + software frames, or test fakes.
package lifecycle

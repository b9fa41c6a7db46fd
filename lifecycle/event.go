// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import "fmt"

// EventKind identifies a platform lifecycle event.
type EventKind uint8

const (
	// EventActivated is delivered when the application becomes active and
	// may create windows (winit's "resumed").
	EventActivated EventKind = iota + 1

	// EventResized is delivered when the window's physical size changes.
	EventResized

	// EventRedrawRequested is delivered when the window should be redrawn.
	EventRedrawRequested

	// EventCloseRequested is delivered when the user asks to close the window.
	EventCloseRequested
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventActivated:
		return "Activated"
	case EventResized:
		return "Resized"
	case EventRedrawRequested:
		return "RedrawRequested"
	case EventCloseRequested:
		return "CloseRequested"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is a single lifecycle event. Size is only meaningful for
// EventResized.
type Event struct {
	Kind EventKind
	Size Size
}

// String returns a short description of the event.
func (e Event) String() string {
	if e.Kind == EventResized {
		return fmt.Sprintf("Resized(%dx%d)", e.Size.Width, e.Size.Height)
	}
	return e.Kind.String()
}

// Activated returns an EventActivated event.
func Activated() Event { return Event{Kind: EventActivated} }

// Resized returns an EventResized event for the given physical size.
func Resized(width, height uint32) Event {
	return Event{Kind: EventResized, Size: Size{Width: width, Height: height}}
}

// RedrawRequested returns an EventRedrawRequested event.
func RedrawRequested() Event { return Event{Kind: EventRedrawRequested} }

// CloseRequested returns an EventCloseRequested event.
func CloseRequested() Event { return Event{Kind: EventCloseRequested} }

// Action tells the platform what the controller expects next.
type Action uint8

const (
	// ActionNone means keep delivering events.
	ActionNone Action = iota

	// ActionRedraw means a redraw has been requested on the window.
	ActionRedraw

	// ActionExit means the event loop should stop.
	ActionExit
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionRedraw:
		return "Redraw"
	case ActionExit:
		return "Exit"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// State is the controller state.
type State uint8

const (
	// StateUninitialized is the state before the first activation.
	StateUninitialized State = iota

	// StateActive means the window, surface and device exist and the
	// surface has been configured at least once.
	StateActive

	// StateTerminated means a close was requested. No resource is used
	// after this point.
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateActive:
		return "Active"
	case StateTerminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

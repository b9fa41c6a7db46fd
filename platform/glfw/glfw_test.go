// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glfw

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/hellowindow/lifecycle"
)

type countingHandler struct {
	n      int
	action lifecycle.Action
	err    error
}

func (h *countingHandler) Dispatch(lifecycle.Event) (lifecycle.Action, error) {
	h.n++
	return h.action, h.err
}

func TestDeliver(t *testing.T) {
	h := &countingHandler{}
	p := &Platform{handler: h}

	p.deliver(lifecycle.RedrawRequested())
	if h.n != 1 || p.exit {
		t.Fatalf("after redraw: calls %d, exit %v", h.n, p.exit)
	}

	h.err = lifecycle.ErrConfigure
	p.deliver(lifecycle.Resized(2, 2))
	if p.exit || p.err != nil {
		t.Errorf("transient error stopped the loop: %v", p.err)
	}

	h.err = &lifecycle.InitError{Step: lifecycle.StepWindow, Err: lifecycle.ErrWindowCreation}
	p.deliver(lifecycle.Activated())
	if !p.exit || !errors.Is(p.err, lifecycle.ErrWindowCreation) {
		t.Errorf("fatal error: exit %v, err %v", p.exit, p.err)
	}

	p.deliver(lifecycle.RedrawRequested())
	if h.n != 3 {
		t.Errorf("event delivered after exit, calls = %d", h.n)
	}
}

func TestDeliverExitAction(t *testing.T) {
	h := &countingHandler{action: lifecycle.ActionExit}
	p := &Platform{handler: h}
	p.deliver(lifecycle.CloseRequested())
	if !p.exit || p.err != nil {
		t.Errorf("exit %v, err %v", p.exit, p.err)
	}
}

func TestDeliverWithoutHandler(t *testing.T) {
	p := &Platform{}
	p.deliver(lifecycle.Activated())
	if p.exit {
		t.Error("delivery without a handler should be a no-op")
	}
}

func TestCloseIfCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := &recordingHandler{}
	p := &Platform{handler: h, ctx: ctx}

	if p.closeIfCanceled() || len(h.events) != 0 {
		t.Fatal("live context closed the window")
	}
	cancel()
	if !p.closeIfCanceled() {
		t.Fatal("canceled context did not close the window")
	}
	if len(h.events) != 1 || h.events[0].Kind != lifecycle.EventCloseRequested {
		t.Errorf("delivered %v, want one CloseRequested", h.events)
	}
	if !p.exit {
		t.Error("loop not stopped after cancellation")
	}
}

func TestCloseIfCanceledWithoutContext(t *testing.T) {
	p := &Platform{handler: &recordingHandler{}}
	if p.closeIfCanceled() {
		t.Error("platform without a context should never cancel")
	}
}

type recordingHandler struct {
	events []lifecycle.Event
}

func (h *recordingHandler) Dispatch(ev lifecycle.Event) (lifecycle.Action, error) {
	h.events = append(h.events, ev)
	if ev.Kind == lifecycle.EventCloseRequested {
		return lifecycle.ActionExit, nil
	}
	return lifecycle.ActionNone, nil
}

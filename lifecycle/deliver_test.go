// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import (
	"errors"
	"testing"
)

type handlerFunc func(Event) (Action, error)

func (f handlerFunc) Dispatch(ev Event) (Action, error) { return f(ev) }

func TestDeliver(t *testing.T) {
	fatal := &InitError{Step: StepWindow, Err: ErrWindowCreation}
	tests := []struct {
		name     string
		action   Action
		err      error
		wantStop bool
		wantErr  bool
	}{
		{"none", ActionNone, nil, false, false},
		{"redraw", ActionRedraw, nil, false, false},
		{"exit", ActionExit, nil, true, false},
		{"transient error", ActionNone, ErrConfigure, false, false},
		{"fatal error", ActionNone, fatal, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlerFunc(func(Event) (Action, error) { return tt.action, tt.err })
			stop, err := Deliver(h, RedrawRequested(), nil)
			if stop != tt.wantStop || (err != nil) != tt.wantErr {
				t.Errorf("Deliver() = %v, %v; want stop %v, err %v", stop, err, tt.wantStop, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrWindowCreation) {
				t.Errorf("Deliver() error = %v, want the fatal error", err)
			}
		})
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import (
	"log/slog"

	"github.com/gogpu/hellowindow"
)

// Deliver dispatches ev to h on behalf of a platform event loop. It reports
// whether the loop must stop and, if it stops because of a fatal error,
// that error. Non-fatal errors are logged and swallowed.
func Deliver(h Handler, ev Event, logger *slog.Logger) (stop bool, err error) {
	if logger == nil {
		logger = hellowindow.Logger()
	}
	action, err := h.Dispatch(ev)
	if err != nil {
		if IsFatal(err) {
			logger.Error("fatal error", "event", ev.String(), "err", err)
			return true, err
		}
		logger.Warn("event failed", "event", ev.String(), "err", err)
	}
	return action == ActionExit, nil
}

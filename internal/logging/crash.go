// Package logging provides structured logging with slog for antiprobe.
package logging

import (
	"runtime/debug"
)

// CrashHandler recovers panics and logs them through a Logger instead
// of writing a crash-dump file: a one-shot probe has no daemon to
// restart and no operator polling a crash directory, so the stack
// trace belongs in the same log stream as everything else.
type CrashHandler struct {
	logger *Logger
}

// NewCrashHandler creates a CrashHandler that logs through l. A nil
// logger falls back to the package default.
func NewCrashHandler(l *Logger) *CrashHandler {
	if l == nil {
		l = Default()
	}
	return &CrashHandler{logger: l}
}

// Recover wraps fn with panic recovery, logging the panic value and
// stack trace at error level before letting the caller decide how to
// proceed (the panic is not re-raised).
func (h *CrashHandler) Recover(fn func()) {
	defer h.recover()
	fn()
}

// RecoverGoroutine is meant to be deferred at the top of a goroutine
// started by a detector, so a single misbehaving probe can't take the
// whole run down.
//
// Usage: go func() { defer crashHandler.RecoverGoroutine(); ... }()
func (h *CrashHandler) RecoverGoroutine() {
	h.report(recover())
}

func (h *CrashHandler) recover() {
	h.report(recover())
}

// report logs a value returned by recover; a nil value means no panic
// was in flight. recover itself must be called directly by the
// deferred function, so each deferred entry point calls it and hands
// the result here.
func (h *CrashHandler) report(r any) {
	if r != nil {
		h.logger.Error("recovered panic",
			"panic", r,
			"stack", string(debug.Stack()),
		)
	}
}

var defaultCrashHandler = NewCrashHandler(nil)

// RecoverPanic is a convenience function for panic recovery using the
// default logger.
//
// Usage: defer logging.RecoverPanic()
func RecoverPanic() {
	defaultCrashHandler.report(recover())
}

// WrapPanic wraps fn with panic recovery using the default logger.
func WrapPanic(fn func()) {
	defaultCrashHandler.Recover(fn)
}

// Package trace is the diagnostic sink for mapkit. Every allocator call and
// every contract violation is reported here; the sink formats nothing itself
// and is irrelevant to correctness.
//
// By default all output is discarded and assertion/error severities panic.
// Both halves are injectable: SetLogger swaps the destination, SetFailFunc
// swaps the fatal policy (tests install a recording func).
package trace

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
)

// L is the package logger. It discards everything until SetLogger is called.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// FailFunc is invoked after an error or failed assertion has been logged.
// The default panics; it must not return normally.
type FailFunc func(msg string)

var fail FailFunc = func(msg string) { panic(msg) }

// SetLogger replaces the sink destination. Passing nil restores the discard
// logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}
	L = l
}

// SetFailFunc replaces the fatal policy for Errorf and Assertf. Passing nil
// restores the panicking default. Returns the previous policy so tests can
// restore it.
func SetFailFunc(f FailFunc) FailFunc {
	prev := fail
	if f == nil {
		f = func(msg string) { panic(msg) }
	}
	fail = f
	return prev
}

// Infof logs at info severity, attributed to the caller skip frames up.
func Infof(skip int, format string, args ...any) {
	L.Info(fmt.Sprintf(format, args...), "source", caller(skip+1))
}

// Warnf logs at warn severity, attributed to the caller skip frames up.
func Warnf(skip int, format string, args ...any) {
	L.Warn(fmt.Sprintf(format, args...), "source", caller(skip+1))
}

// Errorf logs at error severity and then invokes the fatal policy.
func Errorf(skip int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	L.Error(msg, "source", caller(skip+1))
	fail(msg)
}

// Assertf is a no-op when cond holds. Otherwise it logs the failed condition
// at error severity and invokes the fatal policy.
func Assertf(cond bool, format string, args ...any) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	L.Error(msg, "source", caller(2), "assert", true)
	fail(msg)
}

// caller formats the file:line of the frame skip levels above caller itself.
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "?"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

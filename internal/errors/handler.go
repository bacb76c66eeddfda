package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	defaultHandler Handler = &LogHandler{}
	handlerMu      sync.RWMutex

	assertions atomic.Bool
)

func init() {
	assertions.Store(debugBuild)
}

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h Handler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		defaultHandler = &LogHandler{}
	} else {
		defaultHandler = h
	}
}

func getHandler() Handler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return defaultHandler
}

// SetAssertions turns invariant assertions on or off. Builds tagged
// "debug" start with assertions enabled.
func SetAssertions(enabled bool) {
	assertions.Store(enabled)
}

// AssertionsEnabled reports whether Invariant panics.
func AssertionsEnabled() bool {
	return assertions.Load()
}

// Report sends an error to the global handler.
// If err.Timestamp is zero, it is set to the current time.
func Report(err *Error) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleError(err)
	}
}

// ReportPanic sends a panic error to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if h := getHandler(); h != nil {
		h.HandlePanic(err)
	}
}

// Invariant reports a programming error found by op. With assertions
// enabled it panics with the reported *Error; otherwise the caller is
// expected to treat the operation as a no-op.
func Invariant(op string, err error) {
	e := New(op, KindInvariant, err)
	Report(e)
	if AssertionsEnabled() {
		panic(e)
	}
}

// Invariantf is Invariant with a formatted message wrapping base.
func Invariantf(op string, base error, format string, args ...any) {
	Invariant(op, fmt.Errorf("%w: "+format, append([]any{base}, args...)...))
}

// Recover is a helper for deferred panic recovery.
// Usage: defer errors.Recover("operation.name")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
			Timestamp:  time.Now(),
		})
	}
}

// RecoverTo is Recover that also stores a KindPanic *Error in *errp, so a
// function with a named error result reports the failure to its caller.
// Usage: defer errors.RecoverTo("operation.name", &err)
func RecoverTo(op string, errp *error) {
	if r := recover(); r != nil {
		pe := &PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
			Timestamp:  time.Now(),
		}
		ReportPanic(pe)
		if errp != nil {
			*errp = New(op, KindPanic, pe)
		}
	}
}

// CaptureStack returns the current call stack as a string.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}

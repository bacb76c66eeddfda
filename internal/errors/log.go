package errors

import (
	"context"
	"log/slog"
)

// LogHandler is a Handler that writes to a slog.Logger.
type LogHandler struct {
	// Logger receives the records; slog.Default() when nil.
	Logger *slog.Logger
	// Verbose adds stack traces to panic records.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleError logs an Error. Dispatch errors are warnings; everything else
// is logged at error level.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	level := slog.LevelError
	if err.Kind == KindDispatch {
		level = slog.LevelWarn
	}
	h.logger().Log(context.Background(), level, "viewcache error", "op", err.Op, "kind", err.Kind.String(), "err", err.Err)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("viewcache panic", attrs...)
}

package errors

import (
	"log/slog"
)

// LogHandler is a Handler that logs through log/slog.
type LogHandler struct {
	// Logger receives the records. Nil means slog.Default().
	Logger *slog.Logger
	// Verbose enables stack traces in the output.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleError logs a TreeError at warn level.
func (h *LogHandler) HandleError(err *TreeError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "kind", err.Kind.String(), "err", err.Err}
	if err.Surface != "" {
		attrs = append(attrs, "surface", err.Surface)
	}
	if err.Tag != 0 {
		attrs = append(attrs, "tag", err.Tag)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Warn("shadow tree error", attrs...)
}

// HandleInvariant logs an InvariantError at error level. The stack is always
// included since the process is about to stop.
func (h *LogHandler) HandleInvariant(err *InvariantError) {
	if err == nil {
		return
	}
	h.logger().Error("shadow tree invariant violated",
		"op", err.Op,
		"kind", err.Kind.String(),
		"tag", err.Tag,
		"detail", err.Detail,
		"stack", err.StackTrace,
	)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("recovered panic", attrs...)
}

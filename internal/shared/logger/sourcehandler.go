package logger

import (
	"context"
	"log/slog"
	"runtime"
)

type sourceHandler struct {
	handler   slog.Handler
	minSource slog.Level
}

// NewSourceHandler wraps handler so that records at or above minSource
// carry a source attribute. The wrapped handler should not add source itself.
func NewSourceHandler(handler slog.Handler, minSource slog.Level) slog.Handler {
	return &sourceHandler{handler: handler, minSource: minSource}
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minSource {
		pc := r.PC
		if pc == 0 {
			var pcs [1]uintptr
			runtime.Callers(4, pcs[:])
			pc = pcs[0]
		}
		f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		}))
	}
	return h.handler.Handle(ctx, r)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{handler: h.handler.WithAttrs(attrs), minSource: h.minSource}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{handler: h.handler.WithGroup(name), minSource: h.minSource}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

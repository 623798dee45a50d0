package logging

import (
	"context"
	"log/slog"
)

// LevelFilter drops records below a minimum level before they reach the
// wrapped handler. Used to keep the error log file free of info noise.
type LevelFilter struct {
	handler  slog.Handler
	minLevel slog.Level
}

// NewLevelFilter wraps handler with a minimum level gate.
func NewLevelFilter(handler slog.Handler, minLevel slog.Level) *LevelFilter {
	return &LevelFilter{handler: handler, minLevel: minLevel}
}

func (h *LevelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.minLevel && h.handler.Enabled(ctx, level)
}

func (h *LevelFilter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.minLevel {
		return nil
	}
	return h.handler.Handle(ctx, r)
}

func (h *LevelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelFilter{handler: h.handler.WithAttrs(attrs), minLevel: h.minLevel}
}

func (h *LevelFilter) WithGroup(name string) slog.Handler {
	return &LevelFilter{handler: h.handler.WithGroup(name), minLevel: h.minLevel}
}

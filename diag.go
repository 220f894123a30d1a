package eventchannel

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// minLevelHandler suppresses records below a minimum level before delegating to another [slog.Handler].
// It's how [FromEnv] applies a log level override without touching the configured logger's own settings.
type minLevelHandler struct {
	level slog.Level
	impl  slog.Handler
}

var _ slog.Handler = minLevelHandler{}

func (h minLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level && h.impl.Enabled(ctx, level)
}

func (h minLevelHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.impl.Handle(ctx, record)
}

func (h minLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return minLevelHandler{level: h.level, impl: h.impl.WithAttrs(attrs)}
}

func (h minLevelHandler) WithGroup(name string) slog.Handler {
	return minLevelHandler{level: h.level, impl: h.impl.WithGroup(name)}
}

// diagnostics is the channel's observability side-channel.
// Every signal maps to one leveled [slog.Logger] entry; none of them affect dispatch behavior.
type diagnostics struct {
	log *slog.Logger
}

func (d diagnostics) handlerAdded(id uuid.UUID, oneOff bool) {
	if oneOff {
		d.log.Info("added one-off handler", "handler", id)
		return
	}
	d.log.Info("added handler", "handler", id)
}

func (d diagnostics) handlerRemoved(id uuid.UUID) {
	d.log.Info("removed handler", "handler", id)
}

func (d diagnostics) handlerNotRemoved(id uuid.UUID) {
	d.log.Warn("handler was not removed", "handler", id)
}

func (d diagnostics) eventQueued(depth int) {
	d.log.Debug("queuing event", "depth", depth)
}

func (d diagnostics) oneOffFired(id uuid.UUID) {
	d.log.Info("one-off handler executed", "handler", id)
}

func (d diagnostics) noHandlerMatched() {
	d.log.Debug("not a single handler accepted event")
}

func (d diagnostics) handlerFailed(id uuid.UUID, err error) {
	d.log.Warn("event handler failed", "handler", id, "error", err)
}

func (d diagnostics) loopStopped(reason string, pending int) {
	d.log.Info("event processing stopped", "reason", reason, "pending", pending)
}

func (d diagnostics) pendingDiscarded(count int) {
	d.log.Info("discarded pending events", "count", count)
}

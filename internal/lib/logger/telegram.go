package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// Notifier delivers log records to a chat, typically the admin's.
type Notifier interface {
	SendMessage(msg string)
}

// telegramHandler fans records out to the wrapped handler and, for records
// at or above minLevel, to the notifier.
type telegramHandler struct {
	next     slog.Handler
	notifier Notifier
	minLevel slog.Level
}

// SetupTelegramHandler wraps an existing logger so that records at or above
// minLevel are also forwarded to the notifier.
func SetupTelegramHandler(log *slog.Logger, notifier Notifier, minLevel slog.Level) *slog.Logger {
	return slog.New(&telegramHandler{
		next:     log.Handler(),
		notifier: notifier,
		minLevel: minLevel,
	})
}

func (h *telegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *telegramHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel && h.notifier != nil {
		msg := fmt.Sprintf("[%s] %s", r.Level.String(), r.Message)
		r.Attrs(func(a slog.Attr) bool {
			msg += fmt.Sprintf("\n%s: %s", a.Key, a.Value.String())
			return true
		})
		h.notifier.SendMessage(msg)
	}
	return h.next.Handle(ctx, r)
}

func (h *telegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &telegramHandler{next: h.next.WithAttrs(attrs), notifier: h.notifier, minLevel: h.minLevel}
}

func (h *telegramHandler) WithGroup(name string) slog.Handler {
	return &telegramHandler{next: h.next.WithGroup(name), notifier: h.notifier, minLevel: h.minLevel}
}

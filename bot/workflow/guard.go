package workflow

import (
	"fmt"
	"log/slog"
	"sync"

	"AstroBot/internal/lib/sl"
)

// Guard serializes inbound-event handling per chat. A second event arriving
// while a handler runs is rejected with ErrBusy, never queued; a completion
// call can hold a chat busy for a minute and a queued duplicate tap is
// rarely what the user wanted.
type Guard struct {
	mu   sync.Mutex
	busy map[int64]struct{}
	log  *slog.Logger
}

// NewGuard creates a per-chat single-flight guard.
func NewGuard(log *slog.Logger) *Guard {
	return &Guard{
		busy: make(map[int64]struct{}),
		log:  log.With(sl.Module("guard")),
	}
}

// Do runs fn while holding the chat's busy slot. Returns ErrBusy without
// invoking fn when a handler is already in flight for the chat. The slot is
// released even when fn panics; the panic is converted to an error.
func (g *Guard) Do(chatID int64, fn func() error) (err error) {
	if !g.acquire(chatID) {
		g.log.Warn("rejecting concurrent event", slog.Int64("chat_id", chatID))
		return ErrBusy
	}
	defer func() {
		g.release(chatID)
		if r := recover(); r != nil {
			g.log.Error("handler panic", slog.Int64("chat_id", chatID), slog.Any("panic", r))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return fn()
}

func (g *Guard) acquire(chatID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.busy[chatID]; exists {
		return false
	}
	g.busy[chatID] = struct{}{}
	return true
}

func (g *Guard) release(chatID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, chatID)
}

package status

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"AstroBot/internal/lib/sl"
)

// Core is the storage surface the status handlers read from.
type Core interface {
	CountSubscriptions() (int64, error)
}

var started = time.Now()

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

type statsResponse struct {
	Subscriptions int64 `json:"subscriptions"`
}

// Health reports liveness and process uptime.
func Health(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, healthResponse{
			Status: "ok",
			Uptime: time.Since(started).Round(time.Second).String(),
		})
	}
}

// Stats reports subscriber counts for the ops dashboard.
func Stats(log *slog.Logger, core Core) http.HandlerFunc {
	mod := sl.Module("http.handlers.status")

	return func(w http.ResponseWriter, r *http.Request) {
		count, err := core.CountSubscriptions()
		if err != nil {
			log.With(mod).Error("counting subscriptions", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, statsResponse{})
			return
		}
		render.JSON(w, r, statsResponse{Subscriptions: count})
	}
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/goalpulse/goalpulse/internal/httpx"
	"github.com/goalpulse/goalpulse/internal/reminder"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type EntryLister interface {
	Entries(now time.Time) []reminder.EntryInfo
}

type HomeHandler struct {
	appName   string
	db        Pinger
	scheduler EntryLister
}

// NewHomeHandler serves the banner and health check. scheduler may be nil
// when reminders are disabled.
func NewHomeHandler(appName string, db Pinger, scheduler EntryLister) *HomeHandler {
	return &HomeHandler{appName: appName, db: db, scheduler: scheduler}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": h.appName + " API is running!"})
}

type healthResponse struct {
	Status    string               `json:"status"`
	Database  string               `json:"database"`
	Reminders []reminder.EntryInfo `json:"reminders"`
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok", Reminders: []reminder.EntryInfo{}}
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Error("health check database ping failed", "error", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	if h.scheduler != nil {
		resp.Reminders = h.scheduler.Entries(time.Now())
	}

	httpx.WriteJSON(w, code, resp)
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(w, http.StatusNotFound, "Not found")
}

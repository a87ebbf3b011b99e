package handler

import (
	"net/http"
	"strconv"

	"github.com/goalpulse/goalpulse/internal/ctxkeys"
	"github.com/goalpulse/goalpulse/internal/httpx"
	"github.com/goalpulse/goalpulse/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	notifications, err := h.notificationService.Recent(r.Context(), user.ID, limit)
	if err != nil {
		writeServiceError(w, r, err, "failed to list notifications", "user_id", user.ID)
		return
	}
	if notifications == nil {
		httpx.WriteJSON(w, http.StatusOK, []struct{}{})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, notifications)
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goalpulse/goalpulse/internal/httpx"
	"github.com/goalpulse/goalpulse/internal/repository"
	"github.com/goalpulse/goalpulse/internal/service"
)

// writeServiceError maps service and repository errors to responses.
// Anything unexpected is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string, attrs ...any) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, repository.ErrGoalNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Goal not found")
	case errors.Is(err, repository.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "User not found")
	default:
		attrs = append(attrs, "error", err, "path", r.URL.Path)
		slog.ErrorContext(r.Context(), msg, attrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
	}
}

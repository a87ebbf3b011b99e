package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goalpulse/goalpulse/internal/ctxkeys"
	"github.com/goalpulse/goalpulse/internal/httpx"
	"github.com/goalpulse/goalpulse/internal/model"
	"github.com/goalpulse/goalpulse/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password, req.Phone)
	if errors.Is(err, service.ErrEmailAlreadyExists) {
		httpx.WriteError(w, http.StatusBadRequest, "Email already in use")
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "failed to register user")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, "Account created successfully", user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "failed to log in")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, "Logged in successfully", user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, code int, message string, user *model.User) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		writeServiceError(w, r, err, "failed to sign token", "user_id", user.ID)
		return
	}

	httpx.WriteJSON(w, code, authResponse{Message: message, Token: token, User: user})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

type preferenceRequest struct {
	NotificationFrequency string `json:"notificationFrequency"`
}

func (h *AuthHandler) UpdateNotificationPreference(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req preferenceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.userService.UpdateNotificationFrequency(r.Context(), user.ID, req.NotificationFrequency)
	if errors.Is(err, service.ErrInvalidFrequency) {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid frequency. Use passive or persistent.")
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "failed to update notification preference", "user_id", user.ID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message":               "Notification preference updated",
		"notificationFrequency": updated.NotificationFrequency,
	})
}

func (h *AuthHandler) TestSMS(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.SendTestSMS(r.Context(), user.ID)
	if err != nil {
		slog.Error("test sms failed", "error", err, "user_id", user.ID)
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Failed to send test SMS",
			"error":   err.Error(),
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Test SMS sent successfully!"})
}

package handler

import (
	"net/http"

	"github.com/goalpulse/goalpulse/internal/ctxkeys"
	"github.com/goalpulse/goalpulse/internal/httpx"
	"github.com/goalpulse/goalpulse/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type createGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GoalType    string `json:"goalType"`
	Frequency   string `json:"frequency"`
	DueDate     string `json:"dueDate"`
}

type updateGoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
	DueDate     *string `json:"dueDate"`
	IsCompleted *bool   `json:"isCompleted"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.Goals(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "failed to get goals", "user_id", user.ID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createGoalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := h.goalService.Create(r.Context(), user.ID, service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		GoalType:    req.GoalType,
		Frequency:   req.Frequency,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeServiceError(w, r, err, "failed to create goal", "user_id", user.ID)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	var req updateGoalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := h.goalService.Update(r.Context(), user.ID, goalID, service.GoalUpdate{
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
		DueDate:     req.DueDate,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		writeServiceError(w, r, err, "failed to update goal", "user_id", user.ID, "goal_id", goalID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	err := h.goalService.Delete(r.Context(), user.ID, goalID)
	if err != nil {
		writeServiceError(w, r, err, "failed to delete goal", "user_id", user.ID, "goal_id", goalID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted successfully"})
}

func (h *GoalHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	goal, err := h.goalService.ToggleComplete(r.Context(), user.ID, goalID)
	if err != nil {
		writeServiceError(w, r, err, "failed to toggle goal", "user_id", user.ID, "goal_id", goalID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, goal)
}

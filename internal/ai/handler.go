package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/tasket-app/tasket-api/internal/auth"
	"github.com/tasket-app/tasket-api/internal/httputil"
	"github.com/tasket-app/tasket-api/internal/logging"
	"github.com/tasket-app/tasket-api/internal/todo"
)

// TodoStore is the owner-scoped read surface the AI handlers need.
// *todo.Repository satisfies it.
type TodoStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID, sort todo.Sort) ([]*todo.Todo, error)
	GetByOwner(ctx context.Context, ownerID, todoID uuid.UUID) (*todo.Todo, error)
}

// Handler contains HTTP handlers for AI-backed endpoints
type Handler struct {
	engine *Engine
	todos  TodoStore
}

func NewHandler(engine *Engine, todos TodoStore) *Handler {
	return &Handler{engine: engine, todos: todos}
}

// PrioritizeResponse wraps the grouped classification
type PrioritizeResponse struct {
	Groups *PriorityGroups `json:"groups"`
}

// TechniqueRequest asks for a workspace plan for one task
type TechniqueRequest struct {
	TodoID    string `json:"todoId"`
	Technique string `json:"technique"`
}

// TechniqueResponse wraps the workspace plan
type TechniqueResponse struct {
	Result *WorkspacePlan `json:"result"`
}

// Prioritize classifies the caller's tasks
// @Summary      Prioritize tasks
// @Description  Classify the caller's task list into focus, quick-win, deep-work and optional buckets with per-task advice.
// @Tags         ai
// @Produce      json
// @Success      200 {object} PrioritizeResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "AI service unavailable"
// @Router       /prioritize [post]
func (h *Handler) Prioritize(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthorized", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	tasks, err := h.todos.ListByOwner(r.Context(), u.ID, todo.SortCreatedDesc)
	if err != nil {
		logger.Error("failed to list todos for prioritization", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to load tasks", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	groups, err := h.engine.Prioritize(r.Context(), tasks)
	if err != nil {
		logger.Error("prioritization failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "AI service unavailable", httputil.CodeAIUnavailable, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, PrioritizeResponse{Groups: groups}, http.StatusOK)
}

// Insight returns an on-demand, action-specific insight for one task
// @Summary      Task insight
// @Description  Run one of the fixed insight actions (breakdown, motivate, strategy, obstacles, default tip) for a single task.
// @Tags         ai
// @Produce      json
// @Param        taskId query string false "Task id"
// @Param        title query string true "Task title"
// @Param        description query string false "Task description"
// @Param        action query string false "breakdown | motivate | strategy | obstacles"
// @Success      200 {object} map[string]any
// @Failure      400 {object} httputil.ErrorResponse "Missing title"
// @Failure      500 {object} httputil.ErrorResponse "AI service unavailable"
// @Router       /prioritize [get]
func (h *Handler) Insight(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	query := r.URL.Query()
	title := query.Get("title")
	if title == "" {
		httputil.RespondErrorWithCode(w, "task title required", httputil.CodeTitleRequired, http.StatusBadRequest)
		return
	}

	task := TaskInfo{
		ID:          query.Get("taskId"),
		Title:       title,
		Description: query.Get("description"),
	}

	action := Action(query.Get("action"))

	payload, err := h.engine.Insight(r.Context(), task, action)
	if err != nil {
		logger.Error("insight failed", "action", string(action), "error", err.Error())
		httputil.RespondErrorWithCode(w, "AI service unavailable", httputil.CodeAIUnavailable, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, payload, http.StatusOK)
}

// Technique plans a workspace for a task and technique
// @Summary      Plan a technique workspace
// @Description  Ask the AI for a workspace plan constrained to the technique's component set. The HTML summary is sanitized server-side.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body TechniqueRequest true "Task id and technique key"
// @Success      200 {object} TechniqueResponse
// @Failure      400 {object} httputil.ErrorResponse "Unknown technique"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Failure      500 {object} httputil.ErrorResponse "AI service unavailable"
// @Router       /technique [post]
func (h *Handler) Technique(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthorized", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req TechniqueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid technique request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	todoID, err := uuid.Parse(req.TodoID)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid todo id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	task, err := h.todos.GetByOwner(r.Context(), u.ID, todoID)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			httputil.RespondErrorWithCode(w, "task not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to load todo for technique plan", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to load task", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	plan, err := h.engine.PlanWorkspace(r.Context(), TaskInfo{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
	}, req.Technique)
	if err != nil {
		if errors.Is(err, ErrUnknownTechnique) {
			httputil.RespondErrorWithCode(w, "unknown technique: "+req.Technique, httputil.CodeUnknownTechnique, http.StatusBadRequest)
			return
		}
		logger.Error("workspace plan failed", "technique", req.Technique, "error", err.Error())
		httputil.RespondErrorWithCode(w, "AI service unavailable", httputil.CodeAIUnavailable, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, TechniqueResponse{Result: plan}, http.StatusOK)
}

package todo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/tasket-app/tasket-api/internal/auth"
	"github.com/tasket-app/tasket-api/internal/httputil"
	"github.com/tasket-app/tasket-api/internal/logging"
)

// Store is the owner-scoped persistence surface the handlers need.
// *Repository satisfies it.
type Store interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID, sort Sort) ([]*Todo, error)
	GetByOwner(ctx context.Context, ownerID, todoID uuid.UUID) (*Todo, error)
	Create(ctx context.Context, ownerID uuid.UUID, input NewTodo) (*Todo, error)
	Update(ctx context.Context, ownerID, todoID uuid.UUID, patch Patch) (*Todo, error)
	Delete(ctx context.Context, ownerID, todoID uuid.UUID) (bool, error)
}

// Handler contains HTTP handlers for todo CRUD
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// CreateTodoRequest is the create payload
type CreateTodoRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Pomodoro    *Pomodoro `json:"pomodoro,omitempty"`
}

// UpdateTodoRequest carries the target id plus the fields to change. Absent
// fields are left untouched.
type UpdateTodoRequest struct {
	ID          string    `json:"_id"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	Pomodoro    *Pomodoro `json:"pomodoro,omitempty"`
}

// DeleteTodoRequest names the todo to delete
type DeleteTodoRequest struct {
	ID string `json:"id"`
}

// DeleteTodoResponse reports whether a row was removed
type DeleteTodoResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// List returns the caller's todos in insertion order
// @Summary      List todos
// @Description  Return every todo owned by the caller, oldest first.
// @Tags         todos
// @Produce      json
// @Success      200 {array} Todo
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /todos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthorized", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	todos, err := h.store.ListByOwner(r.Context(), u.ID, SortInsertion)
	if err != nil {
		logger.Error("failed to list todos", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to load todos", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, todos, http.StatusOK)
}

// Create adds a todo for the caller
// @Summary      Create todo
// @Description  Create a todo owned by the caller. Title is required; description and pomodoro are optional.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        request body CreateTodoRequest true "New todo"
// @Success      201 {object} Todo
// @Failure      400 {object} httputil.ErrorResponse "Missing title"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /todos [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthorized", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create todo body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		httputil.RespondErrorWithCode(w, "title is required", httputil.CodeTitleRequired, http.StatusBadRequest)
		return
	}

	created, err := h.store.Create(r.Context(), u.ID, NewTodo{
		Title:       req.Title,
		Description: req.Description,
		Pomodoro:    req.Pomodoro,
	})
	if err != nil {
		logger.Error("failed to create todo", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create todo", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("todo created", "todo_id", created.ID.String())
	httputil.RespondJSON(w, created, http.StatusCreated)
}

// Update applies a partial update to one of the caller's todos
// @Summary      Update todo
// @Description  Apply the provided fields to the named todo. Fields absent from the body keep their current value. Todos owned by other users look like missing todos.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        request body UpdateTodoRequest true "Fields to change"
// @Success      200 {object} Todo
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Todo not found"
// @Router       /todos [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthorized", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid update todo body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	todoID, err := uuid.Parse(req.ID)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid todo id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.store.Update(r.Context(), u.ID, todoID, Patch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Pomodoro:    req.Pomodoro,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "todo not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update todo", "todo_id", req.ID, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update todo", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete removes one of the caller's todos
// @Summary      Delete todo
// @Description  Delete the named todo. Deleting a missing or foreign-owned todo is not an error; the response reports success false.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        request body DeleteTodoRequest true "Todo id"
// @Success      200 {object} DeleteTodoResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /todos [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthorized", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req DeleteTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid delete todo body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	todoID, err := uuid.Parse(req.ID)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid todo id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	deleted, err := h.store.Delete(r.Context(), u.ID, todoID)
	if err != nil {
		logger.Error("failed to delete todo", "todo_id", req.ID, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete todo", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	if !deleted {
		httputil.RespondJSON(w, DeleteTodoResponse{Success: false, Message: "todo not found"}, http.StatusOK)
		return
	}

	httputil.RespondJSON(w, DeleteTodoResponse{Success: true}, http.StatusOK)
}

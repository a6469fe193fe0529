package handler

import (
	"fmt"
	"net/http"

	"github.com/msomdec/todolist/internal/domain"
	"github.com/msomdec/todolist/internal/service"
)

// TodoHandler handles todo HTTP requests. Every route runs behind
// RequireAuth, so the context always carries a user.
type TodoHandler struct {
	tasks *service.TaskService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(tasks *service.TaskService) *TodoHandler {
	return &TodoHandler{tasks: tasks}
}

// HandleList returns the caller's todos.
// GET /api/todos
// Response: {"todos": [...]}
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.tasks.ListForUser(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "list todos")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todos": toTodoDTOs(todos),
	})
}

// HandleGet returns one of the caller's todos.
// GET /api/todos/{id}
func (h *TodoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	todo, err := h.tasks.GetByID(r.Context(), r.PathValue("id"), UserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "get todo")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todo": toTodoDTO(todo),
	})
}

// HandleCreate adds a todo for the caller.
// POST /api/todos
// Request:  {"title":"..."}
// Response: 201 {"todo": {...}}
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title *string `json:"title"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, "decode todo")
		return
	}
	if req.Title == nil {
		writeServiceError(w, r, fmt.Errorf("%w: title is required", domain.ErrInvalidInput), "validate todo")
		return
	}

	todo, err := h.tasks.Create(r.Context(), *req.Title, UserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "create todo")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"todo": toTodoDTO(todo),
	})
}

// HandleUpdate applies a partial update. Absent or null fields are left
// unchanged.
// PATCH /api/todos/{id}
// Request:  {"title":"...","completed":true}
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, "decode todo patch")
		return
	}

	patch := domain.TodoPatch{Title: req.Title, Completed: req.Completed}
	todo, err := h.tasks.Update(r.Context(), r.PathValue("id"), UserFromContext(r.Context()), patch)
	if err != nil {
		writeServiceError(w, r, err, "update todo")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todo": toTodoDTO(todo),
	})
}

// HandleDelete removes one of the caller's todos.
// DELETE /api/todos/{id}
// Response: {"deleted": true}
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.tasks.DeleteByID(r.Context(), r.PathValue("id"), UserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "delete todo")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/todolist/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. A nil limiter
// leaves signup and login unthrottled.
func RegisterRoutes(mux *http.ServeMux, accounts *service.AccountService, tasks *service.TaskService, limiter *service.RateLimiter) {
	authHandler := NewAuthHandler(accounts)
	todoHandler := NewTodoHandler(tasks)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(accounts, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.Handle("POST /api/auth/signup", RateLimit(limiter, http.HandlerFunc(authHandler.HandleSignup)))
	mux.Handle("POST /api/auth/login", RateLimit(limiter, http.HandlerFunc(authHandler.HandleLogin)))
	mux.Handle("GET /api/me", requireAuth(authHandler.HandleMe))

	mux.Handle("GET /api/todos", requireAuth(todoHandler.HandleList))
	mux.Handle("POST /api/todos", requireAuth(todoHandler.HandleCreate))
	mux.Handle("GET /api/todos/{id}", requireAuth(todoHandler.HandleGet))
	mux.Handle("PATCH /api/todos/{id}", requireAuth(todoHandler.HandleUpdate))
	mux.Handle("DELETE /api/todos/{id}", requireAuth(todoHandler.HandleDelete))
}

// Middleware wraps h with the standard chain, outermost first: Recover,
// RequestID, LogRequests, CORS, SecurityHeaders.
func Middleware(h http.Handler, logger *slog.Logger, allowedOrigins []string) http.Handler {
	h = SecurityHeaders(h)
	h = CORS(allowedOrigins, h)
	h = LogRequests(logger, h)
	h = RequestID(h)
	return Recover(h)
}

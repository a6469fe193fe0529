package handler

import (
	"fmt"
	"net/http"

	"github.com/msomdec/todolist/internal/domain"
	"github.com/msomdec/todolist/internal/service"
)

// AuthHandler handles account-related HTTP requests.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type credentialsRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (req credentialsRequest) validate() error {
	if req.Email == nil || req.Password == nil {
		return fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	return nil
}

// HandleSignup registers a new account.
// POST /api/auth/signup
// Request:  {"email":"...","password":"..."}
// Response: 201 {"token":"...","user":{...}}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, "decode signup")
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, err, "validate signup")
		return
	}

	payload, err := h.accounts.Signup(r.Context(), *req.Email, *req.Password)
	if err != nil {
		writeServiceError(w, r, err, "signup user")
		return
	}

	writeJSON(w, http.StatusCreated, toAuthPayloadDTO(payload))
}

// HandleLogin exchanges an email and password for a credential.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"token":"...","user":{...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, "decode login")
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, err, "validate login")
		return
	}

	payload, err := h.accounts.Login(r.Context(), *req.Email, *req.Password)
	if err != nil {
		writeServiceError(w, r, err, "login user")
		return
	}

	writeJSON(w, http.StatusOK, toAuthPayloadDTO(payload))
}

// HandleMe returns the currently authenticated user.
// GET /api/me
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeServiceError(w, r, domain.ErrUnauthenticated, "get current user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

func toAuthPayloadDTO(p *service.AuthPayload) AuthPayloadDTO {
	return AuthPayloadDTO{Token: p.Token, User: toUserDTO(p.User)}
}

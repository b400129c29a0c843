package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tranqv/shopcore/internal/httpmw"
	"github.com/tranqv/shopcore/internal/user/usecase/command"
	"github.com/tranqv/shopcore/internal/user/usecase/query"
	"github.com/tranqv/shopcore/pkg/logger"
)

// UserHandler handles HTTP requests for accounts
type UserHandler struct {
	registerHandler *command.RegisterHandler
	loginHandler    *command.LoginHandler
	profileHandler  *query.GetProfileHandler
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	registerHandler *command.RegisterHandler,
	loginHandler *command.LoginHandler,
	profileHandler *query.GetProfileHandler,
) *UserHandler {
	return &UserHandler{
		registerHandler: registerHandler,
		loginHandler:    loginHandler,
		profileHandler:  profileHandler,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/users/register", h.Register).Methods("POST")
	router.HandleFunc("/api/users/login", h.Login).Methods("POST")
	router.Handle("/api/users/me", httpmw.RequireAuth(http.HandlerFunc(h.Me))).Methods("GET")
}

// Register handles POST /api/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd command.RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	user, err := h.registerHandler.Handle(r.Context(), cmd)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, command.ErrUsernameTaken) {
			status = http.StatusConflict
		}
		respondJSON(w, status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Account created successfully",
		Data:    user,
	})
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd command.LoginCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.loginHandler.Handle(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, command.ErrInvalidCredentials) {
			respondJSON(w, http.StatusUnauthorized, Response{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Login failed")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Login failed",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Logged in successfully",
		Data:    result,
	})
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.profileHandler.Handle(r.Context(), query.GetProfileQuery{
		UserID: httpmw.UserIDFrom(r.Context()),
	})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "User not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    user,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

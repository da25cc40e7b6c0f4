package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"stationdesk/services/mock-api/internal/service"
)

// AuthHandlers serves /auth endpoints.
type AuthHandlers struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandlers builds AuthHandlers.
func NewAuthHandlers(auth *service.AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{auth: auth, logger: logger}
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	payload, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, payload)
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	payload, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, payload)
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"stationdesk/services/mock-api/internal/service"
)

const maxBodyBytes = 1 << 20

// writeData wraps payload in the {"data": ...} envelope.
func writeData(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, map[string]any{"data": payload})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

// writeServiceError maps service errors onto status codes. Unknown errors are logged and hidden.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Charging station not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not authorized to modify this station")
	case errors.Is(err, service.ErrEmailInUse):
		writeError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

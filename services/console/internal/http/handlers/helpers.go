package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"stationdesk/services/console/internal/models"
	"stationdesk/services/console/internal/opstate"
	"stationdesk/services/console/internal/service"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}

// callError returns the failure message of this request's last call of operation.
func callError(calls *opstate.Recorder, operation, fallback string) string {
	snap, ok := calls.Last(operation)
	if ok && snap.State == opstate.StateFailed && snap.Error != "" {
		return snap.Error
	}
	return fallback
}

type userView struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func newUserView(u *models.User) *userView {
	if u == nil {
		return nil
	}
	return &userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type sessionView struct {
	Authenticated bool      `json:"authenticated"`
	IsAdmin       bool      `json:"isAdmin"`
	User          *userView `json:"user,omitempty"`
}

func newSessionView(s *service.SessionStore) sessionView {
	return sessionView{
		Authenticated: s.IsAuthenticated(),
		IsAdmin:       s.IsAdmin(),
		User:          newUserView(s.User()),
	}
}

// page is the envelope of every console view.
type page struct {
	Route   string      `json:"route"`
	Session sessionView `json:"session"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type formOptions struct {
	Statuses       []models.StationStatus `json:"statuses"`
	ConnectorTypes []models.ConnectorType `json:"connectorTypes"`
}

func stationFormOptions() formOptions {
	return formOptions{Statuses: models.StationStatuses, ConnectorTypes: models.ConnectorTypes}
}

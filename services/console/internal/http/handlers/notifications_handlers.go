package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"stationdesk/services/console/internal/notify"
)

// NotificationsHandlers exposes the visible toasts.
type NotificationsHandlers struct {
	center *notify.Center
}

// NewNotificationsHandlers returns handler.
func NewNotificationsHandlers(center *notify.Center) *NotificationsHandlers {
	return &NotificationsHandlers{center: center}
}

// List handles GET /notifications.
func (h *NotificationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.center.Active()})
}

// Dismiss handles DELETE /notifications/{id}.
func (h *NotificationsHandlers) Dismiss(w http.ResponseWriter, r *http.Request) {
	if !h.center.Dismiss(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

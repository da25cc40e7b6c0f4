package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stationdesk/services/mock-api/internal/http/middleware"
	"stationdesk/services/mock-api/internal/models"
	"stationdesk/services/mock-api/internal/service"
)

// StationsHandlers serves /stations endpoints.
type StationsHandlers struct {
	stations *service.StationsService
	logger   *zap.Logger
}

// NewStationsHandlers builds StationsHandlers.
func NewStationsHandlers(stations *service.StationsService, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{stations: stations, logger: logger}
}

// List handles GET /stations?status=&connectorType=&minPower=&maxPower=.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	filter, msg := parseFilter(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	stations, err := h.stations.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, stations)
}

// Get handles GET /stations/{id}.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	station, err := h.stations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, station)
}

// Create handles POST /stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	var fields models.StationFields
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	station, err := h.stations.Create(r.Context(), actor, fields)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, station)
}

// Update handles PUT /stations/{id}.
func (h *StationsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	var fields models.StationFields
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	station, err := h.stations.Update(r.Context(), actor, chi.URLParam(r, "id"), fields)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, station)
}

// Delete handles DELETE /stations/{id}.
func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	if err := h.stations.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{})
}

func parseFilter(r *http.Request) (models.StationFilter, string) {
	q := r.URL.Query()
	filter := models.StationFilter{
		Status:        strings.TrimSpace(q.Get("status")),
		ConnectorType: strings.TrimSpace(q.Get("connectorType")),
	}
	for _, p := range []struct {
		key string
		dst **float64
	}{{"minPower", &filter.MinPower}, {"maxPower", &filter.MaxPower}} {
		raw := strings.TrimSpace(q.Get(p.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, p.key + " must be a number"
		}
		*p.dst = &v
	}
	return filter, ""
}

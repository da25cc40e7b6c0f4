package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stationdesk/services/console/internal/models"
	"stationdesk/services/console/internal/navigation"
	"stationdesk/services/console/internal/opstate"
	"stationdesk/services/console/internal/service"
)

// StationsHandlers serves the station list, forms and CRUD actions.
type StationsHandlers struct {
	session  *service.SessionStore
	stations *service.StationStore
	logger   *zap.Logger
}

// NewStationsHandlers returns handler.
func NewStationsHandlers(session *service.SessionStore, stations *service.StationStore, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{session: session, stations: stations, logger: logger}
}

func appliedFilters(f models.StationFilters) map[string]string {
	values, _ := url.ParseQuery(f.Query())
	out := make(map[string]string, len(values))
	for key := range values {
		out[key] = values.Get(key)
	}
	return out
}

type stationList struct {
	Filters  map[string]string `json:"filters"`
	Stations []models.Station  `json:"stations"`
}

// List handles GET /stations. Filters come from the query string.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	filters, err := models.ParseStationFilters(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, calls := opstate.WithRecorder(r.Context())
	stations := h.stations.FetchStations(ctx, filters)

	p := page{
		Route:   navigation.RouteStations,
		Session: newSessionView(h.session),
		Data:    stationList{Filters: appliedFilters(filters), Stations: stations},
	}
	p.Error = callError(calls, service.OpFetchStations, "")
	writeJSON(w, http.StatusOK, p)
}

type stationForm struct {
	formOptions
	Station *models.Station `json:"station,omitempty"`
}

// NewForm handles GET /stations/new.
func (h *StationsHandlers) NewForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, page{
		Route:   navigation.RouteNewStation,
		Session: newSessionView(h.session),
		Data:    stationForm{formOptions: stationFormOptions()},
	})
}

// EditForm handles GET /stations/{id}/edit.
func (h *StationsHandlers) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, calls := opstate.WithRecorder(r.Context())
	station := h.stations.FetchStationByID(ctx, id)
	if station == nil {
		writeError(w, http.StatusNotFound, callError(calls, service.OpFetchStationByID, "Failed to fetch station details"))
		return
	}
	writeJSON(w, http.StatusOK, page{
		Route:   navigation.RouteEditStation,
		Session: newSessionView(h.session),
		Data:    stationForm{formOptions: stationFormOptions(), Station: station},
	})
}

// Create handles POST /stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var in models.StationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, calls := opstate.WithRecorder(r.Context())
	station := h.stations.CreateStation(ctx, in)
	if station == nil {
		writeError(w, http.StatusUnprocessableEntity, callError(calls, service.OpCreateStation, "Failed to create station"))
		return
	}
	h.logger.Info("station created", zap.String("station_id", station.ID))
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": station})
}

// Update handles PUT /stations/{id}.
func (h *StationsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.StationPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if patch.Empty() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	ctx, calls := opstate.WithRecorder(r.Context())
	station := h.stations.UpdateStation(ctx, chi.URLParam(r, "id"), patch)
	if station == nil {
		writeError(w, http.StatusUnprocessableEntity, callError(calls, service.OpUpdateStation, "Failed to update station"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": station})
}

// Delete handles DELETE /stations/{id}.
func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, calls := opstate.WithRecorder(r.Context())
	if !h.stations.DeleteStation(ctx, chi.URLParam(r, "id")) {
		writeError(w, http.StatusBadGateway, callError(calls, service.OpDeleteStation, "Failed to delete station"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

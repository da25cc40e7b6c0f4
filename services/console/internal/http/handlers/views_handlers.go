package handlers

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stationdesk/services/console/internal/models"
	"stationdesk/services/console/internal/navigation"
	"stationdesk/services/console/internal/opstate"
	"stationdesk/services/console/internal/service"
)

const recentStations = 5

// ViewHandlers renders the read-only console views.
type ViewHandlers struct {
	session  *service.SessionStore
	stations *service.StationStore
	logger   *zap.Logger
}

// NewViewHandlers returns handler.
func NewViewHandlers(session *service.SessionStore, stations *service.StationStore, logger *zap.Logger) *ViewHandlers {
	return &ViewHandlers{session: session, stations: stations, logger: logger}
}

// Home handles GET /.
func (h *ViewHandlers) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, page{Route: navigation.RouteHome, Session: newSessionView(h.session)})
}

// NotFound is the router fallback.
func (h *ViewHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, page{
		Route:   navigation.RouteNotFound,
		Session: newSessionView(h.session),
		Data:    map[string]string{"path": r.URL.Path},
	})
}

type dashboard struct {
	Total            int                          `json:"total"`
	ByStatus         map[models.StationStatus]int `json:"byStatus"`
	ByConnector      map[models.ConnectorType]int `json:"byConnector"`
	TotalPowerOutput float64                      `json:"totalPowerOutput"`
	Recent           []models.Station             `json:"recent"`
}

func summarize(stations []models.Station) dashboard {
	d := dashboard{
		Total:       len(stations),
		ByStatus:    make(map[models.StationStatus]int, len(models.StationStatuses)),
		ByConnector: make(map[models.ConnectorType]int, len(models.ConnectorTypes)),
	}
	for _, s := range models.StationStatuses {
		d.ByStatus[s] = 0
	}
	for _, c := range models.ConnectorTypes {
		d.ByConnector[c] = 0
	}
	for _, st := range stations {
		d.ByStatus[st.Status]++
		d.ByConnector[st.ConnectorType]++
		d.TotalPowerOutput += st.PowerOutput
	}

	recent := append([]models.Station(nil), stations...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	if len(recent) > recentStations {
		recent = recent[:recentStations]
	}
	d.Recent = recent
	return d
}

// Dashboard handles GET /dashboard.
func (h *ViewHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, calls := opstate.WithRecorder(r.Context())
	stations := h.stations.FetchStations(ctx, models.StationFilters{})
	p := page{Route: navigation.RouteDashboard, Session: newSessionView(h.session), Data: summarize(stations)}
	p.Error = callError(calls, service.OpFetchStations, "")
	writeJSON(w, http.StatusOK, p)
}

type pointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type feature struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	Geometry   pointGeometry          `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
	Focus    string    `json:"focus,omitempty"`
	// Center is [lng, lat] of the focused station, absent without focus.
	Center *[2]float64 `json:"center,omitempty"`
}

func stationFeature(st models.Station) feature {
	return feature{
		Type: "Feature",
		ID:   st.ID,
		Geometry: pointGeometry{
			Type:        "Point",
			Coordinates: [2]float64{st.Location.Lng, st.Location.Lat},
		},
		Properties: map[string]interface{}{
			"name":          st.Name,
			"address":       st.Address,
			"status":        st.Status,
			"powerOutput":   st.PowerOutput,
			"connectorType": st.ConnectorType,
		},
	}
}

// Map handles GET /map and GET /map/{stationId}.
func (h *ViewHandlers) Map(w http.ResponseWriter, r *http.Request) {
	ctx, calls := opstate.WithRecorder(r.Context())
	stations := h.stations.FetchStations(ctx, models.StationFilters{})

	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, len(stations))}
	for _, st := range stations {
		fc.Features = append(fc.Features, stationFeature(st))
	}

	if id := chi.URLParam(r, "stationId"); id != "" {
		focus, found := findStation(stations, id)
		if !found {
			st := h.stations.FetchStationByID(ctx, id)
			if st == nil {
				h.logger.Debug("map focus station unavailable", zap.String("station_id", id))
				writeError(w, http.StatusNotFound, callError(calls, service.OpFetchStationByID, "station not found"))
				return
			}
			focus = *st
			fc.Features = append(fc.Features, stationFeature(focus))
		}
		fc.Focus = focus.ID
		fc.Center = &[2]float64{focus.Location.Lng, focus.Location.Lat}
	}

	p := page{Route: navigation.RouteMap, Session: newSessionView(h.session), Data: fc}
	p.Error = callError(calls, service.OpFetchStations, "")
	writeJSON(w, http.StatusOK, p)
}

func findStation(stations []models.Station, id string) (models.Station, bool) {
	for _, st := range stations {
		if st.ID == id {
			return st, true
		}
	}
	return models.Station{}, false
}

// Session handles GET /session: the session view plus per-call status of both stores.
func (h *ViewHandlers) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": newSessionView(h.session),
		"status": map[string]service.Status{
			"session":  h.session.Status(),
			"stations": h.stations.Status(),
		},
		"calls": map[string]interface{}{
			"session":  h.session.Calls(),
			"stations": h.stations.Calls(),
		},
	})
}

// Routes handles GET /routes, the navigation table with access flags.
func (h *ViewHandlers) Routes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": navigation.Routes})
}

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

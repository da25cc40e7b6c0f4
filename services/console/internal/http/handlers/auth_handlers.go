package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"stationdesk/services/console/internal/navigation"
	"stationdesk/services/console/internal/opstate"
	"stationdesk/services/console/internal/service"
)

// AuthHandlers serves the sign-in views and actions.
type AuthHandlers struct {
	session  *service.SessionStore
	stations *service.StationStore
	logger   *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(session *service.SessionStore, stations *service.StationStore, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{session: session, stations: stations, logger: logger}
}

type signInResult struct {
	Data     *userView `json:"data"`
	Redirect string    `json:"redirect"`
}

// redirectTarget is where a successful sign-in continues: the ?redirect= left by the guard
// when it is a local path, otherwise the dashboard.
func redirectTarget(r *http.Request) string {
	return navigation.SafeRedirect(r.URL.Query().Get("redirect"), navigation.MustLookup(navigation.RouteDashboard).Path(nil))
}

// LoginForm handles GET /login.
func (h *AuthHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, page{
		Route:   navigation.RouteLogin,
		Session: newSessionView(h.session),
		Data:    map[string]string{"redirect": redirectTarget(r)},
	})
}

// RegisterForm handles GET /register.
func (h *AuthHandlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, page{Route: navigation.RouteRegister, Session: newSessionView(h.session)})
}

// Login handles POST /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, calls := opstate.WithRecorder(r.Context())
	if !h.session.Login(ctx, req.Email, req.Password) {
		writeError(w, http.StatusUnauthorized, callError(calls, service.OpLogin, "Login failed"))
		return
	}
	writeJSON(w, http.StatusOK, signInResult{Data: newUserView(h.session.User()), Redirect: redirectTarget(r)})
}

// Register handles POST /register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, calls := opstate.WithRecorder(r.Context())
	if !h.session.Register(ctx, req.Name, req.Email, req.Password) {
		writeError(w, http.StatusUnprocessableEntity, callError(calls, service.OpRegister, "Registration failed"))
		return
	}
	writeJSON(w, http.StatusCreated, signInResult{Data: newUserView(h.session.User()), Redirect: redirectTarget(r)})
}

// Logout handles POST /logout. It always succeeds.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout(r.Context())
	h.stations.Reset()
	h.logger.Info("signed out")
	writeJSON(w, http.StatusOK, map[string]string{"redirect": navigation.MustLookup(navigation.RouteLogin).Path(nil)})
}

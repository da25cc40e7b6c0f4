package app

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"stationdesk/libs/metrics"
	"stationdesk/services/console/internal/clients"
	appconfig "stationdesk/services/console/internal/config"
	httpserver "stationdesk/services/console/internal/http"
	"stationdesk/services/console/internal/http/handlers"
	"stationdesk/services/console/internal/notify"
	"stationdesk/services/console/internal/service"
	"stationdesk/services/console/internal/storage"
	"stationdesk/services/console/internal/ws"
)

// App wires console dependencies.
type App struct {
	Session  *service.SessionStore
	Stations *service.StationStore

	server  *httpserver.Server
	handler http.Handler
	hub     *ws.Hub
	storage storage.Store
	logger  *zap.Logger
}

// New constructs application graph and restores the persisted session.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	center := notify.NewCenter(cfg.AutoClose(), logger)
	hub := ws.NewHub(logger, func() interface{} { return center.Active() })
	center.AddSink(hub)

	httpClient := clients.NewDefaultHTTPClient(cfg.APITimeout())
	// the session store is the token source, so it is built with a late-bound base client
	var session *service.SessionStore
	base := clients.NewBaseClient(cfg.API.BaseURL, httpClient, clients.TokenFunc(func() string {
		return session.Token()
	}))

	session = service.NewSessionStore(clients.NewAuthClient(base), store, center, logger)
	stations := service.NewStationStore(clients.NewStationsClient(base), center, service.StationStoreOptions{
		MergeWrites: cfg.Stations.MergeWrites,
	}, logger)

	session.RestoreSession(ctx)
	logger.Info("session restored", zap.Bool("authenticated", session.IsAuthenticated()))

	var checkOrigin func(r *http.Request) bool
	if !cfg.AllowsAnyOrigin() {
		checkOrigin = originChecker(cfg.CORS.AllowedOrigins)
	}
	wsServer := ws.NewServer(hub, checkOrigin, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Session:               session,
		AuthHandlers:          handlers.NewAuthHandlers(session, stations, logger),
		ViewHandlers:          handlers.NewViewHandlers(session, stations, logger),
		StationsHandlers:      handlers.NewStationsHandlers(session, stations, logger),
		NotificationsHandlers: handlers.NewNotificationsHandlers(center),
		WebSocketHandler:      wsServer.HandleWS,
		HealthHandler:         handlers.NewHealthHandler(),
		MetricsHandler:        metrics.Handler(),
		AllowedOrigins:        cfg.CORS.AllowedOrigins,
		Logger:                logger,
	})

	return &App{
		Session:  session,
		Stations: stations,
		server:   httpserver.NewServer(cfg.HTTPAddress(), router, logger),
		handler:  router,
		hub:      hub,
		storage:  store,
		logger:   logger,
	}, nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(strings.TrimSpace(o), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}

// Handler exposes the router, e.g. for httptest.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts the notification hub and serves HTTP traffic until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases the storage backend.
func (a *App) Close() {
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.logger.Warn("failed to close storage", zap.Error(err))
		}
	}
}

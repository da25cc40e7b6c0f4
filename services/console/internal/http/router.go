package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"stationdesk/services/console/internal/http/handlers"
	"stationdesk/services/console/internal/http/middleware"
	"stationdesk/services/console/internal/navigation"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Session               middleware.SessionState
	AuthHandlers          *handlers.AuthHandlers
	ViewHandlers          *handlers.ViewHandlers
	StationsHandlers      *handlers.StationsHandlers
	NotificationsHandlers *handlers.NotificationsHandlers
	WebSocketHandler      http.HandlerFunc
	HealthHandler         http.HandlerFunc
	MetricsHandler        http.Handler
	AllowedOrigins        []string
	Logger                *zap.Logger
}

// NewRouter wires console routes. Every view route runs the navigation guard with its own flags.
// Request bodies must be JSON, so a cross-site form or text/plain post cannot act with the
// console's session. Without AllowedOrigins no CORS headers are sent at all.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware(deps.Logger))
	r.Use(middleware.LoggingMiddleware(deps.Logger))
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))
	}
	r.Use(chimw.AllowContentType("application/json"))

	guarded := func(name string) chi.Router {
		return r.With(middleware.Guard(navigation.MustLookup(name).Meta, deps.Session))
	}

	r.Get("/health", deps.HealthHandler)
	r.Handle("/metrics", deps.MetricsHandler)
	r.Get("/routes", deps.ViewHandlers.Routes)
	r.Get("/session", deps.ViewHandlers.Session)

	guarded(navigation.RouteHome).Get("/", deps.ViewHandlers.Home)

	login := guarded(navigation.RouteLogin)
	login.Get("/login", deps.AuthHandlers.LoginForm)
	login.Post("/login", deps.AuthHandlers.Login)

	register := guarded(navigation.RouteRegister)
	register.Get("/register", deps.AuthHandlers.RegisterForm)
	register.Post("/register", deps.AuthHandlers.Register)

	r.Post("/logout", deps.AuthHandlers.Logout)

	guarded(navigation.RouteDashboard).Get("/dashboard", deps.ViewHandlers.Dashboard)

	stations := guarded(navigation.RouteStations)
	stations.Get("/stations", deps.StationsHandlers.List)
	stations.Post("/stations", deps.StationsHandlers.Create)
	stations.Put("/stations/{id}", deps.StationsHandlers.Update)
	stations.Delete("/stations/{id}", deps.StationsHandlers.Delete)

	guarded(navigation.RouteNewStation).Get("/stations/new", deps.StationsHandlers.NewForm)
	guarded(navigation.RouteEditStation).Get("/stations/{id}/edit", deps.StationsHandlers.EditForm)

	maps := guarded(navigation.RouteMap)
	maps.Get("/map", deps.ViewHandlers.Map)
	maps.Get("/map/{stationId}", deps.ViewHandlers.Map)

	r.Get("/notifications", deps.NotificationsHandlers.List)
	r.Delete("/notifications/{id}", deps.NotificationsHandlers.Dismiss)
	if deps.WebSocketHandler != nil {
		r.Get("/ws/notifications", deps.WebSocketHandler)
	}

	r.NotFound(deps.ViewHandlers.NotFound)
	return r
}

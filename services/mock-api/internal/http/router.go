package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"stationdesk/services/mock-api/internal/http/handlers"
	"stationdesk/services/mock-api/internal/http/middleware"
)

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Auth     *handlers.AuthHandlers
	Stations *handlers.StationsHandlers
	Health   http.HandlerFunc
	Tokens   middleware.TokenValidator
	Logger   *zap.Logger
}

// NewRouter wires all HTTP routes. Station reads are public, writes need a bearer token.
func NewRouter(routes Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(routes.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", routes.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", routes.Auth.Register)
		r.Post("/login", routes.Auth.Login)
	})

	r.Route("/stations", func(r chi.Router) {
		r.Get("/", routes.Stations.List)
		r.Get("/{id}", routes.Stations.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(routes.Tokens))
			r.Post("/", routes.Stations.Create)
			r.Put("/{id}", routes.Stations.Update)
			r.Delete("/{id}", routes.Stations.Delete)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}

package app

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	appconfig "stationdesk/services/mock-api/internal/config"
	httpserver "stationdesk/services/mock-api/internal/http"
	"stationdesk/services/mock-api/internal/http/handlers"
	"stationdesk/services/mock-api/internal/models"
	"stationdesk/services/mock-api/internal/password"
	"stationdesk/services/mock-api/internal/repository"
	"stationdesk/services/mock-api/internal/service"
)

// App wires dependencies for the mock API.
type App struct {
	server  *httpserver.Server
	handler http.Handler
	logger  *zap.Logger
}

// New builds application graph and applies the configured seed data.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	users := repository.NewUserRepository()
	stations := repository.NewStationRepository()
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(users, password.NewBcrypt(cfg.Password.BcryptCost), tokens, logger)
	stationsSvc := service.NewStationsService(stations, logger)

	if cfg.Seed.StationsFile != "" && !cfg.SeedsAdmin() {
		return nil, errors.New("app: seeding stations requires an admin account")
	}
	if cfg.SeedsAdmin() {
		adminID, err := authSvc.EnsureAdmin(ctx, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
		if err != nil {
			return nil, err
		}
		logger.Info("admin account ready", zap.String("email", cfg.Seed.AdminEmail))

		if cfg.Seed.StationsFile != "" {
			seeds, err := loadSeedStations(cfg.Seed.StationsFile)
			if err != nil {
				return nil, err
			}
			admin := service.Actor{UserID: adminID, Role: models.RoleAdmin}
			if err := seedStations(ctx, stationsSvc, admin, seeds); err != nil {
				return nil, err
			}
			logger.Info("stations seeded", zap.Int("count", len(seeds)))
		}
	}

	router := httpserver.NewRouter(httpserver.Routes{
		Auth:     handlers.NewAuthHandlers(authSvc, logger),
		Stations: handlers.NewStationsHandlers(stationsSvc, logger),
		Health:   handlers.NewHealthHandler(),
		Tokens:   tokens,
		Logger:   logger,
	})

	return &App{
		server:  httpserver.NewServer(cfg.HTTPAddress(), router, logger),
		handler: router,
		logger:  logger,
	}, nil
}

// Handler exposes the router for in-process use.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

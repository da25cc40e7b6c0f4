package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"stationdesk/libs/db"
	libredis "stationdesk/libs/redis"
	appconfig "stationdesk/services/console/internal/config"
	"stationdesk/services/console/internal/storage"
)

// openStorage builds the session storage backend selected by storage.driver.
func openStorage(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (storage.Store, error) {
	logger.Info("opening session storage", zap.String("driver", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case storage.DriverMemory:
		return storage.NewMemoryStore(), nil
	case storage.DriverFile:
		return storage.NewFileStore(cfg.Storage.FilePath)
	case storage.DriverRedis:
		client, err := libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: connect redis: %w", err)
		}
		return storage.NewRedisStore(client, cfg.Storage.Redis.Namespace, cfg.RedisTTL()), nil
	case storage.DriverSQLite:
		sqlDB, err := db.NewSQLiteDB(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return newSQLStore(ctx, sqlDB, storage.DialectSQLite)
	case storage.DriverPostgres:
		sqlDB, err := db.NewPostgresDB(ctx, cfg.Storage.PostgresDSN, db.SessionPool)
		if err != nil {
			return nil, err
		}
		return newSQLStore(ctx, sqlDB, storage.DialectPostgres)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
	}
}

func newSQLStore(ctx context.Context, sqlDB *sql.DB, dialect storage.Dialect) (storage.Store, error) {
	store, err := storage.NewSQLStore(ctx, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

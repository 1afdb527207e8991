package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"phoneshop/internal/store"
	"phoneshop/internal/store/memory"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// OpenStores builds the store bundle for driver. The returned close function
// releases the connection and is safe to call once.
func OpenStores(ctx context.Context, driver, uri, dbName string, logger *zap.Logger) (store.Stores, func(context.Context) error, error) {
	switch driver {
	case DriverMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		return memory.New().Stores(), func(context.Context) error { return nil }, nil
	case DriverMongo:
		client, err := Connect(ctx, uri)
		if err != nil {
			return store.Stores{}, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		db := client.Database(dbName)
		logger.Info("mongodb connected", zap.String("database", db.Name()))

		if err := EnsureIndexes(ctx, db, logger); err != nil {
			logger.Warn("index bootstrap incomplete", zap.Error(err))
		}
		return Stores(db), client.Disconnect, nil
	default:
		return store.Stores{}, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Package app wires configured collaborators shared by the server and the
// operator CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/platefinder/internal/config"
	dbRedis "github.com/kailas-cloud/platefinder/internal/db/redis"
	"github.com/kailas-cloud/platefinder/internal/db/sqldb"
	"github.com/kailas-cloud/platefinder/internal/repository/container"
)

// Storage is an opened container source together with its health check.
type Storage struct {
	Source container.Source
	Pinger interface {
		Ping(ctx context.Context) error
	}
	closeFn func()
}

// Close releases the underlying connection.
func (s *Storage) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// OpenStorage connects the configured driver, waits until it answers and
// returns a container source on top of it.
func OpenStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Storage, error) {
	readiness := time.Duration(cfg.ReadinessTimeout) * time.Second

	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
		}
		logger.Info("Connected to key-value store",
			zap.String("driver", cfg.Driver),
			zap.Strings("addrs", cfg.Addrs),
			zap.String("key_prefix", cfg.KeyPrefix),
		)
		return &Storage{
			Source:  container.NewKV(store, cfg.KeyPrefix),
			Pinger:  store,
			closeFn: store.Close,
		}, nil

	case config.DriverPostgres, config.DriverSQLite:
		store, err := sqldb.NewStore(sqldb.Config{Driver: cfg.Driver, DSN: cfg.DSN})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		logger.Info("Connected to SQL store", zap.String("driver", cfg.Driver))
		return &Storage{
			Source:  container.NewSQL(store),
			Pinger:  store,
			closeFn: store.Close,
		}, nil

	case config.DriverFile:
		repo, err := container.LoadFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		containers, _ := repo.List(ctx)
		logger.Info("Loaded dataset file",
			zap.String("path", cfg.Path),
			zap.Int("containers", len(containers)),
		)
		return &Storage{Source: repo, Pinger: repo}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

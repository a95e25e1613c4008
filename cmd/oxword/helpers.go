package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/at-ishikawa/oxword/internal/cache"
	"github.com/at-ishikawa/oxword/internal/config"
	"github.com/at-ishikawa/oxword/internal/wordstore"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func noopClose() error {
	return nil
}

// openCacheStore creates the process-wide cache store on the configured backend.
// The returned function releases the backend.
func openCacheStore(cfg config.CacheConfig) (*cache.Store, func() error, error) {
	switch cfg.Backend {
	case "memory":
		return cache.NewStore(cache.NewMemoryStorage()), noopClose, nil
	case "file":
		return cache.NewStore(cache.NewFileStorage(cfg.Directory)), noopClose, nil
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
			}
		}
		storage, err := cache.OpenSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("cache.OpenSQLiteStorage() > %w", err)
		}
		return cache.NewStore(storage), storage.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return cache.NewStore(cache.NewRedisStorage(client)), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// newEntryLoader reads the local CSV file when configured, and the word store server otherwise.
func newEntryLoader(cfg config.WordStoreConfig, bulkLimit int) wordstore.Loader {
	if cfg.CSVFile != "" {
		slog.Default().Debug("loading entries from a csv file", "path", cfg.CSVFile)
		return wordstore.NewCSVLoader(cfg.CSVFile)
	}
	return wordstore.NewClient(cfg.BaseURL, bulkLimit)
}

func closeWithLog(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		slog.Default().Warn("failed to close", "resource", name, "error", err)
	}
}

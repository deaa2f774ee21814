package backends

import (
	"context"
	"crypto/tls"
	"fmt"

	"paneld/internal/backends/file"
	"paneld/internal/backends/registry"
	"paneld/internal/ports"
	"paneld/internal/sessions"
	"paneld/internal/types"

	"github.com/redis/go-redis/v9"
)

// DirectoryFromConfig constructs the listing backend plus the file-backed
// store. The file store is always built: creation targets it regardless of
// which backend serves listing. The choice is fixed for the process lifetime;
// nothing re-reads configuration per request.
func DirectoryFromConfig(cfg types.Config, sess ports.SessionStore) (ports.ClientLister, *file.Store, error) {
	store := file.NewStore(cfg.DataDir, sess)
	switch cfg.DirectoryBackend {
	case types.BackendRegistry:
		adapter := registry.NewAdapter(cfg.RegistryBaseURL, cfg.RegistryTimeout)
		return registry.NewTenantLister(adapter, cfg.RegistryTenantID), store, nil

	case types.BackendFile, "":
		return store, store, nil

	default:
		return nil, nil, types.Err(types.ErrInvalidBackend, nil, "unknown directory backend %q", cfg.DirectoryBackend)
	}
}

// SessionsFromConfig constructs the session store. Defaults to the in-process
// store; "redis" keeps sessions across restarts and replicas.
func SessionsFromConfig(cfg types.Config) (ports.SessionStore, error) {
	switch cfg.SessionBackend {
	case types.SessionRedis:
		cli, err := redisClientFromConfig(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return sessions.NewRedis(cli), nil

	case types.SessionMemory, "":
		return sessions.NewMemory(), nil

	default:
		return nil, types.Err(types.ErrInvalidBackend, nil, "unknown session backend %q", cfg.SessionBackend)
	}
}

func redisClientFromConfig(rc types.RedisConfig) (*redis.Client, error) {
	var tlsConfig *tls.Config
	if rc.TLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:      fmt.Sprintf("%s:%d", rc.Host, rc.Port),
		Username:  rc.User,
		Password:  rc.Pass,
		DB:        rc.DB,
		TLSConfig: tlsConfig,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return redisClient, nil
}

package types

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
)

const (
	BackendFile     = "file"
	BackendRegistry = "registry"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config is the startup configuration for the panel. The directory backend is
// a static deployment decision: one of "file" (local JSON store) or "registry"
// (remote SOAP customer registry). Creation always targets the file store, so
// DataDir applies to both backends.
// Loading order: built-in defaults, then an optional YAML file, then
// environment overrides.
type Config struct {
	Port int `yaml:"port" env:"PORT"`

	AdminUser string `yaml:"admin_user" env:"ADMIN_USER"`
	AdminPass string `yaml:"admin_pass" env:"ADMIN_PASS"`

	DirectoryBackend string `yaml:"directory_backend" env:"DIRECTORY_BACKEND"`
	DataDir          string `yaml:"data_dir" env:"DATA_DIR"`

	RegistryBaseURL  string        `yaml:"registry_base_url" env:"REGISTRY_BASE_URL"`
	RegistryTenantID string        `yaml:"registry_tenant_id" env:"REGISTRY_TENANT_ID"`
	RegistryTimeout  time.Duration `yaml:"registry_timeout" env:"REGISTRY_TIMEOUT"`

	SessionBackend string        `yaml:"session_backend" env:"SESSION_BACKEND"`
	SessionTTL     time.Duration `yaml:"session_ttl" env:"SESSION_TTL"`

	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Host string `yaml:"host" env:"REDIS_HOST"`
	Port int    `yaml:"port" env:"REDIS_PORT"`
	User string `yaml:"user" env:"REDIS_USER"`
	Pass string `yaml:"pass" env:"REDIS_PASS"`
	TLS  bool   `yaml:"tls" env:"REDIS_SSL"`
	DB   int    `yaml:"db" env:"REDIS_DB_NUM"`
}

// DefaultConfig mirrors the defaults the panel shipped with: admin/password
// credentials, file backend with a data dir relative to the working directory,
// 24h sessions.
func DefaultConfig() Config {
	return Config{
		Port:             8080,
		AdminUser:        "admin",
		AdminPass:        "password",
		DirectoryBackend: BackendFile,
		DataDir:          "data",
		RegistryBaseURL:  "http://localhost:8085/msregister",
		RegistryTimeout:  5 * time.Second,
		SessionBackend:   SessionMemory,
		SessionTTL:       24 * time.Hour,
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
	}
}

// LoadConfig builds the runtime configuration. path names an optional YAML
// file; "" skips the file layer. Environment variables win over the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in (0, 65535]")
	}
	if c.AdminUser == "" {
		return fmt.Errorf("admin_user is required")
	}
	if c.AdminPass == "" {
		return fmt.Errorf("admin_pass is required")
	}
	switch c.DirectoryBackend {
	case BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the file backend")
		}
	case BackendRegistry:
		if c.RegistryBaseURL == "" {
			return fmt.Errorf("registry_base_url is required for the registry backend")
		}
		if c.RegistryTenantID == "" {
			return fmt.Errorf("registry_tenant_id is required for the registry backend")
		}
		if c.RegistryTimeout <= 0 {
			return fmt.Errorf("registry_timeout must be positive")
		}
	default:
		return Err(ErrInvalidBackend, nil, "unknown directory backend %q", c.DirectoryBackend)
	}
	// The file store backs creation regardless of the listing backend.
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch c.SessionBackend {
	case SessionMemory, SessionRedis:
	default:
		return Err(ErrInvalidBackend, nil, "unknown session backend %q", c.SessionBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	return nil
}

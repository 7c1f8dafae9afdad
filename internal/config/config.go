// Package config loads console configuration from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds all console configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds backend endpoint settings. Each endpoint family has its own base URL.
type APIConfig struct {
	AdminURL       string        `env:"ADMIN_API_URL,default=http://localhost:8080" yaml:"admin_url"`
	CoinURL        string        `env:"COIN_API_URL,default=http://localhost:8081" yaml:"coin_url"`
	LoginPath      string        `env:"LOGIN_PATH,default=/login" yaml:"login_path"`
	RateLimit      float64       `env:"API_RATE_LIMIT,default=0" yaml:"rate_limit"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE,default=300ms" yaml:"search_debounce"`
}

// SessionConfig selects and configures the credential store.
type SessionConfig struct {
	Store         string        `env:"SESSION_STORE,default=file" yaml:"store"`
	File          string        `env:"SESSION_FILE" yaml:"file"`
	Key           string        `env:"SESSION_KEY" yaml:"key"`
	RedisAddr     string        `env:"REDIS_ADDR,default=localhost:6379" yaml:"redis_addr"`
	RedisPassword string        `env:"REDIS_PASSWORD" yaml:"redis_password"`
	RedisDB       int           `env:"REDIS_DB,default=0" yaml:"redis_db"`
	RedisKey      string        `env:"SESSION_REDIS_KEY,default=adminctl:session" yaml:"redis_key"`
	RedisTTL      time.Duration `env:"SESSION_REDIS_TTL,default=0s" yaml:"redis_ttl"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info" yaml:"level"`
	Format string `env:"LOG_FORMAT,default=text" yaml:"format"`
}

// Load reads .env (when present), decodes the environment with defaults, then
// applies the YAML file at path on top. An empty path skips the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.Session.File == "" {
		cfg.Session.File = DefaultSessionFile()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Validate checks base URLs and store settings.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"admin_url": c.API.AdminURL, "coin_url": c.API.CoinURL} {
		if err := validateBaseURL(raw); err != nil {
			return fmt.Errorf("api.%s: %w", name, err)
		}
	}
	if !strings.HasPrefix(c.API.LoginPath, "/") {
		return fmt.Errorf("api.login_path: must start with /")
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit: must not be negative")
	}

	switch c.Session.Store {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.Session.RedisAddr == "" {
			return fmt.Errorf("session.redis_addr: is required for the redis store")
		}
	default:
		return fmt.Errorf("session.store: unknown store %q", c.Session.Store)
	}

	if c.Session.Key != "" {
		if _, err := c.Session.SealKey(); err != nil {
			return err
		}
	}
	return nil
}

// SealKey decodes the hex file-store key. It returns nil when no key is configured.
func (s SessionConfig) SealKey() ([]byte, error) {
	if s.Key == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(strings.TrimSpace(s.Key))
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("session.key: must be 64 hex characters")
	}
	return key, nil
}

// DefaultSessionFile returns $HOME/.adminctl/session.json, or a relative path when
// no home directory is known.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".adminctl", "session.json")
	}
	return filepath.Join(home, ".adminctl", "session.json")
}

func validateBaseURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if parsed.User != nil {
		return fmt.Errorf("must not include user info")
	}
	return nil
}

// Package config loads artlog settings from struct defaults, an optional YAML
// file and ARTLOG_-prefixed environment variables, in that order of priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix     = "ARTLOG_"
	ConfigPathEnv = "CONFIG_PATH"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Auth     AuthConfig     `koanf:"auth"`
	Store    StoreConfig    `koanf:"store"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Wikidata UpstreamConfig `koanf:"wikidata"`
	Met      UpstreamConfig `koanf:"met"`
	Enrich   EnrichConfig   `koanf:"enrich"`
}

type ServerConfig struct {
	Addr           string   `koanf:"addr"`
	AllowedOrigins []string `koanf:"allowed_origins"`
	RateLimitRPS   float64  `koanf:"rate_limit_rps"`
	RateLimitBurst int      `koanf:"rate_limit_burst"`
	MaxBodyBytes   int64    `koanf:"max_body_bytes"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type AuthConfig struct {
	// JWTSecret verifies bearer tokens minted by the external auth provider.
	JWTSecret string `koanf:"jwt_secret"`
}

type StoreConfig struct {
	Driver      string `koanf:"driver"` // memory, badger, postgres
	BadgerPath  string `koanf:"badger_path"`
	PostgresDSN string `koanf:"postgres_dsn"`

	// MaxRetries caps optimistic transaction retries. Zero retries until the
	// caller's context ends.
	MaxRetries int `koanf:"max_retries"`
}

type CatalogConfig struct {
	Path   string `koanf:"path"`
	Layout string `koanf:"layout"` // legacy or open_access
}

type UpstreamConfig struct {
	BaseURL    string        `koanf:"base_url"`
	UserAgent  string        `koanf:"user_agent"`
	RPS        int           `koanf:"rps"`
	MaxRetries int           `koanf:"max_retries"`
	Timeout    time.Duration `koanf:"timeout"`
}

type EnrichConfig struct {
	ResolveTimeout    time.Duration `koanf:"resolve_timeout"`
	SearchConcurrency int           `koanf:"search_concurrency"`
	MaxSearchResults  int           `koanf:"max_search_results"`

	// AggregateTimeout bounds the artist count update that follows a saved
	// review. It runs detached from the request.
	AggregateTimeout time.Duration `koanf:"aggregate_timeout"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			RateLimitRPS:   20,
			RateLimitBurst: 40,
			MaxBodyBytes:   1 << 20,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Store: StoreConfig{
			Driver:     "memory",
			BadgerPath: "data/badger",
		},
		Catalog: CatalogConfig{
			Path:   "data/met_database.csv",
			Layout: "open_access",
		},
		Wikidata: UpstreamConfig{
			BaseURL:    "https://www.wikidata.org/w/api.php",
			UserAgent:  "artlog/1.0 (https://github.com/artlog)",
			RPS:        5,
			MaxRetries: 2,
			Timeout:    15 * time.Second,
		},
		Met: UpstreamConfig{
			BaseURL:    "https://collectionapi.metmuseum.org/public/collection/v1",
			UserAgent:  "artlog/1.0 (https://github.com/artlog)",
			RPS:        20,
			MaxRetries: 2,
			Timeout:    15 * time.Second,
		},
		Enrich: EnrichConfig{
			ResolveTimeout:    10 * time.Second,
			SearchConcurrency: 8,
			MaxSearchResults:  20,
			AggregateTimeout:  30 * time.Second,
		},
	}
}

// LoadEnvFiles loads .env and .env.local without overriding variables that
// are already set by the runtime.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the configuration. A missing config file is not an error.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := configPath(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// Env vars carry lists as comma-separated strings.
	if raw, ok := k.Get("server.allowed_origins").(string); ok {
		_ = k.Set("server.allowed_origins", splitList(raw))
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "badger":
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	if c.Store.MaxRetries < 0 {
		return fmt.Errorf("store.max_retries must not be negative")
	}

	switch c.Catalog.Layout {
	case "legacy", "open_access":
	default:
		return fmt.Errorf("unknown catalog.layout %q", c.Catalog.Layout)
	}

	if c.Enrich.MaxSearchResults <= 0 {
		return fmt.Errorf("enrich.max_search_results must be positive")
	}
	return nil
}

// envKey maps ARTLOG_STORE_POSTGRES_DSN to store.postgres_dsn. Only the first
// underscore separates the section from the field.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + field
}

func configPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	for _, p := range []string{"config.yaml", "config.yml"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

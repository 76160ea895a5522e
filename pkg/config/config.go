package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:pulse.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Poller PollerConfig `yaml:"poller" json:"poller" jsonschema:"description=Notification polling configuration"`

	Digest DigestConfig `yaml:"digest" json:"digest" jsonschema:"description=AI insight digest configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for engagement insights"`

	Auth AuthConfig `yaml:"auth" json:"auth" jsonschema:"description=Token authentication configuration"`

	Cache CacheConfig `yaml:"cache" json:"cache" jsonschema:"description=Unread count cache configuration"`
}

// PollerConfig holds notification polling settings
type PollerConfig struct {
	Interval   time.Duration `yaml:"interval" json:"interval" jsonschema:"default=10s,description=Fixed polling interval"`
	PageSize   int           `yaml:"page_size" json:"page_size" jsonschema:"default=100,description=Unread fetch page size cap"`
	MaxBackoff time.Duration `yaml:"max_backoff" json:"max_backoff" jsonschema:"default=5m,description=Backoff ceiling after consecutive fetch failures"`
}

// DigestConfig holds AI insight digest worker settings
type DigestConfig struct {
	Enabled    bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable periodic AI insight notifications"`
	Interval   time.Duration `yaml:"interval" json:"interval" jsonschema:"default=24h,description=Digest generation interval"`
	Lookback   time.Duration `yaml:"lookback" json:"lookback" jsonschema:"default=168h,description=Engagement history window fed to the LLM"`
	MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=4,description=Maximum concurrent insight generations"`
}

// LLMConfig holds LLM configuration for engagement insights
type LLMConfig struct {
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"required,description=OpenAI-compatible API endpoint (Ollama works)"`
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model       string        `yaml:"model" json:"model" jsonschema:"required,description=Model name (e.g. llama3 or gpt-4o-mini)"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=500,description=Maximum tokens in response"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
}

// AuthConfig holds token authentication settings
type AuthConfig struct {
	Secret   string        `yaml:"secret" json:"secret" jsonschema:"required,description=HMAC secret for signing tokens"`
	TokenTTL time.Duration `yaml:"token_ttl" json:"token_ttl" jsonschema:"default=24h,description=Lifetime of minted tokens"`
	Issuer   string        `yaml:"issuer" json:"issuer" jsonschema:"default=pulse,description=Token issuer"`
}

// CacheConfig holds unread count cache settings
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" json:"ttl" jsonschema:"default=30s,description=Unread count cache TTL"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:pulse.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for poller
	if cfg.Poller.Interval == 0 {
		cfg.Poller.Interval = 10 * time.Second
	}
	if cfg.Poller.PageSize == 0 {
		cfg.Poller.PageSize = 100
	}
	if cfg.Poller.MaxBackoff == 0 {
		cfg.Poller.MaxBackoff = 5 * time.Minute
	}

	// set defaults for digest
	if cfg.Digest.Interval == 0 {
		cfg.Digest.Interval = 24 * time.Hour
	}
	if cfg.Digest.Lookback == 0 {
		cfg.Digest.Lookback = 7 * 24 * time.Hour
	}
	if cfg.Digest.MaxWorkers == 0 {
		cfg.Digest.MaxWorkers = 4
	}

	// set defaults for LLM
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 500
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}

	// set defaults for auth
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "pulse"
	}

	// set defaults for cache
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 30 * time.Second
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	// validate poller config
	if cfg.Poller.Interval < time.Second {
		return fmt.Errorf("poller.interval must be at least 1 second")
	}
	if cfg.Poller.PageSize < 1 {
		return fmt.Errorf("poller.page_size must be at least 1")
	}
	if cfg.Poller.MaxBackoff < cfg.Poller.Interval {
		return fmt.Errorf("poller.max_backoff must not be below poller.interval")
	}

	// validate auth config
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}

	// validate LLM config only when the digest needs it
	if cfg.Digest.Enabled {
		if cfg.LLM.Endpoint == "" {
			return fmt.Errorf("llm.endpoint is required when digest is enabled")
		}
		if cfg.LLM.Model == "" {
			return fmt.Errorf("llm.model is required when digest is enabled")
		}
		if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
			return fmt.Errorf("llm.temperature must be between 0 and 2")
		}
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetPollerConfig returns poller configuration
func (c *Config) GetPollerConfig() PollerConfig {
	return c.Poller
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// GetAuthConfig returns auth configuration
func (c *Config) GetAuthConfig() AuthConfig {
	return c.Auth
}
